// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shader.wgsl
var sceneShaderSource string

// compileSceneShader compiles the scene shader to SPIR-V words.
func compileSceneShader() ([]uint32, error) {
	if sceneShaderSource == "" {
		return nil, fmt.Errorf("scene shader source is empty")
	}
	spirvBytes, err := naga.Compile(sceneShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile scene shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile scene shader: SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
