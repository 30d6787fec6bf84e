// Package bake flattens a scene graph into GPU-ready buffers.
//
// Every frame the Baker walks the world top-down, resolves each object's
// world matrix once, and appends the object's mesh to one shared vertex and
// index stream. The resulting Output lists one Draw per drawable object and
// can be merged into the minimal set of indexed draw calls with Batches.
package bake

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/geometry"
	"github.com/gogpu/g3d/world"
)

// ErrCapacity is returned when a frame needs more vertices than a uint32
// index can address.
var ErrCapacity = errors.New("bake: vertex count exceeds index range")

// Policy selects where vertex positions are transformed.
type Policy int

const (
	// PolicyWorldSpace transforms positions on the CPU. All draws share an
	// identity model matrix and merge into a single draw call.
	PolicyWorldSpace Policy = iota

	// PolicyLocalSpace keeps positions in object space and carries each
	// object's world matrix in Draw.Model for a per-draw uniform.
	PolicyLocalSpace
)

func (p Policy) String() string {
	switch p {
	case PolicyWorldSpace:
		return "world"
	case PolicyLocalSpace:
		return "local"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "world" or "local".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "world", "":
		return PolicyWorldSpace, nil
	case "local":
		return PolicyLocalSpace, nil
	}
	return 0, fmt.Errorf("bake: unknown policy %q", s)
}

// Default initial capacities of the shared buffers.
const (
	DefaultVertexCapacity = 128
	DefaultIndexCapacity  = 1024
)

// Option configures a Baker.
type Option func(*Baker)

// WithPolicy sets the transform policy. The policy is fixed for the
// lifetime of the Baker.
func WithPolicy(p Policy) Option {
	return func(b *Baker) { b.policy = p }
}

// WithCache shares a geometry cache between bakers.
func WithCache(c *geometry.Cache) Option {
	return func(b *Baker) {
		if c != nil {
			b.cache = c
		}
	}
}

// WithInitialCapacity preallocates room for the given number of vertices
// and indices.
func WithInitialCapacity(vertices, indices int) Option {
	return func(b *Baker) {
		b.vertexCap = max(vertices, 0)
		b.indexCap = max(indices, 0)
	}
}

// Baker produces an Output from a World. It reuses its buffers across
// frames and is not safe for concurrent use.
type Baker struct {
	policy    Policy
	cache     *geometry.Cache
	vertexCap int
	indexCap  int

	out Output

	// maxVertices is the largest vertex count a frame may reach.
	maxVertices uint64
}

// New creates a Baker.
func New(opts ...Option) *Baker {
	b := &Baker{
		policy:      PolicyWorldSpace,
		vertexCap:   DefaultVertexCapacity,
		indexCap:    DefaultIndexCapacity,
		maxVertices: math.MaxUint32 + 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil {
		b.cache = geometry.NewCache()
	}
	b.out.Vertices = make([]Vertex, 0, b.vertexCap)
	b.out.Indices = make([]uint32, 0, b.indexCap)
	return b
}

// Policy returns the transform policy of b.
func (b *Baker) Policy() Policy { return b.policy }

// Cache returns the geometry cache used by b.
func (b *Baker) Cache() *geometry.Cache { return b.cache }

// Bake flattens w into b's shared buffers.
//
// The world is validated first; structural errors (cycles, broken links)
// abort the bake before any traversal. Validation and traversal are both
// linear in the number of objects, and each world matrix is computed once. Objects are visited depth-first in
// pre-order, roots in root order and children in child-list order, and
// their meshes are appended in that order. Baking an unchanged world
// always yields byte-identical buffers.
//
// The returned Output is owned by b and valid until the next call to Bake.
func (b *Baker) Bake(w *world.World) (*Output, error) {
	out := &b.out
	out.reset(b.policy)

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("bake: %w", err)
	}

	err := w.Walk(func(o *world.Object, model mgl32.Mat4) error {
		if err := o.Transform.Validate(); err != nil {
			return fmt.Errorf("bake %q (%s): %w", o.Name, o.ID, err)
		}
		if o.Geometry == nil {
			return nil
		}
		mesh, err := b.cache.GetOrGenerate(o.Geometry)
		if err != nil {
			return fmt.Errorf("bake %q (%s): %w", o.Name, o.ID, err)
		}
		if err := b.appendMesh(o, mesh, model); err != nil {
			return fmt.Errorf("bake %q (%s): %w", o.Name, o.ID, err)
		}
		return nil
	})
	if err != nil {
		out.reset(b.policy)
		return nil, err
	}

	g3d.Logger().Debug("bake: frame",
		"policy", b.policy,
		"objects", w.Len(),
		"draws", len(out.Draws),
		"vertices", len(out.Vertices),
		"indices", len(out.Indices))
	return out, nil
}

func (b *Baker) appendMesh(o *world.Object, mesh *geometry.Mesh, model mgl32.Mat4) error {
	out := &b.out
	base := len(out.Vertices)
	if uint64(base)+uint64(len(mesh.Positions)) > b.maxVertices {
		return fmt.Errorf("%w: %d + %d vertices", ErrCapacity, base, len(mesh.Positions))
	}

	out.Vertices = grow(out.Vertices, len(mesh.Positions), "vertex")
	out.Indices = grow(out.Indices, len(mesh.Indices), "index")

	color := [3]float32{o.Color[0], o.Color[1], o.Color[2]}
	for _, p := range mesh.Positions {
		if b.policy == PolicyWorldSpace {
			p = mgl32.TransformCoordinate(p, model)
		}
		out.Vertices = append(out.Vertices, Vertex{Position: p, Color: color})
	}

	first := len(out.Indices)
	for _, idx := range mesh.Indices {
		out.Indices = append(out.Indices, idx+uint32(base))
	}

	d := Draw{
		Object:      o.ID,
		FirstIndex:  uint32(first),
		IndexCount:  uint32(len(mesh.Indices)),
		BaseVertex:  uint32(base),
		VertexCount: uint32(len(mesh.Positions)),
		Color:       o.Color,
		Model:       mgl32.Ident4(),
	}
	if b.policy == PolicyLocalSpace {
		d.Model = model
	}
	out.Draws = append(out.Draws, d)
	return nil
}

// grow makes room for n more elements, at least doubling the capacity
// when it has to reallocate.
func grow[T any](s []T, n int, what string) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	newCap := max(2*cap(s), len(s)+n)
	g3d.Logger().Debug("bake: grow buffer", "buffer", what, "from", cap(s), "to", newCap)
	ns := make([]T, len(s), newCap)
	copy(ns, s)
	return ns
}
