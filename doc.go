// Package g3d is a small real-time 3D scene engine for the GoGPU ecosystem.
//
// # Overview
//
// A scene is a hierarchy of positioned, colored objects. Every frame the
// hierarchy is flattened into one shared vertex and index stream that a GPU
// can draw with as few indexed draw calls as possible.
//
// # Packages
//
//   - transform: position, Euler rotation and scale of one object
//   - geometry: procedural meshes for triangles, rectangles, cubes and spheres
//   - world: the scene graph (spawn, despawn, reparent, world matrices)
//   - camera: perspective fly camera with WebGPU depth range
//   - bake: flattens a world into vertex/index buffers and a draw list
//   - input: key and pointer state collected from a gpucontext.EventSource
//   - render: submits a bake to a wgpu HAL device
//   - preview: CPU rasterization of a bake into an image
//   - app: configuration and the fixed-timestep frame loop
//
// # Quick Start
//
//	w := world.New()
//	root := w.Spawn(world.NewObject("pivot"))
//	_, _ = w.SpawnChild(root, world.FromGeometry("box",
//	    geometry.Cube{Size: 1}, transform.FromPosition(1, 0, 0), world.White))
//
//	b := bake.New()
//	out, err := b.Bake(w)
//
// # Coordinate System
//
// World space is right-handed with +Y up; rotations follow mgl32, so a
// +90 degree rotation about Y maps +X onto -Z. The camera converts to a
// left-handed view space with +Z forward and WebGPU's [0, 1] depth range.
package g3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
