package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list in local space.
// Indices are relative to the start of Positions.
type Mesh struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// TriangleCount returns len(Indices) / 3.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Generate builds the local mesh for d.
//
// Invalid parameters are reported as a *ValidationError, which matches
// ErrInvalidDescriptor with errors.Is. Generate is pure: equal descriptors
// always produce equal meshes.
func Generate(d Descriptor) (*Mesh, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d.generate(), nil
}

// quadIndices is the two-triangle split of a quad a, b, c, d given in
// counter-clockwise order.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

func (t Triangle) generate() *Mesh {
	hw, hh := t.Base*0.5, t.Height*0.5
	return &Mesh{
		Positions: []mgl32.Vec3{
			{0, hh, 0},
			{-hw, -hh, 0},
			{hw, -hh, 0},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func (r Rectangle) generate() *Mesh {
	hw, hh := r.Width*0.5, r.Height*0.5
	return &Mesh{
		Positions: []mgl32.Vec3{
			{-hw, -hh, 0},
			{hw, -hh, 0},
			{hw, hh, 0},
			{-hw, hh, 0},
		},
		Indices: append([]uint32(nil), quadIndices[:]...),
	}
}

func (s Square) generate() *Mesh {
	return Rectangle{Width: s.Size, Height: s.Size}.generate()
}

func (c Cube) generate() *Mesh {
	s := c.Size * 0.5

	// Front is +Z, top is +Y.
	fbl := mgl32.Vec3{-s, -s, s}
	fbr := mgl32.Vec3{s, -s, s}
	ftr := mgl32.Vec3{s, s, s}
	ftl := mgl32.Vec3{-s, s, s}
	bbl := mgl32.Vec3{-s, -s, -s}
	bbr := mgl32.Vec3{s, -s, -s}
	btr := mgl32.Vec3{s, s, -s}
	btl := mgl32.Vec3{-s, s, -s}

	faces := [6][4]mgl32.Vec3{
		{fbl, fbr, ftr, ftl}, // front
		{bbr, bbl, btl, btr}, // back
		{bbl, fbl, ftl, btl}, // left
		{fbr, bbr, btr, ftr}, // right
		{ftl, ftr, btr, btl}, // top
		{bbl, bbr, fbr, fbl}, // bottom
	}

	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	for _, face := range faces {
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, face[:]...)
		for _, i := range quadIndices {
			m.Indices = append(m.Indices, base+i)
		}
	}
	return m
}

// generate lays out the north pole, the n-1 interior rings from north to
// south, and the south pole. Each ring has 2n vertices.
func (s Sphere) generate() *Mesh {
	n := s.Subdivisions
	segments := 2 * n
	rings := n - 1

	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, rings*segments+2),
		Indices:   make([]uint32, 0, 3*4*n*(n-1)),
	}

	m.Positions = append(m.Positions, mgl32.Vec3{0, s.Radius, 0})
	for i := 1; i <= rings; i++ {
		theta := math32.Pi * float32(i) / float32(n)
		st, ct := math32.Sincos(theta)
		for j := 0; j < segments; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(segments)
			sp, cp := math32.Sincos(phi)
			m.Positions = append(m.Positions, mgl32.Vec3{
				s.Radius * st * cp,
				s.Radius * ct,
				s.Radius * st * sp,
			})
		}
	}
	south := uint32(len(m.Positions))
	m.Positions = append(m.Positions, mgl32.Vec3{0, -s.Radius, 0})

	ring := func(i, j int) uint32 {
		return uint32(1 + i*segments + j%segments)
	}

	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, 0, ring(0, j+1), ring(0, j))
	}
	for i := 0; i < rings-1; i++ {
		for j := 0; j < segments; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	last := rings - 1
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, ring(last, j), ring(last, j+1), south)
	}
	return m
}
