// Package geometry generates local-space triangle meshes from shape
// descriptors.
//
// The set of shapes is closed: Triangle, Rectangle, Square, Cube and Sphere
// are the only types implementing Descriptor. Descriptors are small
// comparable values, so they can be used directly as map keys (see Cache).
//
// All meshes are centered on the origin and wound counter-clockwise when
// viewed from outside, matching a back-face-culled pipeline with
// FrontFaceCCW.
package geometry

import "fmt"

// Descriptor describes a shape. It is implemented only by the types in this
// package.
type Descriptor interface {
	// Shape returns a short lower-case name such as "cube".
	Shape() string

	// validate reports a *ValidationError for unusable parameters.
	validate() error
	generate() *Mesh
}

// Triangle is an isosceles triangle in the XY plane with its apex on +Y and
// its base parallel to X.
type Triangle struct {
	Base   float32
	Height float32
}

// Rectangle is an axis-aligned rectangle in the XY plane.
type Rectangle struct {
	Width  float32
	Height float32
}

// Square is a Rectangle with equal sides.
type Square struct {
	Size float32
}

// Cube is an axis-aligned cube with edge length Size.
type Cube struct {
	Size float32
}

// Sphere is a UV sphere. Subdivisions is the number of latitude bands; the
// sphere has twice as many longitude segments.
type Sphere struct {
	Radius       float32
	Subdivisions int
}

// MinSphereSubdivisions is the smallest accepted Sphere.Subdivisions.
const MinSphereSubdivisions = 3

func (Triangle) Shape() string  { return "triangle" }
func (Rectangle) Shape() string { return "rectangle" }
func (Square) Shape() string    { return "square" }
func (Cube) Shape() string      { return "cube" }
func (Sphere) Shape() string    { return "sphere" }

func (t Triangle) String() string  { return fmt.Sprintf("Triangle(%gx%g)", t.Base, t.Height) }
func (r Rectangle) String() string { return fmt.Sprintf("Rectangle(%gx%g)", r.Width, r.Height) }
func (s Square) String() string    { return fmt.Sprintf("Square(%g)", s.Size) }
func (c Cube) String() string      { return fmt.Sprintf("Cube(%g)", c.Size) }
func (s Sphere) String() string    { return fmt.Sprintf("Sphere(r=%g, n=%d)", s.Radius, s.Subdivisions) }

func (t Triangle) validate() error {
	if err := checkDimension("triangle", "Base", t.Base); err != nil {
		return err
	}
	return checkDimension("triangle", "Height", t.Height)
}

func (r Rectangle) validate() error {
	if err := checkDimension("rectangle", "Width", r.Width); err != nil {
		return err
	}
	return checkDimension("rectangle", "Height", r.Height)
}

func (s Square) validate() error {
	return checkDimension("square", "Size", s.Size)
}

func (c Cube) validate() error {
	return checkDimension("cube", "Size", c.Size)
}

func (s Sphere) validate() error {
	if err := checkDimension("sphere", "Radius", s.Radius); err != nil {
		return err
	}
	if s.Subdivisions < MinSphereSubdivisions {
		return &ValidationError{
			Shape:  "sphere",
			Field:  "Subdivisions",
			Value:  float64(s.Subdivisions),
			Reason: fmt.Sprintf("must be at least %d", MinSphereSubdivisions),
		}
	}
	return nil
}
