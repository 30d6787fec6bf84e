// Package mathtest compares vectors and matrices with an absolute
// tolerance.
//
// mgl32's ApproxEqual helpers scale their threshold by the operands and
// square it when either side is zero, so rotation noise around 1e-8 fails
// a comparison against an exact 0.
package mathtest

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Tolerance is the default absolute tolerance.
const Tolerance = 1e-5

// Vec3Near reports whether every component of a and b differs by at most
// tol.
func Vec3Near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// Mat4Near reports whether every element of a and b differs by at most tol.
func Mat4Near(a, b mgl32.Mat4, tol float32) bool {
	for i := range a {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func near(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}
