// Package transform provides the local affine pose of a scene object.
//
// A Transform holds a position, an Euler rotation in degrees and a scale.
// Its local matrix is
//
//	Local = T * Rz * Ry * Rx * S
//
// so a point is scaled first, then rotated about X, then Y, then Z, and
// finally translated. Rotation matrices are the right-handed ones from
// mgl32: a +90 degree rotation about Y maps +X onto -Z.
package transform

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidScale is returned when a scale component is NaN or infinite.
var ErrInvalidScale = errors.New("transform: scale must be finite")

// Transform is the local pose of an object relative to its parent.
type Transform struct {
	// Position is the translation in parent space.
	Position mgl32.Vec3

	// Rotation holds Euler angles in degrees about X, Y and Z.
	Rotation mgl32.Vec3

	// Scale may be negative (mirroring) but never NaN.
	Scale mgl32.Vec3
}

// Identity returns a transform with no translation, no rotation and unit scale.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// FromPosition returns an identity transform translated to (x, y, z).
func FromPosition(x, y, z float32) Transform {
	t := Identity()
	t.Position = mgl32.Vec3{x, y, z}
	return t
}

// WithRotation returns a copy of t rotated by the given Euler angles in degrees.
func (t Transform) WithRotation(x, y, z float32) Transform {
	t.Rotation = mgl32.Vec3{x, y, z}
	return t
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(x, y, z float32) Transform {
	t.Scale = mgl32.Vec3{x, y, z}
	return t
}

// Validate reports ErrInvalidScale if any scale component is not finite.
func (t Transform) Validate() error {
	for i, s := range t.Scale {
		if math32.IsNaN(s) || math32.IsInf(s, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrInvalidScale, i, s)
		}
	}
	return nil
}

// RotationMatrix returns Rz * Ry * Rx for the Euler angles of t.
func (t Transform) RotationMatrix() mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation[2]))
	return rz.Mul4(ry).Mul4(rx)
}

// Local returns the matrix mapping object space to parent space.
func (t Transform) Local() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translate.Mul4(t.RotationMatrix()).Mul4(scale)
}

// Apply transforms a point by the local matrix of t.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, t.Local())
}

// Translate moves the transform by d in parent space.
func (t *Transform) Translate(d mgl32.Vec3) {
	t.Position = t.Position.Add(d)
}

// Rotate adds Euler angles (degrees) to the current rotation.
func (t *Transform) Rotate(dx, dy, dz float32) {
	t.Rotation = t.Rotation.Add(mgl32.Vec3{dx, dy, dz})
}
