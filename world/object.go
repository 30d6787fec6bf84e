package world

import (
	"fmt"

	"github.com/gogpu/g3d/geometry"
	"github.com/gogpu/g3d/transform"
)

// DefaultName is the name given to objects created by NewObject with an
// empty name.
const DefaultName = "Untitled Object"

// White is the default object color.
var White = [4]float32{1, 1, 1, 1}

// ID is a generational handle to an object in a World.
//
// The zero ID never refers to a live object and doubles as NoParent.
// When a slot is reused its generation is bumped, so a handle to a
// despawned object never resolves to the object that replaced it.
type ID struct {
	Index      uint32
	Generation uint32
}

// NoParent marks a root object.
var NoParent = ID{}

// IsZero reports whether id is the zero handle.
func (id ID) IsZero() bool { return id == ID{} }

func (id ID) String() string {
	return fmt.Sprintf("%d#%d", id.Index, id.Generation)
}

// Object is a node of the scene graph.
//
// An object without Geometry is a pivot: it draws nothing but its
// transform still applies to its children.
type Object struct {
	// ID is assigned by the World on spawn.
	ID ID

	Name      string
	Transform transform.Transform
	Geometry  geometry.Descriptor
	Color     [4]float32

	// Parent and Children are maintained by the World.
	Parent   ID
	Children []ID
}

// NewObject returns a pivot object with an identity transform and white
// color.
func NewObject(name string) Object {
	if name == "" {
		name = DefaultName
	}
	return Object{
		Name:      name,
		Transform: transform.Identity(),
		Color:     White,
	}
}

// FromGeometry returns a drawable object.
func FromGeometry(name string, g geometry.Descriptor, t transform.Transform, color [4]float32) Object {
	o := NewObject(name)
	o.Geometry = g
	o.Transform = t
	o.Color = color
	return o
}

// IsRoot reports whether o has no parent.
func (o *Object) IsRoot() bool { return o.Parent.IsZero() }

func (o *Object) String() string {
	return fmt.Sprintf("%s(%s)", o.Name, o.ID)
}
