// Package world stores the scene graph.
//
// A World is an arena of objects addressed by generational IDs. Objects form
// a forest: each object has at most one parent, and every parent lists its
// children in draw order. Roots are kept in spawn order.
//
// World is not safe for concurrent use; it is owned by the frame loop.
package world

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type slot struct {
	obj        *Object
	generation uint32
}

// World is an arena-backed scene graph.
type World struct {
	slots []slot
	free  []uint32
	roots []ID
	count int
}

// New creates an empty world.
func New() *World {
	return &World{}
}

// Len returns the number of live objects.
func (w *World) Len() int { return w.count }

// Roots returns the root objects in order. The slice must not be modified.
func (w *World) Roots() []ID { return w.roots }

// Get returns the live object for id.
func (w *World) Get(id ID) (*Object, bool) {
	if id.IsZero() || int(id.Index) >= len(w.slots) {
		return nil, false
	}
	s := w.slots[id.Index]
	if s.obj == nil || s.generation != id.Generation {
		return nil, false
	}
	return s.obj, true
}

// Contains reports whether id refers to a live object.
func (w *World) Contains(id ID) bool {
	_, ok := w.Get(id)
	return ok
}

// Children returns the children of id in draw order, or nil if id is not
// live. The slice must not be modified.
func (w *World) Children(id ID) []ID {
	if o, ok := w.Get(id); ok {
		return o.Children
	}
	return nil
}

// Spawn adds o as a new root and returns its handle.
// Any Parent or Children set on o are ignored.
func (w *World) Spawn(o Object) ID {
	id := w.alloc(o)
	w.roots = append(w.roots, id)
	return id
}

// SpawnChild adds o as the last child of parent.
func (w *World) SpawnChild(parent ID, o Object) (ID, error) {
	p, ok := w.Get(parent)
	if !ok {
		return ID{}, fmt.Errorf("spawn %q under %s: %w", o.Name, parent, ErrParentNotFound)
	}
	id := w.alloc(o)
	w.slots[id.Index].obj.Parent = parent
	p.Children = append(p.Children, id)
	return id, nil
}

func (w *World) alloc(o Object) ID {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}
	s := &w.slots[idx]
	s.generation++
	id := ID{Index: idx, Generation: s.generation}

	obj := o
	obj.ID = id
	obj.Parent = NoParent
	obj.Children = nil
	s.obj = &obj
	w.count++
	return id
}

// Despawn removes id and its whole subtree.
func (w *World) Despawn(id ID) error {
	o, ok := w.Get(id)
	if !ok {
		return fmt.Errorf("despawn %s: %w", id, ErrNotFound)
	}
	w.unlink(o)

	stack := []ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := w.Get(cur)
		if !ok {
			continue
		}
		stack = append(stack, c.Children...)
		w.slots[cur.Index].obj = nil
		w.free = append(w.free, cur.Index)
		w.count--
	}
	return nil
}

// unlink detaches o from its parent's child list or from the roots.
func (w *World) unlink(o *Object) {
	if o.IsRoot() {
		w.roots = removeID(w.roots, o.ID)
		return
	}
	if p, ok := w.Get(o.Parent); ok {
		p.Children = removeID(p.Children, o.ID)
	}
}

// SetParent moves child under parent, appending it to the parent's children.
// A zero parent makes child a root. Moving an object under itself or one of
// its descendants returns ErrCycle and leaves the world unchanged.
func (w *World) SetParent(child, parent ID) error {
	c, ok := w.Get(child)
	if !ok {
		return fmt.Errorf("reparent %s: %w", child, ErrNotFound)
	}
	if parent.IsZero() {
		if c.IsRoot() {
			return nil
		}
		w.unlink(c)
		c.Parent = NoParent
		w.roots = append(w.roots, child)
		return nil
	}

	p, ok := w.Get(parent)
	if !ok {
		return fmt.Errorf("reparent %s under %s: %w", child, parent, ErrParentNotFound)
	}
	for cur := parent; !cur.IsZero(); {
		if cur == child {
			return fmt.Errorf("reparent %s under %s: %w", child, parent, ErrCycle)
		}
		a, ok := w.Get(cur)
		if !ok {
			break
		}
		cur = a.Parent
	}

	w.unlink(c)
	c.Parent = parent
	p.Children = append(p.Children, child)
	return nil
}

// MoveChild moves id to position index among its siblings (or among the
// roots). Index is clamped to the valid range.
func (w *World) MoveChild(id ID, index int) error {
	o, ok := w.Get(id)
	if !ok {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	list := &w.roots
	if !o.IsRoot() {
		p, ok := w.Get(o.Parent)
		if !ok {
			return fmt.Errorf("move %s: %w", id, ErrBrokenLink)
		}
		list = &p.Children
	}
	*list = removeID(*list, id)
	index = max(0, min(index, len(*list)))
	*list = slices.Insert(*list, index, id)
	return nil
}

// WorldMatrix returns the object-to-world matrix of id: the product of the
// local matrices from the root down to id.
func (w *World) WorldMatrix(id ID) (mgl32.Mat4, error) {
	var chain []*Object
	for cur := id; !cur.IsZero(); {
		o, ok := w.Get(cur)
		if !ok {
			if cur == id {
				return mgl32.Mat4{}, fmt.Errorf("world matrix of %s: %w", id, ErrNotFound)
			}
			return mgl32.Mat4{}, fmt.Errorf("world matrix of %s: parent %s: %w", id, cur, ErrBrokenLink)
		}
		if len(chain) > w.count {
			return mgl32.Mat4{}, fmt.Errorf("world matrix of %s: %w", id, ErrCycle)
		}
		chain = append(chain, o)
		cur = o.Parent
	}

	m := mgl32.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		m = m.Mul4(chain[i].Transform.Local())
	}
	return m, nil
}

func removeID(ids []ID, id ID) []ID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
