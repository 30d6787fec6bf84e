package world

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// VisitFunc is called by Walk for every object with its object-to-world
// matrix. Returning an error stops the walk.
type VisitFunc func(o *Object, model mgl32.Mat4) error

type walkFrame struct {
	id     ID
	parent mgl32.Mat4
}

// Walk visits every object reachable from the roots in depth-first
// pre-order: roots in root order, children in child-list order, each parent
// before its children. Every world matrix is computed exactly once.
//
// Walk uses an explicit stack and a visited set, so a corrupted hierarchy
// yields ErrCycle instead of looping.
func (w *World) Walk(visit VisitFunc) error {
	visited := make([]bool, len(w.slots))
	stack := make([]walkFrame, 0, len(w.roots))

	identity := mgl32.Ident4()
	for i := len(w.roots) - 1; i >= 0; i-- {
		stack = append(stack, walkFrame{id: w.roots[i], parent: identity})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o, ok := w.Get(f.id)
		if !ok {
			return fmt.Errorf("walk %s: %w", f.id, ErrBrokenLink)
		}
		if visited[f.id.Index] {
			return fmt.Errorf("walk %s (%s): %w", o.Name, f.id, ErrCycle)
		}
		visited[f.id.Index] = true

		model := f.parent.Mul4(o.Transform.Local())
		if err := visit(o, model); err != nil {
			return err
		}
		for i := len(o.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{id: o.Children[i], parent: model})
		}
	}
	return nil
}

// Validate checks the structural invariants of the hierarchy: every link
// points at a live object, parent and child links agree, roots have no
// parent, and every object is reachable from exactly one root without
// cycles. It runs in time linear in the number of objects and computes no
// matrices.
func (w *World) Validate() error {
	for _, id := range w.roots {
		o, ok := w.Get(id)
		if !ok {
			return fmt.Errorf("root %s: %w", id, ErrBrokenLink)
		}
		if !o.IsRoot() {
			return fmt.Errorf("root %s has parent %s: %w", o, o.Parent, ErrBrokenLink)
		}
	}

	for i := range w.slots {
		o := w.slots[i].obj
		if o == nil {
			continue
		}
		if !o.IsRoot() && !w.Contains(o.Parent) {
			return fmt.Errorf("%s: parent %s: %w", o, o.Parent, ErrBrokenLink)
		}
		for _, cid := range o.Children {
			c, ok := w.Get(cid)
			if !ok {
				return fmt.Errorf("%s: child %s: %w", o, cid, ErrBrokenLink)
			}
			if c.Parent != o.ID {
				return fmt.Errorf("%s: child %s has parent %s: %w", o, c, c.Parent, ErrBrokenLink)
			}
		}
	}

	reached, err := w.reach()
	if err != nil {
		return err
	}
	for i := range w.slots {
		if o := w.slots[i].obj; o != nil && !reached[i] {
			return w.unreachable(o)
		}
	}
	return nil
}

// reach marks the slots reachable from the roots. A slot reached twice
// means a duplicated root or child entry.
func (w *World) reach() ([]bool, error) {
	reached := make([]bool, len(w.slots))
	stack := append([]ID(nil), w.roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id.Index] {
			return nil, fmt.Errorf("%s reached twice: %w", id, ErrCycle)
		}
		reached[id.Index] = true
		stack = append(stack, w.slots[id.Index].obj.Children...)
	}
	return reached, nil
}

// unreachable explains why o was not reached from the roots. Links are
// already known to be live and child links to agree, so o is either an
// orphan or sits on a parent cycle.
func (w *World) unreachable(o *Object) error {
	if o.IsRoot() {
		return fmt.Errorf("%s: parentless but not a root: %w", o, ErrBrokenLink)
	}
	p, _ := w.Get(o.Parent)
	if !slices.Contains(p.Children, o.ID) {
		return fmt.Errorf("%s: not listed by parent %s: %w", o, p, ErrBrokenLink)
	}
	return fmt.Errorf("%s unreachable from roots: %w", o, ErrCycle)
}
