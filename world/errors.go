package world

import "errors"

var (
	// ErrNotFound is returned for handles that do not refer to a live object.
	ErrNotFound = errors.New("world: object not found")

	// ErrParentNotFound is returned when spawning or reparenting under a
	// handle that does not refer to a live object.
	ErrParentNotFound = errors.New("world: parent not found")

	// ErrCycle is returned when an object would become, or already is, its
	// own ancestor.
	ErrCycle = errors.New("world: hierarchy cycle")

	// ErrBrokenLink is returned by Validate when parent and child links
	// disagree.
	ErrBrokenLink = errors.New("world: broken parent/child link")
)
