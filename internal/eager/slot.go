// Package eager loads associations of already-fetched parents in batches,
// one query per association per level, guided by the query trail.
package eager

import (
	"errors"
	"fmt"
)

var (
	// ErrAssociationNotLoaded is returned when an association is read before
	// the loader populated it. It indicates a loader bug, not a client error.
	ErrAssociationNotLoaded = errors.New("association not loaded")
	// ErrAssociationLoadFailed is returned when the batch load for an association failed.
	ErrAssociationLoadFailed = errors.New("association load failed")
)

type slotState uint8

const (
	unloaded slotState = iota
	loaded
	loadFailed
)

// One holds a to-one association. A loaded value may be the zero value when
// no related row exists.
type One[T any] struct {
	state slotState
	value T
	err   error
}

// Get returns the loaded value.
func (s *One[T]) Get() (T, error) {
	var zero T
	switch s.state {
	case loaded:
		return s.value, nil
	case loadFailed:
		return zero, fmt.Errorf("%w: %w", ErrAssociationLoadFailed, s.err)
	default:
		return zero, ErrAssociationNotLoaded
	}
}

// Loaded reports whether the slot holds a value.
func (s *One[T]) Loaded() bool {
	return s.state == loaded
}

// Set marks the slot loaded. Only an unloaded slot changes.
func (s *One[T]) Set(value T) {
	if s.state != unloaded {
		return
	}
	s.state = loaded
	s.value = value
}

// Fail marks the slot as failed. Only an unloaded slot changes.
func (s *One[T]) Fail(err error) {
	if s.state != unloaded {
		return
	}
	s.state = loadFailed
	s.err = err
}

// Many holds a to-many association.
type Many[T any] struct {
	state  slotState
	values []T
	err    error
}

// Get returns the loaded values, never nil once loaded.
func (s *Many[T]) Get() ([]T, error) {
	switch s.state {
	case loaded:
		return s.values, nil
	case loadFailed:
		return nil, fmt.Errorf("%w: %w", ErrAssociationLoadFailed, s.err)
	default:
		return nil, ErrAssociationNotLoaded
	}
}

// Loaded reports whether the slot holds values.
func (s *Many[T]) Loaded() bool {
	return s.state == loaded
}

// Set marks the slot loaded. Only an unloaded slot changes.
func (s *Many[T]) Set(values []T) {
	if s.state != unloaded {
		return
	}
	if values == nil {
		values = []T{}
	}
	s.state = loaded
	s.values = values
}

// Fail marks the slot as failed. Only an unloaded slot changes.
func (s *Many[T]) Fail(err error) {
	if s.state != unloaded {
		return
	}
	s.state = loadFailed
	s.err = err
}
