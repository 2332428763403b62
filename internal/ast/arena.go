package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Index addresses a node in the Ast arena. NoIndex is never a valid node.
type Index uint32

const NoIndex Index = 0

func (i Index) IsValid() bool { return i != NoIndex }

type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with room for capHint elements.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) Index {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return Index(n)
}

// Get returns the element at index, or false for NoIndex and out-of-range indices.
func (a *Arena[T]) Get(index Index) (T, bool) {
	var zero T
	if index == NoIndex || int(index) > len(a.data) {
		return zero, false
	}
	return a.data[index-1], true
}

func (a *Arena[T]) Len() int {
	return len(a.data)
}

// InternalError marks a broken compiler invariant. It is raised with panic and
// is never reported as a user diagnostic.
type InternalError struct {
	Msg string
}

func (e InternalError) Error() string {
	return "internal compiler error: " + e.Msg
}

func internalf(format string, args ...any) InternalError {
	return InternalError{Msg: fmt.Sprintf(format, args...)}
}
