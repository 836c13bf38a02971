package study

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a jump or delete targets a missing position
var ErrIndexOutOfRange = errors.New("index out of range")

// Navigator is the cursor over the active set. The zero value is the
// empty state. Every transition returns a new Navigator.
type Navigator struct {
	index  int
	length int
}

// NewNavigator starts at index 0 over length cards
func NewNavigator(length int) Navigator {
	if length < 0 {
		length = 0
	}
	return Navigator{length: length}
}

// Index returns the current position, 0 when empty
func (n Navigator) Index() int { return n.index }

// Len returns the size of the active set
func (n Navigator) Len() int { return n.length }

// Empty reports whether there is no card to show
func (n Navigator) Empty() bool { return n.length == 0 }

// Next moves forward, wrapping from the last card to the first
func (n Navigator) Next() Navigator {
	if n.Empty() {
		return n
	}
	n.index = (n.index + 1) % n.length
	return n
}

// Previous moves back, wrapping from the first card to the last
func (n Navigator) Previous() Navigator {
	if n.Empty() {
		return n
	}
	n.index = (n.index - 1 + n.length) % n.length
	return n
}

// JumpTo selects position i directly
func (n Navigator) JumpTo(i int) (Navigator, error) {
	if i < 0 || i >= n.length {
		return n, fmt.Errorf("jump to %d of %d: %w", i, n.length, ErrIndexOutOfRange)
	}
	n.index = i
	return n, nil
}

// OnDelete shrinks the set after the card at deletedIndex was removed.
// The cursor stays where it is unless it now points past the end.
func (n Navigator) OnDelete(deletedIndex int) (Navigator, error) {
	if deletedIndex < 0 || deletedIndex >= n.length {
		return n, fmt.Errorf("delete %d of %d: %w", deletedIndex, n.length, ErrIndexOutOfRange)
	}
	n.length--
	switch {
	case n.length == 0:
		n.index = 0
	case n.index >= n.length:
		n.index = n.length - 1
	}
	return n, nil
}

// OnFilterChange resets the cursor to the first card of the new set
func (n Navigator) OnFilterChange(length int) Navigator {
	return NewNavigator(length)
}

// Resize adopts a reloaded set, going back to the first card when the
// current position no longer exists
func (n Navigator) Resize(length int) Navigator {
	if length < 0 {
		length = 0
	}
	n.length = length
	if n.index >= length {
		n.index = 0
	}
	return n
}

func (n Navigator) String() string {
	if n.Empty() {
		return "empty"
	}
	return fmt.Sprintf("%d/%d", n.index+1, n.length)
}
