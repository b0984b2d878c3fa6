package liststore

import "fmt"

// DiffKind identifies the mutation a Diff describes.
type DiffKind int

const (
	// DiffSet replaces the entire contents.
	DiffSet DiffKind = iota
	// DiffAppend adds items to the end, preserving their order.
	DiffAppend
	// DiffMoveUp swaps the item at Index with its predecessor.
	DiffMoveUp
	// DiffMoveDown swaps the item at Index with its successor.
	DiffMoveDown
)

func (k DiffKind) String() string {
	switch k {
	case DiffSet:
		return "set"
	case DiffAppend:
		return "append"
	case DiffMoveUp:
		return "move_up"
	case DiffMoveDown:
		return "move_down"
	default:
		return fmt.Sprintf("DiffKind(%d)", int(k))
	}
}

// Diff is a mutation to apply to a ListStore with [ListStore.Update].
// Items is used by DiffSet and DiffAppend, Index by the moves.
type Diff[T any] struct {
	Kind  DiffKind
	Items []T
	Index int
}

// Set returns a Diff replacing the contents with items.
func Set[T any](items ...T) Diff[T] {
	return Diff[T]{Kind: DiffSet, Items: items}
}

// Append returns a Diff adding items to the end.
func Append[T any](items ...T) Diff[T] {
	return Diff[T]{Kind: DiffAppend, Items: items}
}

// MoveUp returns a Diff swapping the item at index with its predecessor.
// The index must satisfy 0 < index < Len.
func MoveUp[T any](index int) Diff[T] {
	return Diff[T]{Kind: DiffMoveUp, Index: index}
}

// MoveDown returns a Diff swapping the item at index with its successor.
// The index must satisfy 0 <= index < Len-1.
func MoveDown[T any](index int) Diff[T] {
	return Diff[T]{Kind: DiffMoveDown, Index: index}
}

func (d Diff[T]) String() string {
	switch d.Kind {
	case DiffSet, DiffAppend:
		return fmt.Sprintf("%s(%d items)", d.Kind, len(d.Items))
	default:
		return fmt.Sprintf("%s(%d)", d.Kind, d.Index)
	}
}
