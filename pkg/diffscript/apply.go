package diffscript

import (
	"fmt"

	"github.com/go-drift/liststore/pkg/errors"
	"github.com/go-drift/liststore/pkg/liststore"
	"github.com/go-drift/liststore/pkg/native"
)

// Diffs converts the script's steps to diffs, using parse to turn each raw
// item into a T.
func Diffs[T any](script *Script, parse func(string) (T, error)) ([]liststore.Diff[T], error) {
	diffs := make([]liststore.Diff[T], 0, len(script.Steps))
	for i, step := range script.Steps {
		d := liststore.Diff[T]{Kind: step.Kind, Index: step.Index}
		if step.Kind == liststore.DiffSet || step.Kind == liststore.DiffAppend {
			d.Items = make([]T, 0, len(step.Items))
			for _, raw := range step.Items {
				item, err := parse(raw)
				if err != nil {
					return nil, fmt.Errorf("step %d (line %d): %w", i+1, step.Line, err)
				}
				d.Items = append(d.Items, item)
			}
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

// Apply replays the script against store. Move steps are checked against
// the store's length before they are applied, so a bad script stops with
// a KindIndex *errors.ListError instead of a panic. Steps before the
// failing one stay applied.
func Apply[T any](store *liststore.ListStore[T], script *Script, parse func(string) (T, error)) error {
	diffs, err := Diffs(script, parse)
	if err != nil {
		return err
	}
	for i, d := range diffs {
		if err := CheckMove(d, store.Len()); err != nil {
			return errors.Violation("diffscript.Apply", errors.KindIndex, d.Index, store.Len(),
				fmt.Errorf("step %d (line %d): %w", i+1, script.Steps[i].Line, err))
		}
		store.Update(d)
	}
	return nil
}

// CheckMove reports whether a move diff has the neighbour it needs in a
// store of length n. Other diffs always pass. The error wraps
// native.ErrIndexOutOfRange.
func CheckMove[T any](d liststore.Diff[T], n int) error {
	switch d.Kind {
	case liststore.DiffMoveUp:
		if d.Index <= 0 || d.Index >= n {
			return fmt.Errorf("move_up %d needs 0 < index < %d: %w", d.Index, n, native.ErrIndexOutOfRange)
		}
	case liststore.DiffMoveDown:
		if d.Index < 0 || d.Index >= n-1 {
			return fmt.Errorf("move_down %d needs 0 <= index < %d: %w", d.Index, n-1, native.ErrIndexOutOfRange)
		}
	}
	return nil
}

// String parses raw items as themselves.
func String(raw string) (string, error) {
	return raw, nil
}
