package liststore

import "github.com/go-drift/liststore/pkg/native"

// WeakListStore is a non-owning reference to a ListStore's native store.
// It does not keep the store alive.
type WeakListStore[T any] struct {
	ref *native.WeakRef
}

// Upgrade returns a new owner of the store, or false once the store has
// been finalized. The caller must Release the returned store.
func (w *WeakListStore[T]) Upgrade() (*ListStore[T], bool) {
	store, ok := w.ref.Upgrade()
	if !ok {
		return nil, false
	}
	return &ListStore[T]{store: store}, true
}
