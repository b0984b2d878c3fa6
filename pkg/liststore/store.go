package liststore

import (
	stderrors "errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/go-drift/liststore/pkg/errors"
	"github.com/go-drift/liststore/pkg/native"
)

// ErrReleased indicates use of a ListStore after Release was called on it.
var ErrReleased = stderrors.New("list store released")

// ListStore is a typed view over a native list store holding T values.
//
// The zero value is not usable; create stores with [New].
type ListStore[T any] struct {
	store *native.ListStore
}

// New creates an empty store bound to a fresh native store for T.
func New[T any]() *ListStore[T] {
	return &ListStore[T]{store: native.New(reflect.TypeFor[T]())}
}

func (s *ListStore[T]) handle(op string) *native.ListStore {
	if s.store == nil {
		panic(errors.Violation(op, errors.KindFinalized, errors.NoIndex, 0, ErrReleased))
	}
	return s.store
}

// Native returns the underlying untyped store. Objects inserted through it
// bypass the element type check and break the store's invariant.
func (s *ListStore[T]) Native() *native.ListStore {
	return s.handle("liststore.Native")
}

// Update applies d. It panics if a move diff's index does not have the
// neighbour it needs, or if d.Kind is not a known DiffKind.
func (s *ListStore[T]) Update(d Diff[T]) {
	switch d.Kind {
	case DiffSet:
		s.ReplaceAll(d.Items...)
	case DiffAppend:
		s.Extend(d.Items...)
	case DiffMoveUp:
		s.MoveUpUnchecked(d.Index)
	case DiffMoveDown:
		s.MoveDownUnchecked(d.Index)
	default:
		panic(errors.Violation("liststore.Update", errors.KindUnknown, errors.NoIndex, s.Len(),
			fmt.Errorf("unknown diff kind %s", d.Kind)))
	}
}

// Extend appends items to the end as a single splice.
func (s *ListStore[T]) Extend(items ...T) {
	store := s.handle("liststore.Extend")
	s.mustSplice("liststore.Extend", store.NItems(), 0, upcast(items))
}

// ExtendSeq appends every value of seq to the end as a single splice.
func (s *ListStore[T]) ExtendSeq(seq iter.Seq[T]) {
	store := s.handle("liststore.ExtendSeq")
	s.mustSplice("liststore.ExtendSeq", store.NItems(), 0, upcastSeq(seq))
}

// ReplaceAll replaces the contents with items as a single splice.
func (s *ListStore[T]) ReplaceAll(items ...T) {
	store := s.handle("liststore.ReplaceAll")
	s.mustSplice("liststore.ReplaceAll", 0, store.NItems(), upcast(items))
}

// ReplaceAllSeq replaces the contents with the values of seq as a single splice.
func (s *ListStore[T]) ReplaceAllSeq(seq iter.Seq[T]) {
	store := s.handle("liststore.ReplaceAllSeq")
	objs := upcastSeq(seq)
	s.mustSplice("liststore.ReplaceAllSeq", 0, store.NItems(), objs)
}

// mustSplice applies a splice whose bounds the caller computed from the
// store itself, so the only possible failure is an item the native store
// rejects (such as a nil interface value).
func (s *ListStore[T]) mustSplice(op string, position, nRemove int, objs []native.Object) {
	if err := s.store.Splice(position, nRemove, objs); err != nil {
		panic(relabel(op, err))
	}
}

// MoveUpUnchecked swaps the item at index with its predecessor.
// The caller must guarantee 0 < index < Len; otherwise it panics.
func (s *ListStore[T]) MoveUpUnchecked(index int) {
	s.handle("liststore.MoveUpUnchecked")
	if !s.swap(index-1, index) {
		panic(errors.Violation("liststore.MoveUpUnchecked", errors.KindIndex, index, s.Len(), native.ErrIndexOutOfRange))
	}
}

// MoveDownUnchecked swaps the item at index with its successor.
// The caller must guarantee 0 <= index < Len-1; otherwise it panics.
func (s *ListStore[T]) MoveDownUnchecked(index int) {
	s.handle("liststore.MoveDownUnchecked")
	if !s.swap(index, index+1) {
		panic(errors.Violation("liststore.MoveDownUnchecked", errors.KindIndex, index, s.Len(), native.ErrIndexOutOfRange))
	}
}

// swap exchanges the adjacent items at a and b (b == a+1) with one splice.
// If either index has no item it does nothing and returns false.
func (s *ListStore[T]) swap(a, b int) bool {
	first, ok := s.store.Item(a)
	if !ok {
		return false
	}
	second, ok := s.store.Item(b)
	if !ok {
		return false
	}
	if err := s.store.Splice(a, 2, []native.Object{second, first}); err != nil {
		panic(relabel("liststore.swap", err))
	}
	return true
}

// Insert inserts item at position, which may equal Len to append.
func (s *ListStore[T]) Insert(position int, item T) error {
	store := s.handle("liststore.Insert")
	if err := store.Insert(position, item); err != nil {
		return relabel("liststore.Insert", err)
	}
	return nil
}

// Remove removes the item at position.
func (s *ListStore[T]) Remove(position int) error {
	store := s.handle("liststore.Remove")
	if err := store.Remove(position); err != nil {
		return relabel("liststore.Remove", err)
	}
	return nil
}

// At returns the item at index. It fails with a KindIndex error if index
// is out of range and a KindType error if the stored object is not a T.
func (s *ListStore[T]) At(index int) (T, error) {
	return s.at("liststore.At", index)
}

// Get returns the item at index and panics where At would fail.
func (s *ListStore[T]) Get(index int) T {
	item, err := s.at("liststore.Get", index)
	if err != nil {
		panic(err)
	}
	return item
}

func (s *ListStore[T]) at(op string, index int) (T, error) {
	var zero T
	store := s.handle(op)
	obj, ok := store.Item(index)
	if !ok {
		return zero, errors.Violation(op, errors.KindIndex, index, store.NItems(), native.ErrIndexOutOfRange)
	}
	item, ok := obj.(T)
	if !ok {
		return zero, errors.Violation(op, errors.KindType, index, store.NItems(),
			fmt.Errorf("%w: got %T, want %s", native.ErrTypeMismatch, obj, reflect.TypeFor[T]()))
	}
	return item, nil
}

// All returns an iterator over the items. Each step reads the live store,
// so the sequence reflects the contents at the time it is ranged over and
// may be ranged over more than once.
func (s *ListStore[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.Get(i)) {
				return
			}
		}
	}
}

// All2 is like All but also yields each item's index.
func (s *ListStore[T]) All2() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(i, s.Get(i)) {
				return
			}
		}
	}
}

// Slice returns a snapshot of the items.
func (s *ListStore[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	for item := range s.All() {
		out = append(out, item)
	}
	return out
}

// Len returns the number of items.
func (s *ListStore[T]) Len() int {
	return s.handle("liststore.Len").NItems()
}

// Subscribe registers fn to be called after every change to the store,
// including changes made through clones or the native store. It returns a
// function that removes the subscription.
func (s *ListStore[T]) Subscribe(fn func(change native.ItemsChanged)) func() {
	return s.handle("liststore.Subscribe").AddListener(fn)
}

// Clone returns another owner of the same native store.
func (s *ListStore[T]) Clone() *ListStore[T] {
	return &ListStore[T]{store: s.handle("liststore.Clone").Ref()}
}

// Release drops this store's reference to the native store. The native
// store is finalized once every clone has been released. Calling Release
// again is a no-op; any other use afterwards panics.
func (s *ListStore[T]) Release() {
	if s.store == nil {
		return
	}
	s.store.Unref()
	s.store = nil
}

// Downgrade returns a weak reference to the store.
func (s *ListStore[T]) Downgrade() *WeakListStore[T] {
	return &WeakListStore[T]{ref: s.handle("liststore.Downgrade").Downgrade()}
}

func (s *ListStore[T]) String() string {
	if s.store == nil {
		return fmt.Sprintf("ListStore[%s](released)", reflect.TypeFor[T]())
	}
	return fmt.Sprintf("ListStore[%s](len=%d)", reflect.TypeFor[T](), s.store.NItems())
}

// EqualFunc reports whether s holds as many items as other and eq holds for
// each pair in order. T itself does not need to be comparable.
func EqualFunc[T, O any](s *ListStore[T], other []O, eq func(T, O) bool) bool {
	if s.Len() != len(other) {
		return false
	}
	for i, item := range s.All2() {
		if !eq(item, other[i]) {
			return false
		}
	}
	return true
}

func upcast[T any](items []T) []native.Object {
	objs := make([]native.Object, len(items))
	for i, item := range items {
		objs[i] = item
	}
	return objs
}

func upcastSeq[T any](seq iter.Seq[T]) []native.Object {
	var objs []native.Object
	for item := range seq {
		objs = append(objs, item)
	}
	return objs
}

// relabel rewrites the Op of a native ListError to the typed operation
// the caller invoked.
func relabel(op string, err error) error {
	var le *errors.ListError
	if stderrors.As(err, &le) {
		le.Op = op
		return le
	}
	return err
}
