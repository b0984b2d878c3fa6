package native

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"weak"

	"github.com/go-drift/liststore/pkg/errors"
)

// Object is an untyped item held by a ListStore.
type Object = any

// Standard errors wrapped by the ListErrors a store returns or panics with.
var (
	// ErrIndexOutOfRange indicates a position outside the store's bounds.
	ErrIndexOutOfRange = stderrors.New("index out of range")

	// ErrTypeMismatch indicates an object not assignable to the item type.
	ErrTypeMismatch = stderrors.New("object does not match item type")

	// ErrNilObject indicates an attempt to store a nil object.
	ErrNilObject = stderrors.New("nil object")

	// ErrNilType indicates a store constructed without an item type.
	ErrNilType = stderrors.New("nil item type")

	// ErrFinalized indicates use of a store after its last reference was dropped.
	ErrFinalized = stderrors.New("store finalized")
)

// ItemsChanged describes a single splice applied to a store: Removed items
// starting at Position were replaced by Added items.
type ItemsChanged struct {
	Position int
	Removed  int
	Added    int
}

// ItemsChangedFunc is called after a store's contents change.
type ItemsChangedFunc func(change ItemsChanged)

type listener struct {
	fn ItemsChangedFunc
}

// ListStore is an untyped, reference-counted, observable ordered collection.
type ListStore struct {
	itemType  reflect.Type
	items     []Object
	refs      int
	listeners []*listener
}

// New creates an empty store whose items must be assignable to itemType.
// The returned store holds one reference owned by the caller.
func New(itemType reflect.Type) *ListStore {
	if itemType == nil {
		panic(errors.Violation("native.New", errors.KindType, errors.NoIndex, 0, ErrNilType))
	}
	return &ListStore{
		itemType: itemType,
		refs:     1,
	}
}

// ItemType returns the type every item must be assignable to.
func (s *ListStore) ItemType() reflect.Type {
	return s.itemType
}

// NItems returns the number of items in the store.
func (s *ListStore) NItems() int {
	s.checkAlive("native.NItems")
	return len(s.items)
}

// Item returns the object at index, or false if index is out of range.
func (s *ListStore) Item(index int) (Object, bool) {
	s.checkAlive("native.Item")
	if index < 0 || index >= len(s.items) {
		return nil, false
	}
	return s.items[index], true
}

// Insert inserts obj at position. Position may equal NItems to append.
func (s *ListStore) Insert(position int, obj Object) error {
	s.checkAlive("native.Insert")
	if position < 0 || position > len(s.items) {
		return s.outOfRange("native.Insert", position)
	}
	return s.splice("native.Insert", position, 0, []Object{obj})
}

// Remove removes the object at position.
func (s *ListStore) Remove(position int) error {
	s.checkAlive("native.Remove")
	if position < 0 || position >= len(s.items) {
		return s.outOfRange("native.Remove", position)
	}
	return s.splice("native.Remove", position, 1, nil)
}

// Splice removes nRemove items starting at position and inserts objs in
// their place. The store is only modified if every object is valid, and
// listeners are notified once. A splice that neither removes nor adds
// anything does not notify.
func (s *ListStore) Splice(position, nRemove int, objs []Object) error {
	s.checkAlive("native.Splice")
	if position < 0 || nRemove < 0 || position > len(s.items) || nRemove > len(s.items)-position {
		return s.outOfRange("native.Splice", position)
	}
	return s.splice("native.Splice", position, nRemove, objs)
}

func (s *ListStore) splice(op string, position, nRemove int, objs []Object) error {
	for i, obj := range objs {
		if err := s.validate(op, position+i, obj); err != nil {
			return err
		}
	}
	if nRemove == 0 && len(objs) == 0 {
		return nil
	}

	items := make([]Object, 0, len(s.items)-nRemove+len(objs))
	items = append(items, s.items[:position]...)
	items = append(items, objs...)
	items = append(items, s.items[position+nRemove:]...)
	s.items = items

	s.notify(ItemsChanged{Position: position, Removed: nRemove, Added: len(objs)})
	return nil
}

func (s *ListStore) validate(op string, index int, obj Object) error {
	if obj == nil {
		return errors.Violation(op, errors.KindType, index, len(s.items), ErrNilObject)
	}
	if got := reflect.TypeOf(obj); !got.AssignableTo(s.itemType) {
		return errors.Violation(op, errors.KindType, index, len(s.items),
			fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, got, s.itemType))
	}
	return nil
}

func (s *ListStore) outOfRange(op string, index int) error {
	return errors.Violation(op, errors.KindIndex, index, len(s.items), ErrIndexOutOfRange)
}

func (s *ListStore) checkAlive(op string) {
	if s.refs <= 0 {
		panic(errors.Violation(op, errors.KindFinalized, errors.NoIndex, 0, ErrFinalized))
	}
}

// AddListener registers fn to be called after every change and returns a
// function that removes it. Calling the returned function more than once
// is a no-op.
func (s *ListStore) AddListener(fn ItemsChangedFunc) func() {
	s.checkAlive("native.AddListener")
	l := &listener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		for i, existing := range s.listeners {
			if existing == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (s *ListStore) ListenerCount() int {
	return len(s.listeners)
}

// notify calls every listener registered at the time of the change.
// A panicking listener is reported and does not stop the others.
func (s *ListStore) notify(change ItemsChanged) {
	if len(s.listeners) == 0 {
		return
	}
	listeners := make([]*listener, len(s.listeners))
	copy(listeners, s.listeners)
	for _, l := range listeners {
		callListener(l.fn, change)
	}
}

func callListener(fn ItemsChangedFunc, change ItemsChanged) {
	defer errors.Recover("native.ListStore.notify")
	fn(change)
}

// Ref adds a reference to the store and returns it.
func (s *ListStore) Ref() *ListStore {
	s.checkAlive("native.Ref")
	s.refs++
	return s
}

// Unref drops a reference. Dropping the last reference finalizes the store.
func (s *ListStore) Unref() {
	s.checkAlive("native.Unref")
	s.refs--
	if s.refs == 0 {
		s.items = nil
		s.listeners = nil
	}
}

// RefCount returns the number of strong references held on the store.
func (s *ListStore) RefCount() int {
	return s.refs
}

// Finalized reports whether the last reference has been dropped.
func (s *ListStore) Finalized() bool {
	return s.refs <= 0
}

// WeakRef is a non-owning reference to a ListStore.
type WeakRef struct {
	ptr weak.Pointer[ListStore]
}

// Downgrade returns a weak reference to the store.
func (s *ListStore) Downgrade() *WeakRef {
	s.checkAlive("native.Downgrade")
	return &WeakRef{ptr: weak.Make(s)}
}

// Upgrade returns a new strong reference to the store, or false if the
// store has been finalized or garbage collected. The caller owns the
// returned reference.
func (w *WeakRef) Upgrade() (*ListStore, bool) {
	s := w.ptr.Value()
	if s == nil || s.Finalized() {
		return nil, false
	}
	s.refs++
	return s, true
}
