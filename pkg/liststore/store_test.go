package liststore

import (
	"runtime"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/liststore/pkg/errors"
	"github.com/go-drift/liststore/pkg/native"
)

type contact struct {
	name string
}

func contacts(names ...string) []*contact {
	out := make([]*contact, len(names))
	for i, n := range names {
		out[i] = &contact{name: n}
	}
	return out
}

func names(s *ListStore[*contact]) []string {
	var out []string
	for c := range s.All() {
		out = append(out, c.name)
	}
	return out
}

func recordChanges[T any](s *ListStore[T]) *[]native.ItemsChanged {
	var changes []native.ItemsChanged
	s.Subscribe(func(c native.ItemsChanged) { changes = append(changes, c) })
	return &changes
}

// requireViolation runs fn and asserts it panics with a ListError of kind.
func requireViolation(t *testing.T, kind errors.ErrorKind, fn func()) *errors.ListError {
	t.Helper()
	var got *errors.ListError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			le, ok := r.(*errors.ListError)
			require.True(t, ok, "expected *errors.ListError, got %T: %v", r, r)
			got = le
		}()
		fn()
	}()
	assert.Equal(t, kind, got.Kind)
	return got
}

func TestReplaceAllThenIterate(t *testing.T) {
	for _, tc := range [][]string{nil, {"a"}, {"a", "b", "c"}} {
		s := New[*contact]()
		s.Extend(contacts("old")...)
		s.ReplaceAll(contacts(tc...)...)
		assert.Equal(t, tc, names(s))
	}
}

func TestExtendConcatenates(t *testing.T) {
	s := New[*contact]()
	s.Extend(contacts("a", "b")...)
	s.Extend(contacts("c")...)
	assert.Equal(t, []string{"a", "b", "c"}, names(s))
}

func TestExtendIsOneSplice(t *testing.T) {
	s := New[*contact]()
	s.Extend(contacts("x")...)
	changes := recordChanges(s)

	s.Extend(contacts("a", "b", "c")...)
	s.ReplaceAll(contacts("d", "e")...)

	assert.Equal(t, []native.ItemsChanged{
		{Position: 1, Removed: 0, Added: 3},
		{Position: 0, Removed: 4, Added: 2},
	}, *changes)
}

func TestSeqVariants(t *testing.T) {
	s := New[string]()
	s.ExtendSeq(slices.Values([]string{"a", "b"}))
	s.ExtendSeq(slices.Values([]string{"c"}))
	assert.Equal(t, []string{"a", "b", "c"}, s.Slice())

	s.ReplaceAllSeq(slices.Values([]string{"z"}))
	assert.Equal(t, []string{"z"}, s.Slice())
}

func TestMoveUp(t *testing.T) {
	s := New[string]()
	s.ReplaceAll("x0", "x1", "x2")
	s.MoveUpUnchecked(1)
	assert.Equal(t, []string{"x1", "x0", "x2"}, s.Slice())
}

func TestMoveDown(t *testing.T) {
	s := New[string]()
	s.ReplaceAll("x0", "x1", "x2")
	s.MoveDownUnchecked(1)
	assert.Equal(t, []string{"x0", "x2", "x1"}, s.Slice())
}

func TestMoveIsOneSplice(t *testing.T) {
	s := New[string]()
	s.ReplaceAll("a", "b", "c")
	changes := recordChanges(s)

	s.MoveDownUnchecked(0)

	assert.Equal(t, []native.ItemsChanged{{Position: 0, Removed: 2, Added: 2}}, *changes)
}

func TestMoveAtBoundaryPanics(t *testing.T) {
	s := New[string]()
	s.ReplaceAll("a", "b", "c")
	changes := recordChanges(s)

	err := requireViolation(t, errors.KindIndex, func() { s.MoveUpUnchecked(0) })
	assert.Equal(t, 0, err.Index)
	assert.ErrorIs(t, err, native.ErrIndexOutOfRange)

	requireViolation(t, errors.KindIndex, func() { s.MoveDownUnchecked(2) })
	requireViolation(t, errors.KindIndex, func() { s.MoveUpUnchecked(3) })

	assert.Equal(t, []string{"a", "b", "c"}, s.Slice(), "a failed move must not mutate")
	assert.Empty(t, *changes)
}

func TestSwapOutOfRangeIsNoOp(t *testing.T) {
	s := New[string]()
	s.ReplaceAll("a", "b")
	changes := recordChanges(s)

	assert.False(t, s.swap(-1, 0))
	assert.False(t, s.swap(1, 2))
	assert.True(t, s.swap(0, 1))

	assert.Equal(t, []string{"b", "a"}, s.Slice())
	assert.Len(t, *changes, 1)
}

func TestUpdateDispatch(t *testing.T) {
	s := New[string]()

	s.Update(Set("a", "b", "c"))
	assert.Equal(t, 3, s.Len())

	s.Update(Append("d"))
	assert.Equal(t, 4, s.Len())

	s.Update(MoveUp[string](3))
	assert.Equal(t, []string{"a", "b", "d", "c"}, s.Slice())

	s.Update(MoveDown[string](0))
	assert.Equal(t, []string{"b", "a", "d", "c"}, s.Slice())

	s.Update(Set[string]())
	assert.Zero(t, s.Len())
}

func TestUpdateUnknownKindPanics(t *testing.T) {
	s := New[string]()
	requireViolation(t, errors.KindUnknown, func() { s.Update(Diff[string]{Kind: DiffKind(42)}) })
}

func TestInsertRemove(t *testing.T) {
	s := New[string]()
	require.NoError(t, s.Insert(0, "b"))
	require.NoError(t, s.Insert(0, "a"))
	require.NoError(t, s.Insert(2, "c"))
	require.NoError(t, s.Remove(1))
	assert.Equal(t, []string{"a", "c"}, s.Slice())

	err := s.Insert(5, "z")
	var le *errors.ListError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "liststore.Insert", le.Op)
	assert.Equal(t, errors.KindIndex, le.Kind)
	assert.Equal(t, 5, le.Index)
	assert.Equal(t, 2, le.Len)

	err = s.Remove(2)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "liststore.Remove", le.Op)
	assert.ErrorIs(t, err, native.ErrIndexOutOfRange)
}

func TestAtAndGet(t *testing.T) {
	s := New[int]()
	s.Extend(10, 20)

	v, err := s.At(1)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.Equal(t, 10, s.Get(0))

	_, err = s.At(2)
	assert.ErrorIs(t, err, native.ErrIndexOutOfRange)

	le := requireViolation(t, errors.KindIndex, func() { s.Get(-1) })
	assert.Equal(t, -1, le.Index)
	assert.Contains(t, le.Error(), "index=-1 len=2")

	le = requireViolation(t, errors.KindIndex, func() { s.MoveUpUnchecked(-1) })
	assert.Contains(t, le.Error(), "index=-1 len=2")
}

func TestInterfaceElements(t *testing.T) {
	s := New[fmtStringer]()
	s.Extend(stringerFunc("a"), stringerFunc("b"))
	assert.Equal(t, "b", s.Get(1).String())

	requireViolation(t, errors.KindType, func() { s.Extend(nil) })
	assert.Equal(t, 2, s.Len())
}

type fmtStringer interface{ String() string }

type stringerFunc string

func (s stringerFunc) String() string { return string(s) }

func TestForeignObjectIsTypeViolation(t *testing.T) {
	s := New[fmtStringer]()
	s.Extend(stringerFunc("a"))

	// A view with a narrower element type over the same native store sees
	// an object that satisfies the native item type but is not its T.
	wide := &ListStore[stringerFunc]{store: s.Native().Ref()}
	defer wide.Release()

	require.NoError(t, s.Native().Insert(1, otherStringer{}))
	_, err := wide.At(1)
	var le *errors.ListError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, errors.KindType, le.Kind)
	assert.ErrorIs(t, err, native.ErrTypeMismatch)

	requireViolation(t, errors.KindType, func() { wide.Get(1) })
}

type otherStringer struct{}

func (otherStringer) String() string { return "other" }

func TestIterationIsLiveAndRestartable(t *testing.T) {
	s := New[string]()
	s.Extend("a", "b")
	seq := s.All()

	assert.Equal(t, []string{"a", "b"}, slices.Collect(seq))
	s.Extend("c")
	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(seq))

	var seen []string
	for v := range seq {
		seen = append(seen, v)
		if v == "a" {
			s.Extend("d")
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)

	for i, v := range s.All2() {
		assert.Equal(t, s.Get(i), v)
	}
}

func TestEqualFunc(t *testing.T) {
	s := New[*contact]()
	s.Extend(contacts("a", "b")...)
	byName := func(c *contact, name string) bool { return c.name == name }
	always := func(*contact, string) bool { return true }

	assert.True(t, EqualFunc(s, []string{"a", "b"}, byName))
	assert.False(t, EqualFunc(s, []string{"a", "x"}, byName))
	assert.False(t, EqualFunc(s, []string{"a"}, always))
	assert.False(t, EqualFunc(s, []string{"a", "b", "c"}, always))
	assert.True(t, EqualFunc(New[*contact](), []int{}, func(*contact, int) bool { return false }))
}

func TestCloneSharesContents(t *testing.T) {
	s := New[string]()
	clone := s.Clone()
	changes := recordChanges(s)

	clone.Extend("a")
	assert.Equal(t, []string{"a"}, s.Slice())
	assert.Len(t, *changes, 1)
	assert.Equal(t, 2, s.Native().RefCount())

	clone.Release()
	clone.Release()
	assert.Equal(t, 1, s.Native().RefCount())
	assert.Equal(t, []string{"a"}, s.Slice())

	requireViolation(t, errors.KindFinalized, func() { clone.Len() })
	assert.Equal(t, "ListStore[string](released)", clone.String())
	assert.Equal(t, "ListStore[string](len=1)", s.String())
}

func TestWeakUpgrade(t *testing.T) {
	s := New[string]()
	s.Extend("a")
	weak := s.Downgrade()

	strong, ok := weak.Upgrade()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, strong.Slice())
	assert.Equal(t, 2, s.Native().RefCount())
	strong.Release()

	clone := s.Clone()
	s.Release()
	strong, ok = weak.Upgrade()
	require.True(t, ok, "a clone still owns the store")
	assert.Equal(t, []string{"a"}, strong.Slice())

	strong.Release()
	clone.Release()
	_, ok = weak.Upgrade()
	assert.False(t, ok)
}

func TestWeakUpgradeFailsAfterAllOwnersReleased(t *testing.T) {
	s := New[string]()
	clone := s.Clone()
	weak := s.Downgrade()

	s.Release()
	clone.Release()

	got, ok := weak.Upgrade()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestWeakUpgradeFailsAfterCollection(t *testing.T) {
	weak := func() *WeakListStore[string] {
		s := New[string]()
		s.Extend("a")
		return s.Downgrade()
	}()
	runtime.GC()
	runtime.GC()

	_, ok := weak.Upgrade()
	assert.False(t, ok)
}

func TestWeakBackReferenceInListener(t *testing.T) {
	s := New[string]()
	weak := s.Downgrade()
	var lens []string
	s.Subscribe(func(native.ItemsChanged) {
		if st, ok := weak.Upgrade(); ok {
			lens = append(lens, strconv.Itoa(st.Len()))
			st.Release()
		}
	})

	s.Extend("a")
	s.Extend("b", "c")
	assert.Equal(t, []string{"1", "3"}, lens)
	assert.Equal(t, 1, s.Native().RefCount())
}

func TestDiffString(t *testing.T) {
	assert.Equal(t, "set(2 items)", Set("a", "b").String())
	assert.Equal(t, "append(0 items)", Append[int]().String())
	assert.Equal(t, "move_up(3)", MoveUp[int](3).String())
	assert.Equal(t, "move_down(1)", MoveDown[int](1).String())
	assert.Equal(t, "DiffKind(9)", DiffKind(9).String())
}
