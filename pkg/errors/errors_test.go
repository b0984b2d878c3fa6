package errors

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = stderrors.New("sentinel")

type testHandler struct {
	onError func(*ListError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *ListError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func installHandler(t *testing.T, h ErrorHandler) {
	t.Helper()
	old := DefaultHandler
	SetHandler(h)
	t.Cleanup(func() { SetHandler(old) })
}

func TestListErrorString(t *testing.T) {
	err := &ListError{Op: "liststore.Get", Kind: KindIndex, Index: 7, Len: 3, Err: errSentinel}
	assert.Equal(t, "liststore.Get [index] index=7 len=3: sentinel", err.Error())
}

func TestListErrorStringNegativeIndex(t *testing.T) {
	err := &ListError{Op: "liststore.Get", Kind: KindIndex, Index: -1, Len: 2, Err: errSentinel}
	assert.Equal(t, "liststore.Get [index] index=-1 len=2: sentinel", err.Error())
}

func TestListErrorStringWithoutIndex(t *testing.T) {
	err := &ListError{Op: "liststore.Get", Kind: KindType, Index: 2, Err: errSentinel}
	assert.NotContains(t, err.Error(), "index=")

	err = &ListError{Op: "diffscript.Apply", Kind: KindIndex, Index: NoIndex, Err: errSentinel}
	assert.Equal(t, "diffscript.Apply [index]: sentinel", err.Error())
}

func TestListErrorUnwrap(t *testing.T) {
	err := &ListError{Op: "native.Insert", Kind: KindIndex, Err: errSentinel}
	assert.ErrorIs(t, err, errSentinel)

	var le *ListError
	assert.ErrorAs(t, error(err), &le)
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindIndex, "index"},
		{KindType, "type"},
		{KindFinalized, "finalized"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestViolation(t *testing.T) {
	err := Violation("liststore.Remove", KindIndex, 4, 2, errSentinel)
	assert.Equal(t, "liststore.Remove", err.Op)
	assert.Equal(t, 4, err.Index)
	assert.Equal(t, 2, err.Len)
	assert.NotEmpty(t, err.StackTrace)
	assert.False(t, err.Timestamp.IsZero())
}

func TestReport(t *testing.T) {
	var captured *ListError
	installHandler(t, &testHandler{onError: func(err *ListError) { captured = err }})

	Report(&ListError{Op: "test.op", Kind: KindType, Err: errSentinel})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero())
}

func TestReportNil(t *testing.T) {
	called := false
	installHandler(t, &testHandler{
		onError: func(*ListError) { called = true },
		onPanic: func(*PanicError) { called = true },
	})

	Report(nil)
	ReportPanic(nil)

	assert.False(t, called, "nil errors should not reach the handler")
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	installHandler(t, &testHandler{onPanic: func(err *PanicError) { captured = err }})

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	require.NotNil(t, captured)
	assert.Equal(t, "intentional test panic", captured.Value)
	assert.Equal(t, "test.recover", captured.Op)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.Regexp(t, `testing|runtime`, stack)
}

func TestSetHandlerNil(t *testing.T) {
	installHandler(t, nil)
	assert.IsType(t, &LogHandler{}, DefaultHandler)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}

	h.HandleError(&ListError{Op: "liststore.Get", Kind: KindIndex, Index: 1, Err: errSentinel})
	assert.Equal(t, "[liststore error] liststore.Get: sentinel\n", buf.String())

	buf.Reset()
	h.Verbose = true
	h.HandleError(&ListError{Op: "liststore.Get", Kind: KindIndex, Index: -1, Len: 0, Err: errSentinel, StackTrace: "frame"})
	got := buf.String()
	for _, want := range []string{"[index]", "index=-1 len=0", "Stack trace:\nframe"} {
		assert.Contains(t, got, want)
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "native.notify", Value: "boom", Timestamp: time.Now()})
	assert.Equal(t, "[liststore panic] native.notify: boom\n", buf.String())
}
