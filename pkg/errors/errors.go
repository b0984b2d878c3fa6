// Package errors provides structured error handling for list stores.
//
// Contract violations against a store (an index out of range, an element
// that is not of the store's item type, use of a finalized store) are
// reported as *ListError values. Methods that can return an error return
// one; methods whose signature cannot carry an error panic with it.
package errors

import (
	"fmt"
	"math"
	"time"
)

// NoIndex marks a ListError whose operation has no index or position.
const NoIndex = math.MinInt

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindIndex indicates an index or position outside the store's bounds.
	KindIndex
	// KindType indicates an element whose dynamic type is not the store's item type.
	KindType
	// KindFinalized indicates an operation on a store whose last reference was released.
	KindFinalized
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindType:
		return "type"
	case KindFinalized:
		return "finalized"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ListError represents a contract violation against a list store.
type ListError struct {
	// Op is the operation that failed (e.g., "liststore.Get").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Index is the offending index or position, or NoIndex when not applicable.
	Index int
	// Len is the number of items in the store when the error occurred.
	Len int
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ListError) Error() string {
	if e.Kind == KindIndex && e.Index != NoIndex {
		return fmt.Sprintf("%s [%s] index=%d len=%d: %v", e.Op, e.Kind, e.Index, e.Len, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "native.notify").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by list stores.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *ListError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
