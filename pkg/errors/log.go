package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a ListError.
func (h *LogHandler) HandleError(err *ListError) {
	if err == nil {
		return
	}
	w := h.out()
	if !h.Verbose {
		fmt.Fprintf(w, "[liststore error] %s: %v\n", err.Op, err.Err)
		return
	}
	fmt.Fprintf(w, "[liststore error] %s [%s]", err.Op, err.Kind)
	if err.Kind == KindIndex && err.Index != NoIndex {
		fmt.Fprintf(w, " index=%d len=%d", err.Index, err.Len)
	}
	fmt.Fprintf(w, ": %v\n", err.Err)
	if err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	if err.Op != "" {
		fmt.Fprintf(w, "[liststore panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[liststore panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
