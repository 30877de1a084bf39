// Package diag carries diagnostics out of the build/extract orchestrators
// without the core depending on any process-wide logger. The teacher's own
// library code never logs internally either — only its CLI entry points
// call fmt directly — so this package keeps that same shape: a small
// interface the caller supplies, not a singleton the core reaches for.
package diag

import (
	"fmt"
	"io"
)

// Diagnostics receives progress and warning messages from the core. A nil
// Diagnostics is never passed to core operations; callers that want silence
// use Nop.
type Diagnostics interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// Nop discards every message. It is the zero value of Diagnostics callers
// reach for when they have nothing to wire in.
type Nop struct{}

func (Nop) Info(string, ...any)  {}
func (Nop) Debug(string, ...any) {}
func (Nop) Warn(string, ...any)  {}

// Writer formats each message as a single line with a level prefix to an
// io.Writer. It is the direct analogue of a CLI frontend printing via fmt,
// generalized so both the build and extract commands can share it.
type Writer struct {
	W         io.Writer
	ShowDebug bool
}

// NewWriter returns a Writer that writes to w. If debug is false, Debug
// messages are discarded.
func NewWriter(w io.Writer, debug bool) *Writer {
	return &Writer{W: w, ShowDebug: debug}
}

func (w *Writer) Info(format string, args ...any) {
	fmt.Fprintf(w.W, "info: "+format+"\n", args...)
}

func (w *Writer) Debug(format string, args ...any) {
	if !w.ShowDebug {
		return
	}
	fmt.Fprintf(w.W, "debug: "+format+"\n", args...)
}

func (w *Writer) Warn(format string, args ...any) {
	fmt.Fprintf(w.W, "warn: "+format+"\n", args...)
}
