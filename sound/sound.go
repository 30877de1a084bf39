// Package sound defines the seam between the core build pipeline and the
// WDD/WMD/WSD sidecar generator. The MIDI/SF2/DLS/WAV decoders that would
// produce real sidecar content are out of scope for this module (see the
// package-level notes in build); the core only ever calls the operations
// below on whatever Data implementation the caller wires in.
package sound

import "io"

// Data is the interface the build pipeline consumes to produce the three
// companion sidecar files. Implementations own whatever sample/sequence
// state they were built from; the core never inspects it.
type Data interface {
	// Compress finalizes internal sample/sequence compression ahead of
	// writing. It is called once per build, before any WriteWxx call.
	Compress() error

	WriteWDD(w io.Writer) error
	WriteWMD(w io.Writer) error
	WriteWSD(w io.Writer) error
}

// Empty is the zero-value Data the build pipeline falls back to when no
// sound collaborator is supplied. It writes minimal but structurally-valid
// empty sidecar headers rather than omitting the files. With --no-sound the
// build writes no sidecars at all, so Empty is not consulted.
type Empty struct{}

func (Empty) Compress() error { return nil }

// emptyHeader is a 12-byte all-zero placeholder header; real WDD/WMD/WSD
// headers are produced by the external sound collaborator, which this
// module does not implement.
var emptyHeader = make([]byte, 12)

func (Empty) WriteWDD(w io.Writer) error { return writeHeader(w) }
func (Empty) WriteWMD(w io.Writer) error { return writeHeader(w) }
func (Empty) WriteWSD(w io.Writer) error { return writeHeader(w) }

func writeHeader(w io.Writer) error {
	_, err := w.Write(emptyHeader)
	return err
}
