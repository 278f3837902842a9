// Package diosemit provides the two-stream writer used throughout queue
// and phase codegen: a primary (inline) stream and a secondary
// (out-of-line "implementation") stream, concatenated at emission
// boundaries (Design Note §9, "heterogeneous stream composition").
//
// The PIC's paged program memory makes it cheap to reach any label with
// a single pagesel+goto, but expensive to keep inline scan loops
// cluttered with full event-handler bodies. Every drain handler and
// interrupt handler therefore emits a compact inline scan into the
// primary stream and defers each out-of-line body into the secondary
// stream, which the caller appends immediately after the primary
// stream's current section.
package diosemit

import (
	"fmt"
	"strings"
)

// Sink pairs a primary stream with a secondary "impl" stream. Both are
// plain strings.Builder; Sink never allocates more than the two
// buffers it owns.
type Sink struct {
	Main strings.Builder
	Impl strings.Builder
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{}
}

// P writes a formatted line (with trailing newline) to the primary
// stream.
func (s *Sink) P(format string, args ...any) {
	fmt.Fprintf(&s.Main, format+"\n", args...)
}

// Pln writes text verbatim, followed by a newline, to the primary
// stream. Used for multi-line literal blocks where %-formatting would
// need escaping.
func (s *Sink) Pln(text string) {
	s.Main.WriteString(text)
	s.Main.WriteByte('\n')
}

// Blank writes an empty line to the primary stream.
func (s *Sink) Blank() {
	s.Main.WriteByte('\n')
}

// IBlank writes an empty line to the secondary stream.
func (s *Sink) IBlank() {
	s.Impl.WriteByte('\n')
}

// IP writes a formatted line to the secondary (out-of-line
// implementation) stream.
func (s *Sink) IP(format string, args ...any) {
	fmt.Fprintf(&s.Impl, format+"\n", args...)
}

// IPln writes text verbatim, followed by a newline, to the secondary
// stream.
func (s *Sink) IPln(text string) {
	s.Impl.WriteString(text)
	s.Impl.WriteByte('\n')
}

// FlushImpl appends the secondary stream's contents (if any) to the
// primary stream, preceded by a blank line, and clears the secondary
// stream. This is the "concatenate the secondary stream after the
// primary at each emission boundary" step from Design Note §9.
func (s *Sink) FlushImpl() {
	if s.Impl.Len() == 0 {
		return
	}
	s.Main.WriteByte('\n')
	s.Main.WriteString(s.Impl.String())
	s.Impl.Reset()
}

// TakeImpl returns the secondary stream's contents and clears it,
// without touching the primary stream. Used when a caller wants to
// thread impl output into a different sink's impl stream (e.g. an IRQ
// handler's per-event bodies riding along inside the ISR's own impl
// stream). diosprogram does not call it: it splices those bodies by
// reading the temporary sink's Impl buffer directly.
func (s *Sink) TakeImpl() string {
	out := s.Impl.String()
	s.Impl.Reset()
	return out
}

// Writer is the narrow interface callers that don't care which stream
// they're targeting (e.g. the module weaver, the constant reducer)
// write through. It lets the same weaving code feed either a Sink's
// primary stream or its secondary stream, depending on where the caller
// is in the inline/out-of-line layout.
type Writer interface {
	P(format string, args ...any)
}

type mainWriter struct{ s *Sink }

func (m mainWriter) P(format string, args ...any) { m.s.P(format, args...) }

type implWriter struct{ s *Sink }

func (m implWriter) P(format string, args ...any) { m.s.IP(format, args...) }

// MainWriter returns a Writer that targets the Sink's primary stream.
func (s *Sink) MainWriter() Writer { return mainWriter{s} }

// ImplWriter returns a Writer that targets the Sink's secondary stream.
func (s *Sink) ImplWriter() Writer { return implWriter{s} }
