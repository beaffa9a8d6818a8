// Package flushio provides buffered writers whose owner decides when output
// becomes visible.
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is an io.Writer whose written data may be held until Flush.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

var discardWriteFlusher WriteFlusher = nopFlusher{io.Discard}

// NewWriteFlusher returns w itself if it already flushes, a no-op flusher for
// nil, io.Discard, or an in-memory buffer, and a bufio.Writer otherwise.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case nil:
		return discardWriteFlusher
	case WriteFlusher:
		return impl
	case interface {
		io.Writer
		Len() int
		Reset()
	}:
		return nopFlusher{w}
	}
	if w == io.Discard {
		return discardWriteFlusher
	}
	return bufio.NewWriter(w)
}

// IsDiscard returns true if wf writes nowhere.
func IsDiscard(wf WriteFlusher) bool {
	return wf == nil || wf == discardWriteFlusher
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }
