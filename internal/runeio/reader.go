package runeio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading runes.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns r if it already reads runes, otherwise a bufio.Reader
// around it. A Name() string method on r survives the wrapping.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	rr := runeReader{r, bufio.NewReader(r)}
	if impl, ok := r.(interface{ Name() string }); ok {
		return namedRuneReader{rr, impl.Name()}
	}
	return rr
}

type runeReader struct {
	io.Reader
	io.RuneReader
}

func (rr runeReader) Read(p []byte) (int, error) {
	// reads must go through the buffer once runes have been taken from it
	if br, ok := rr.RuneReader.(io.Reader); ok {
		return br.Read(p)
	}
	return rr.Reader.Read(p)
}

type namedRuneReader struct {
	Reader
	name string
}

func (nr namedRuneReader) Name() string { return nr.name }
