package flushio

import "io"

// Tee returns a WriteFlusher that copies every write to each of wfs in order
// and flushes all of them. Discard flushers are left out and nested tees are
// flattened, so Tee(Tee(a, b), c) writes to a, b, and c directly.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	var all tee
	for _, wf := range wfs {
		if nested, ok := wf.(tee); ok {
			all = append(all, nested...)
		} else if !IsDiscard(wf) {
			all = append(all, wf)
		}
	}
	switch len(all) {
	case 0:
		return discardWriteFlusher
	case 1:
		return all[0]
	}
	return all
}

type tee []WriteFlusher

func (t tee) Write(p []byte) (int, error) {
	for _, wf := range t {
		if n, err := wf.Write(p); err != nil {
			return n, err
		} else if n < len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

// Flush flushes every branch even after one fails, returning the first error.
func (t tee) Flush() (err error) {
	for _, wf := range t {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
