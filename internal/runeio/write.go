package runeio

import (
	"io"
	"strconv"
	"unicode"
)

// WriteLine writes s followed by a line feed. Control characters within s
// are written as Go escapes (a tab becomes `\t`), so that s always takes
// exactly one line of output.
func WriteLine(w io.Writer, s string) (int, error) {
	buf := make([]byte, 0, len(s)+1)
	buf = AppendEscaped(buf, s)
	buf = append(buf, '\n')
	return w.Write(buf)
}

// AppendEscaped appends s to buf, escaping control characters.
func AppendEscaped(buf []byte, s string) []byte {
	for _, r := range s {
		if !unicode.IsControl(r) {
			buf = append(buf, string(r)...)
			continue
		}
		q := strconv.QuoteRuneToASCII(r)
		buf = append(buf, q[1:len(q)-1]...)
	}
	return buf
}
