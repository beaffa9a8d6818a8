package bytecode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a listing of prog to w, one instruction per line, with
// function bodies indented under their definition.
func Dump(w io.Writer, prog Program) error {
	dump := dumper{
		prog:      prog,
		addrWidth: len(strconv.Itoa(len(prog))),
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Program (%v instructions)\n", len(prog))
	for at := range prog {
		dump.formatAt(&buf, at)
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

// String returns the Dump listing of prog.
func (prog Program) String() string {
	var sb strings.Builder
	Dump(&sb, prog)
	return sb.String()
}

type dumper struct {
	prog      Program
	addrWidth int

	// ends of the enclosing function bodies, innermost last
	open []int
}

func (dump *dumper) formatAt(buf *bytes.Buffer, at int) {
	for i := len(dump.open) - 1; i >= 0 && dump.open[i] < at; i-- {
		dump.open = dump.open[:i]
	}

	fmt.Fprintf(buf, "  @%*v ", dump.addrWidth, at)
	for range dump.open {
		buf.WriteString("  ")
	}

	in := dump.prog[at]
	buf.WriteString(in.String())
	if in.Op == OpFunc {
		if in.End == at {
			buf.WriteString(" (empty)")
		} else if in.End > at {
			dump.open = append(dump.open, in.End)
		}
	}
	buf.WriteByte('\n')
}
