package fileinput_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/flock/internal/fileinput"
)

func TestInput(t *testing.T) {
	in := fileinput.Input{Queue: []io.Reader{
		fileinput.Named("one", strings.NewReader("ab\nc")),
		fileinput.Named("two", strings.NewReader("d")),
	}}

	type read struct {
		r   rune
		loc string
	}
	var reads []read
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "unexpected read error")
		reads = append(reads, read{r, in.Location().String()})
	}

	assert.Equal(t, []read{
		{'a', "one:1:1"},
		{'b', "one:1:2"},
		{'\n', "one:1:3"},
		{'c', "one:2:1"},
		{'d', "two:1:1"},
	}, reads)

	_, _, err := in.ReadRune()
	assert.Equal(t, io.EOF, err, "expected EOF to stick")
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "foo:3", fileinput.Location{Name: "foo", Line: 3}.String())
	assert.Equal(t, "foo:3:7", fileinput.Location{Name: "foo", Line: 3, Column: 7}.String())
}
