package runeio_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/flock/internal/runeio"
)

func TestWriteLine(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"", "\n"},
		{"duck", "duck\n"},
		{"ente ü 鴨", "ente ü 鴨\n"},
		{"two\nlines", `two\nlines` + "\n"},
		{"tab\there", `tab\there` + "\n"},
		{"nel\u0085", `nel\u0085` + "\n"},
		{"\x1b[1mbold", `\x1b[1mbold` + "\n"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := runeio.WriteLine(&buf, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, buf.String())
			assert.Equal(t, len(tc.want), n)
		})
	}
}

type named struct {
	io.Reader
	name string
}

func (n named) Name() string { return n.name }

func TestNewReader(t *testing.T) {
	sr := strings.NewReader("abc")
	assert.Same(t, sr, runeio.NewReader(sr).(*strings.Reader), "rune readers must not be wrapped")

	nr := runeio.NewReader(named{io.MultiReader(strings.NewReader("héllo world")), "src"})
	nom, ok := nr.(interface{ Name() string })
	require.True(t, ok, "expected name to survive wrapping")
	assert.Equal(t, "src", nom.Name())

	ch, _, err := nr.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, 'h', ch)
	ch, _, err = nr.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, 'é', ch)

	rest, err := io.ReadAll(nr)
	require.NoError(t, err)
	assert.Equal(t, "llo world", string(rest), "reads must continue where runes left off")
}
