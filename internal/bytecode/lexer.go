package bytecode

import (
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/flock/internal/fileinput"
)

// Scan reads whitespace delimited tokens from in until EOF. Only read errors
// are returned; classification never fails.
func Scan(in *fileinput.Input) ([]Token, error) {
	var (
		tokens []Token
		sb     strings.Builder
		at     fileinput.Location
	)
	flush := func() {
		if sb.Len() > 0 {
			tok := Classify(sb.String())
			tok.Loc = at
			tokens = append(tokens, tok)
			sb.Reset()
		}
	}
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			flush()
			return tokens, nil
		} else if err != nil {
			return nil, err
		}
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		if sb.Len() == 0 {
			at = in.Location()
		}
		sb.WriteRune(r)
	}
}

// Lex tokenizes program text held in memory.
func Lex(src string) []Token {
	tokens, _ := Scan(&fileinput.Input{Queue: []io.Reader{
		fileinput.Named("input", strings.NewReader(src)),
	}})
	return tokens
}
