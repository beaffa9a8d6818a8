package bytecode

import (
	"fmt"
	"strings"

	"github.com/jcorbin/flock/internal/fileinput"
)

// Kind classifies a Token.
type Kind uint8

const (
	KindIdent Kind = iota // any non-reserved word, used as a function name

	// the four print statements
	KindA
	KindB
	KindC
	KindD

	KindFun // FUN  begin a function definition
	KindEnd // END  end a function definition
	KindRun // RUN  invoke a function
)

var kindNames = [...]string{
	KindIdent: "identifier",
	KindA:     "A",
	KindB:     "B",
	KindC:     "C",
	KindD:     "D",
	KindFun:   "FUN",
	KindEnd:   "END",
	KindRun:   "RUN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Keyword returns true for every kind but KindIdent.
func (k Kind) Keyword() bool { return k != KindIdent && int(k) < len(kindNames) }

// Symbol returns the print symbol for KindA through KindD.
func (k Kind) Symbol() (Symbol, bool) {
	if k >= KindA && k <= KindD {
		return Symbol(k - KindA), true
	}
	return 0, false
}

var keywords = map[string]Kind{
	"A":   KindA,
	"B":   KindB,
	"C":   KindC,
	"D":   KindD,
	"FUN": KindFun,
	"END": KindEnd,
	"RUN": KindRun,
}

// Classify returns the token for a single whitespace-free fragment: reserved
// words match case-insensitively and come back upper-cased, anything else is
// an identifier carried verbatim.
func Classify(text string) Token {
	canon := strings.ToUpper(text)
	if kind, ok := keywords[canon]; ok {
		return Token{Kind: kind, Text: canon}
	}
	return Token{Kind: KindIdent, Text: text}
}

// Token is one classified lexeme.
type Token struct {
	Kind Kind
	Text string
	Loc  fileinput.Location
}

func (tok Token) String() string { return fmt.Sprintf("%v %q", tok.Loc, tok.Text) }
