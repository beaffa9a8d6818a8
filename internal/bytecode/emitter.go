package bytecode

// Emit turns tokens into a Program, consuming them left to right. Function
// bodies are emitted inline, each OpFunc backpatched with the index of its
// last body instruction once the matching END is read.
func Emit(tokens []Token) (Program, error) {
	em := emitter{tokens: tokens}
	for em.more() {
		if err := em.statement(); err != nil {
			return nil, err
		}
	}
	return em.prog, nil
}

type emitter struct {
	tokens []Token
	pos    int
	prog   Program
}

func (em *emitter) more() bool { return em.pos < len(em.tokens) }

// next consumes a token; consumed tokens are never revisited.
func (em *emitter) next() (tok Token, ok bool) {
	if em.pos < len(em.tokens) {
		tok, ok = em.tokens[em.pos], true
		em.pos++
	}
	return tok, ok
}

func (em *emitter) statement() error {
	tok, ok := em.next()
	if !ok {
		return &UnexpectedEndOfInputError{}
	}
	return em.dispatch(tok)
}

func (em *emitter) dispatch(tok Token) error {
	if sym, ok := tok.Kind.Symbol(); ok {
		em.prog = append(em.prog, Print(sym))
		return nil
	}
	switch tok.Kind {
	case KindFun:
		return em.function(tok)
	case KindEnd:
		return &UnexpectedEndError{Token: tok}
	case KindRun:
		name, err := em.name(tok)
		if err != nil {
			return err
		}
		em.prog = append(em.prog, Run(name))
		return nil
	}
	return &UnknownTokenError{Token: tok}
}

func (em *emitter) function(fun Token) error {
	name, err := em.name(fun)
	if err != nil {
		return err
	}

	at := len(em.prog)
	em.prog = append(em.prog, Func(name, -1))
	for {
		tok, ok := em.next()
		if !ok {
			return &UnterminatedFunctionError{Name: name, Fun: fun}
		}
		if tok.Kind == KindEnd {
			em.prog[at].End = len(em.prog) - 1
			return nil
		}
		if err := em.dispatch(tok); err != nil {
			return err
		}
	}
}

// name consumes the function name following a FUN or RUN token.
func (em *emitter) name(after Token) (string, error) {
	tok, ok := em.next()
	if !ok {
		return "", &InvalidNameError{After: after, Missing: true}
	}
	if tok.Kind != KindIdent || tok.Text == "" {
		return "", &InvalidNameError{After: after, Name: tok}
	}
	return tok.Text, nil
}
