package bytecode

import "fmt"

// UnknownTokenError is returned when a token cannot start a statement.
type UnknownTokenError struct {
	Token Token
}

func (err *UnknownTokenError) Error() string {
	return fmt.Sprintf("%v: unknown token %q", err.Token.Loc, err.Token.Text)
}

// InvalidNameError is returned when FUN or RUN is not followed by a usable
// function name: the input ended (Missing), or the next word is reserved.
type InvalidNameError struct {
	After   Token
	Name    Token
	Missing bool
}

func (err *InvalidNameError) Error() string {
	if err.Missing {
		return fmt.Sprintf("%v: missing function name after %v", err.After.Loc, err.After.Text)
	}
	return fmt.Sprintf("%v: invalid function name %q after %v", err.Name.Loc, err.Name.Text, err.After.Text)
}

// UnterminatedFunctionError is returned when input ends inside a FUN block.
type UnterminatedFunctionError struct {
	Name string
	Fun  Token
}

func (err *UnterminatedFunctionError) Error() string {
	return fmt.Sprintf("%v: function %v has no END", err.Fun.Loc, err.Name)
}

// UnexpectedEndError is returned for an END without an open FUN.
type UnexpectedEndError struct {
	Token Token
}

func (err *UnexpectedEndError) Error() string {
	return fmt.Sprintf("%v: unexpected %v outside of a function", err.Token.Loc, err.Token.Text)
}

// UnexpectedEndOfInputError is returned when a statement was expected but no
// tokens remain.
type UnexpectedEndOfInputError struct{}

func (err *UnexpectedEndOfInputError) Error() string {
	return "unexpected end of input, expected a statement"
}

// InvalidInstructionError is returned when executing a malformed Program: an
// unknown op, an out of range symbol, or a function end outside its
// enclosing body.
type InvalidInstructionError struct {
	At          int
	Instruction Instruction
}

func (err *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction @%v: %v", err.At, err.Instruction)
}
