// Package panicerr isolates a function call so that a panic or
// runtime.Goexit inside it comes back as an ordinary error.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Error describes a function run by Recover that did not return normally.
type Error struct {
	Name string

	// Exit is set when the function called runtime.Goexit; otherwise it
	// panicked with Value, and Stack holds the panicking goroutine's stack.
	Exit  bool
	Value interface{}
	Stack []byte
}

func (err *Error) Error() string {
	what := "panicked: " + fmt.Sprint(err.Value)
	if err.Exit {
		what = "called runtime.Goexit"
	}
	if err.Name == "" {
		return what
	}
	return err.Name + " " + what
}

// Unwrap returns the panic value if it was an error.
func (err *Error) Unwrap() error {
	inner, _ := err.Value.(error)
	return inner
}

// Recover runs f in a new goroutine and returns its error, or an *Error if
// f panicked or called runtime.Goexit.
func Recover(name string, f func() error) error {
	done := make(chan error, 1)
	go func() {
		returned := false
		defer func() {
			if returned {
				return
			}
			// recover yields nil only under runtime.Goexit; since go1.21
			// panic(nil) recovers a *runtime.PanicNilError
			if e := recover(); e != nil {
				done <- &Error{Name: name, Value: e, Stack: debug.Stack()}
			} else {
				done <- &Error{Name: name, Exit: true}
			}
		}()
		err := f()
		returned = true
		done <- err
	}()
	return <-done
}

// As returns the *Error within err's chain, if any.
func As(err error) (*Error, bool) {
	var perr *Error
	ok := errors.As(err, &perr)
	return perr, ok
}
