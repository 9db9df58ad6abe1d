// Package serr holds common error objects used across the HTTP demo server.
// Notably, it contains the Error type, which can be created with one or more
// 'cause' errors. Calling errors.Is() on this Error type with an argument
// consisting of any of the errors it has as a cause will return true.
//
// Beyond the wrapping itself, every Error is tagged with a Category drawn
// from which pipeline stage produced it (request parsing, pattern
// compilation, pattern parsing, or the compiled-pattern cache) so that API
// clients and server logs can group failures without string-matching
// Error() text. A bad request body and a cache I/O failure both arrive at
// the HTTP layer as "an error happened"; Category is what lets the two stay
// distinguishable once they're wrapped in the same type.
package serr

import "errors"

// Category identifies which stage of request handling an Error came from.
type Category int

const (
	// CategoryNone is the zero value: an Error with no specific pipeline
	// stage, or a bug in construction that forgot to set one.
	CategoryNone Category = iota
	// CategoryRequest covers malformed or invalid request input: bad JSON,
	// a missing/invalid argument, a content-type mismatch.
	CategoryRequest
	// CategoryCompile covers failures turning a pattern into a DFA.
	CategoryCompile
	// CategoryParse covers failures producing a pattern's parse tree
	// without reducing it to an automaton.
	CategoryParse
	// CategoryCache covers failures reading from or writing to the
	// compiled-pattern cache.
	CategoryCache
	// CategoryAuth covers bad or missing credentials.
	CategoryAuth
)

// String names the category, suitable for a log line or an API response
// field.
func (c Category) String() string {
	switch c {
	case CategoryRequest:
		return "request"
	case CategoryCompile:
		return "compile"
	case CategoryParse:
		return "parse"
	case CategoryCache:
		return "cache"
	case CategoryAuth:
		return "auth"
	default:
		return "none"
	}
}

var (
	ErrPermissions   = errors.New("you don't have permission to do that")
	ErrBadArgument   = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal = errors.New("malformed data in request")
	ErrCompile       = errors.New("the pattern could not be compiled")
	ErrParse         = errors.New("the pattern could not be parsed")
	ErrCache         = errors.New("an error occurred with the pattern cache")
)

// categoryOf reports the Category implied by one of the package's sentinel
// errors, or CategoryNone if cause isn't one of them.
func categoryOf(cause error) Category {
	switch cause {
	case ErrBadArgument, ErrBodyUnmarshal:
		return CategoryRequest
	case ErrCompile:
		return CategoryCompile
	case ErrParse:
		return CategoryParse
	case ErrCache:
		return CategoryCache
	case ErrPermissions:
		return CategoryAuth
	default:
		return CategoryNone
	}
}

// Error is a typed error returned by certain functions in the demo server
// as their error value. It contains both a message explaining what happened as
// well as one or more error values it considers to be its causes. Error is
// compatible with the use of errors.Is() - calling errors.Is on some Error
// value err along with any value of error it holds as one of its causes will
// return true. This allows for easy examination and failure condition checking
// without needing to resort to manual typecasting.
//
// If Error has at least one cause defined, the result of calling Error.Error()
// will be its primary message with the result of calling Error() on its first
// cause appended to it.
//
// Error should not be used directly; call New, or one of the WrapXxx
// functions, to create one.
type Error struct {
	msg      string
	cause    []error
	category Category
}

// Error returns the message defined for the Error. If a message was defined for
// it when created, that message is returned, concatenated with the result of
// calling Error() on the its first cause if one is defined. If no message or an
// empty message was defined for it when created, but there is at least one
// cause defined for it, the result of calling Error() on the first cause is
// returned. If no message is defined and no causes are defined, returns the
// empty string.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Category reports which pipeline stage raised the Error.
func (e Error) Category() Category {
	return e.category
}

// Unwrap returns the causes of Error. The return value will be nil if no causes
// were defined for it.
//
// This function is for interaction with the errors API. It will only be used in
// Go version 1.20 and later; 1.19 will default to use of Error.Is when calling
// errors.Is on the Error.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error either Is itself the given target error, or one of
// its causes is.
//
// This function is for interaction with the errors API.
func (e Error) Is(target error) bool {
	// is the target error itself?
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg {
			if len(e.cause) == len(errTarget.cause) {
				allCausesEqual := true
				for i := range e.cause {
					if e.cause[i] != errTarget.cause[i] {
						allCausesEqual = false
						break
					}
				}
				if allCausesEqual {
					return true
				}
			}
		}
	}

	// otherwise, check if any cause equals target
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapCache creates a new CategoryCache Error that wraps the given error as
// a cause and automatically adds ErrCache as another cause. A user-set
// message may be provided if desired with msg, but it may be left as "".
func WrapCache(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrCache}, category: CategoryCache}
}

// WrapCompile creates a new CategoryCompile Error wrapping err (a failure
// from the regex/grammar compiler), automatically adding ErrCompile as
// another cause.
func WrapCompile(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrCompile}, category: CategoryCompile}
}

// WrapParse creates a new CategoryParse Error wrapping err (a failure
// producing a pattern's parse tree), automatically adding ErrParse as
// another cause.
func WrapParse(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrParse}, category: CategoryParse}
}

// New creates a new Error with the given message, along with any errors it
// should wrap as its causes. Providing cause errors is not required, but will
// cause it to return true when it is checked against that error via a call to
// errors.Is. The Error's Category is inferred from the first cause that
// matches one of this package's sentinel errors.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
		for _, c := range err.cause {
			if cat := categoryOf(c); cat != CategoryNone {
				err.category = cat
				break
			}
		}
	}
	return err
}
