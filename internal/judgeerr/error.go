package judgeerr

import (
	"fmt"
	"runtime"
	"strings"
)

// Error is the structured error type returned by judge-core operations whose
// failure reason a caller needs to branch on (CompileError vs SystemError vs
// a plain I/O error a case handler can retry).
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Err     error
	Stack   string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the code's default message.
func New(code Code) *Error {
	return &Error{Code: code, Message: code.Message(), Stack: getStack(2)}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Stack: getStack(2)}
}

// Wrap wraps err with code, preserving err for errors.Is/As via Unwrap.
func Wrap(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		e.Code = code
		return e
	}
	return &Error{Code: code, Message: err.Error(), Err: err, Stack: getStack(2)}
}

// Wrapf wraps err with code and a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err, Stack: getStack(2)}
}

// WithDetail attaches a key/value pair of diagnostic context.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the Code from any error, defaulting to Internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

func getStack(skip int) string {
	const maxDepth = 10
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.Function, "runtime.") {
			if !more {
				break
			}
			continue
		}
		fmt.Fprintf(&b, "\n\t%s:%d %s", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}
