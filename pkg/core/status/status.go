// Package status represents the core layer errors. It gives every
// status kind from the error taxonomy a typed Code, and wraps the
// underlying cause with an *Error so callers can both match a Code (via
// Of or errors.As) and get a conventional wrapped error chain.
package status

import "fmt"

// Code identifies one of the stable status kinds a public operation may
// return. Every Code has a human-readable name exposed by its String
// method (the spec's status_string).
type Code int

const (
	// OK indicates success. Most functions that succeed return a nil
	// error instead of an explicit OK status.
	OK Code = iota
	NoCanDo
	TooFewArguments
	InvalidArgument
	ContextInWrongState
	WrongContext
	DestroyedContext
	FatalContext
	BadContextObject
	InvalidContext
	NoMemory
	InternalError
	InsufficientResources
	Exists
	ConflictingSemver
	Conflict
	Exhausted
	MoldMissing
	WrongValueType
	NotExist
	RestrictionViolated
	ElementsInvalid
	NotSupported
	PluginError
	LoadError
	ConfigInvalid
	GroupMissing
	PermissionError
	FSError
	DefaultMissing
)

var names = map[Code]string{
	OK:                    "OK",
	NoCanDo:                "NO_CAN_DO",
	TooFewArguments:        "TOO_FEW_ARGUMENTS",
	InvalidArgument:        "INVALID_ARGUMENT",
	ContextInWrongState:    "CONTEXT_IN_WRONG_STATE",
	WrongContext:           "WRONG_CONTEXT",
	DestroyedContext:       "DESTROYED_CONTEXT",
	FatalContext:           "FATAL_CONTEXT",
	BadContextObject:       "BAD_CONTEXT_OBJECT",
	InvalidContext:         "INVALID_CONTEXT",
	NoMemory:               "NO_MEMORY",
	InternalError:          "INTERNAL_ERROR",
	InsufficientResources:  "INSUFFICIENT_RESOURCES",
	Exists:                 "EXISTS",
	ConflictingSemver:      "CONFLICTING_SEMVER",
	Conflict:               "CONFLICT",
	Exhausted:              "EXHAUSTED",
	MoldMissing:            "MOLD_MISSING",
	WrongValueType:         "WRONG_VALUE_TYPE",
	NotExist:               "NOT_EXIST",
	RestrictionViolated:    "RESTRICTION_VIOLATED",
	ElementsInvalid:        "ELEMENTS_INVALID",
	NotSupported:           "NOT_SUPPORTED",
	PluginError:            "PLUGIN_ERROR",
	LoadError:              "LOAD_ERROR",
	ConfigInvalid:          "CONFIG_INVALID",
	GroupMissing:           "GROUP_MISSING",
	PermissionError:        "PERMISSION_ERROR",
	FSError:                "FS_ERROR",
	DefaultMissing:         "DEFAULT_MISSING",
}

// String returns the stable, upper-snake-case name of c.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "UNKNOWN_STATUS"
}

// Error wraps an error with the Code that classifies it and, where
// relevant, the dotted query path or context name that was involved.
// It implements the error interface and Unwrap, so errors.As(err,
// &statusErr) works, along with normal %w wrapping. It has no Is method;
// a Code is matched with Of(err) == code.
type Error struct {
	Code Code
	Path string // optional: dotted query path or context name
	Err  error  // optional: underlying cause
}

// New creates an *Error for the given code with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// Wrap creates an *Error for the given code wrapping an existing error.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// WithPath returns a copy of e annotated with the given path.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Err.Error())
		}
		return fmt.Sprintf("[%s] %s", e.Code, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Err.Error())
	}
	return e.Code.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, status.SomeCode-wrapped-as-error) style
// comparisons to work against a bare Code value is not idiomatic, so
// instead callers should use Of(err) == code or errors.As plus
// comparing the Code field directly.

// Of extracts the Code from err if it is (or wraps) a *Error, and
// returns OK otherwise. This lets call sites write
// `if status.Of(err) == status.RestrictionViolated { ... }`.
func Of(err error) Code {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Code
	}
	return OK
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
