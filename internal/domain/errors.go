package domain

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the result variant every layer returns on failure.
// Field is set for conflicts (employee_id / email) and field-level validation.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for any not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" || t.Field != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrStorage    = &Error{Kind: KindStorage}
)

func Validation(field, msg string) error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func Conflict(field, msg string, err error) error {
	return &Error{Kind: KindConflict, Field: field, Msg: msg, Err: err}
}

func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}

// KindOf reports the variant of err. Anything unclassified is storage.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}
