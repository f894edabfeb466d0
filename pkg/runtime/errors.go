package runtime

import (
	"errors"
	"fmt"
)

// ErrorCode tags each failure kind so callers can distinguish them without
// parsing messages.
type ErrorCode string

const (
	CodeUnboundIdentifier   ErrorCode = "unbound_identifier"
	CodeNoReceiver          ErrorCode = "no_receiver"
	CodeUnknownParent       ErrorCode = "unknown_parent"
	CodeDuplicateDefinition ErrorCode = "duplicate_definition"
	CodeUnknownClass        ErrorCode = "unknown_class"
	CodeNotCallable         ErrorCode = "not_callable"
	CodeArityMismatch       ErrorCode = "arity_mismatch"
	CodeTypeMismatch        ErrorCode = "type_mismatch"
)

// Error is a runtime-resolution or structural failure. All are fatal to the
// enclosing evaluation; the outer driver decides how to surface them.
type Error struct {
	Code   ErrorCode
	Name   string // identifier involved, when any
	Class  string // class name involved, when any
	Mode   string // qualifier mode involved, when any
	Detail string
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeUnboundIdentifier:
		msg := fmt.Sprintf("unbound identifier '%s'", e.Name)
		if e.Mode != "" {
			msg += fmt.Sprintf(" (via %s)", e.Mode)
		}
		if e.Class != "" {
			msg += fmt.Sprintf(" in class %s", e.Class)
		}
		return msg
	case CodeNoReceiver:
		return fmt.Sprintf("'%s' used via %s where no receiver exists (static context)", e.Name, e.Mode)
	case CodeUnknownParent:
		return fmt.Sprintf("class %s extends unknown class '%s'", e.Class, e.Name)
	case CodeDuplicateDefinition:
		return fmt.Sprintf("class '%s' is already defined", e.Class)
	case CodeUnknownClass:
		return fmt.Sprintf("unknown class '%s'", e.Class)
	case CodeNotCallable:
		return fmt.Sprintf("%s is not callable", e.Detail)
	case CodeArityMismatch:
		return fmt.Sprintf("'%s' %s", e.Name, e.Detail)
	case CodeTypeMismatch:
		return e.Detail
	default:
		return e.Detail
	}
}

func Unbound(name, mode string) *Error {
	return &Error{Code: CodeUnboundIdentifier, Name: name, Mode: mode}
}

func UnboundIn(name, mode, class string) *Error {
	return &Error{Code: CodeUnboundIdentifier, Name: name, Mode: mode, Class: class}
}

func NoReceiver(name, mode string) *Error {
	return &Error{Code: CodeNoReceiver, Name: name, Mode: mode}
}

func UnknownParent(class, parent string) *Error {
	return &Error{Code: CodeUnknownParent, Class: class, Name: parent}
}

func DuplicateDefinition(class string) *Error {
	return &Error{Code: CodeDuplicateDefinition, Class: class}
}

func UnknownClass(name string) *Error {
	return &Error{Code: CodeUnknownClass, Class: name}
}

func NotCallable(what string) *Error {
	return &Error{Code: CodeNotCallable, Detail: what}
}

func ArityMismatch(name string, want, got int) *Error {
	return &Error{
		Code:   CodeArityMismatch,
		Name:   name,
		Detail: fmt.Sprintf("expects %d argument(s), got %d", want, got),
	}
}

func TypeMismatch(detail string) *Error {
	return &Error{Code: CodeTypeMismatch, Detail: detail}
}

// CodeOf extracts the tag from an error, or "" when it is not a runtime
// Error.
func CodeOf(err error) ErrorCode {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ""
}
