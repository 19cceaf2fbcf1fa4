package vm

import (
	"errors"
	"fmt"
)

// ErrorKind names the intrinsic error constructor an exception was built from.
type ErrorKind uint8

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindError
	ErrorKindTypeError
	ErrorKindRangeError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindError:
		return "Error"
	case ErrorKindTypeError:
		return "TypeError"
	case ErrorKindRangeError:
		return "RangeError"
	}
	return ""
}

// Exception is a thrown language value travelling as a Go error.
type Exception struct {
	value   Value
	kind    ErrorKind
	message string
}

// Throw wraps an arbitrary value thrown by user code. Error objects keep
// their classification so rethrown TypeErrors are still TypeErrors.
func Throw(v Value) *Exception {
	ex := &Exception{value: v}
	if o := v.AsObject(); o != nil && o.class == "Error" {
		ex.kind = o.realm.classifyError(o)
		if p, ok := o.props.get(NewStringKey("message")); ok && !p.accessor {
			ex.message = p.value.String()
		}
	}
	return ex
}

func (e *Exception) Value() Value { return e.value }

func (e *Exception) Kind() ErrorKind { return e.kind }

// Name is the error constructor name, or "" for non-error throws.
func (e *Exception) Name() string { return e.kind.String() }

func (e *Exception) Message() string {
	if e.kind == ErrorKindNone {
		return e.value.String()
	}
	return e.message
}

func (e *Exception) Error() string {
	if e.kind == ErrorKindNone {
		return "Uncaught " + e.value.String()
	}
	return e.kind.String() + ": " + e.message
}

// AsException extracts the thrown value from err, if it carries one.
func AsException(err error) (*Exception, bool) {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex, true
	}
	return nil, false
}

func IsTypeError(err error) bool {
	ex, ok := AsException(err)
	return ok && ex.kind == ErrorKindTypeError
}

func IsRangeError(err error) bool {
	ex, ok := AsException(err)
	return ok && ex.kind == ErrorKindRangeError
}

// ErrorValue converts a Go error into the value a catch clause would see.
func (r *Realm) ErrorValue(err error) Value {
	if ex, ok := AsException(err); ok {
		return ex.value
	}
	return r.newErrorObject(r.ErrorPrototype, err.Error()).Value()
}

func (r *Realm) newErrorObject(proto *Object, message string) *Object {
	obj := newObject(r, KindOrdinary, "Error", proto, ordinaryMethods)
	obj.SetOwnNonEnumerable("message", NewString(message))
	return obj
}

func (r *Realm) newException(kind ErrorKind, proto *Object, format string, args ...any) *Exception {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Exception{
		value:   r.newErrorObject(proto, msg).Value(),
		kind:    kind,
		message: msg,
	}
}

func (r *Realm) NewError(format string, args ...any) *Exception {
	return r.newException(ErrorKindError, r.ErrorPrototype, format, args...)
}

func (r *Realm) NewTypeError(format string, args ...any) *Exception {
	return r.newException(ErrorKindTypeError, r.TypeErrorPrototype, format, args...)
}

func (r *Realm) NewRangeError(format string, args ...any) *Exception {
	return r.newException(ErrorKindRangeError, r.RangeErrorPrototype, format, args...)
}

// NewErrorFromObject builds an exception for an error object created by a
// script-visible constructor, so that Go callers can still classify it.
func NewErrorFromObject(kind ErrorKind, obj *Object, message string) *Exception {
	return &Exception{value: obj.Value(), kind: kind, message: message}
}
