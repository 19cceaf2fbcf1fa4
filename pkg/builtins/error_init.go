package builtins

import (
	"metaobj/pkg/vm"
)

// ErrorInitializer installs Error and the native error constructors the
// core throws: TypeError and RangeError.
type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string {
	return "Error"
}

func (e *ErrorInitializer) Priority() int {
	return PriorityError
}

func (e *ErrorInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm

	errorCtor := e.errorConstructor(r, "Error", r.ErrorPrototype, func(r *vm.Realm) *vm.Object { return r.ErrorPrototype })
	method(r, r.ErrorPrototype, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := requireObject(r, call.This)
		if err != nil {
			return vm.Undefined, err
		}
		name, err := stringProperty(r, obj, "name", "Error")
		if err != nil {
			return vm.Undefined, err
		}
		msg, err := stringProperty(r, obj, "message", "")
		if err != nil {
			return vm.Undefined, err
		}
		switch {
		case name == "":
			return vm.NewString(msg), nil
		case msg == "":
			return vm.NewString(name), nil
		}
		return vm.NewString(name + ": " + msg), nil
	})
	if err := ctx.DefineGlobal("Error", errorCtor.Value()); err != nil {
		return err
	}

	typeErrorCtor := e.errorConstructor(r, "TypeError", r.TypeErrorPrototype, func(r *vm.Realm) *vm.Object { return r.TypeErrorPrototype })
	typeErrorCtor.SetPrototypeDirect(errorCtor)
	if err := ctx.DefineGlobal("TypeError", typeErrorCtor.Value()); err != nil {
		return err
	}

	rangeErrorCtor := e.errorConstructor(r, "RangeError", r.RangeErrorPrototype, func(r *vm.Realm) *vm.Object { return r.RangeErrorPrototype })
	rangeErrorCtor.SetPrototypeDirect(errorCtor)
	return ctx.DefineGlobal("RangeError", rangeErrorCtor.Value())
}

func (e *ErrorInitializer) errorConstructor(r *vm.Realm, name string, proto *vm.Object, intrinsic func(r *vm.Realm) *vm.Object) *vm.Object {
	construct := func(call vm.FunctionCall) (vm.Value, error) {
		p, err := vm.GetPrototypeFromConstructor(newTargetOr(call), intrinsic)
		if err != nil {
			return vm.Undefined, err
		}
		obj := r.NewErrorObject(p)
		if msg := call.Argument(0); !msg.IsUndefined() {
			s, err := r.ToString(msg)
			if err != nil {
				return vm.Undefined, err
			}
			obj.SetOwnNonEnumerable("message", vm.NewString(s))
		}
		if options := call.Argument(1).AsObject(); options != nil {
			causeKey := vm.NewStringKey("cause")
			has, err := options.HasProperty(causeKey)
			if err != nil {
				return vm.Undefined, err
			}
			if has {
				cause, err := r.Get(options, causeKey)
				if err != nil {
					return vm.Undefined, err
				}
				obj.SetOwnNonEnumerable("cause", cause)
			}
		}
		return obj.Value(), nil
	}
	ctor := r.NewNativeConstructor(1, name, construct, construct)
	linkConstructor(ctor, proto)
	proto.SetOwnNonEnumerable("name", vm.NewString(name))
	proto.SetOwnNonEnumerable("message", vm.NewString(""))
	return ctor
}

// stringProperty reads obj[name] as a string, using dflt for undefined.
func stringProperty(r *vm.Realm, obj *vm.Object, name, dflt string) (string, error) {
	v, err := r.Get(obj, vm.NewStringKey(name))
	if err != nil {
		return "", err
	}
	if v.IsUndefined() {
		return dflt, nil
	}
	return r.ToString(v)
}
