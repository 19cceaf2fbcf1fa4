package builtins

import (
	"metaobj/pkg/vm"
)

type StringInitializer struct{}

func (s *StringInitializer) Name() string {
	return "String"
}

func (s *StringInitializer) Priority() int {
	return PriorityString
}

func (s *StringInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.StringPrototype

	value := func(call vm.FunctionCall) (string, error) {
		if len(call.Arguments) == 0 {
			return "", nil
		}
		v := call.Arguments[0]
		if v.IsSymbol() && call.NewTarget == nil {
			return v.AsSymbol().String(), nil
		}
		return r.ToString(v)
	}
	ctor := r.NewNativeConstructor(1, "String", func(call vm.FunctionCall) (vm.Value, error) {
		str, err := value(call)
		return vm.NewString(str), err
	}, func(call vm.FunctionCall) (vm.Value, error) {
		str, err := value(call)
		if err != nil {
			return vm.Undefined, err
		}
		p, err := vm.GetPrototypeFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.StringPrototype })
		if err != nil {
			return vm.Undefined, err
		}
		return r.NewStringObject(str, p).Value(), nil
	})
	linkConstructor(ctor, proto)

	thisString := func(call vm.FunctionCall, name string) (vm.Value, error) {
		if call.This.IsString() {
			return call.This, nil
		}
		if obj := call.This.AsObject(); obj != nil {
			if str, ok := obj.StringData(); ok {
				return vm.NewString(str), nil
			}
		}
		return vm.Undefined, r.NewTypeError(vm.MsgIncompatibleReceiver, "String.prototype."+name, call.This.Inspect())
	}
	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		return thisString(call, "toString")
	})
	method(r, proto, "valueOf", 0, func(call vm.FunctionCall) (vm.Value, error) {
		return thisString(call, "valueOf")
	})

	return ctx.DefineGlobal("String", ctor.Value())
}
