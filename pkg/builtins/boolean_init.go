package builtins

import (
	"metaobj/pkg/vm"
)

type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string {
	return "Boolean"
}

func (b *BooleanInitializer) Priority() int {
	return PriorityBoolean
}

func (b *BooleanInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.BooleanPrototype

	ctor := r.NewNativeConstructor(1, "Boolean", func(call vm.FunctionCall) (vm.Value, error) {
		return vm.BooleanValue(call.Argument(0).ToBoolean()), nil
	}, func(call vm.FunctionCall) (vm.Value, error) {
		p, err := vm.GetPrototypeFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.BooleanPrototype })
		if err != nil {
			return vm.Undefined, err
		}
		return r.NewPrimitiveWrapper(vm.BooleanValue(call.Argument(0).ToBoolean()), p).Value(), nil
	})
	linkConstructor(ctor, proto)

	thisBoolean := func(call vm.FunctionCall, name string) (bool, error) {
		if call.This.IsBoolean() {
			return call.This.AsBoolean(), nil
		}
		if obj := call.This.AsObject(); obj != nil {
			if v, ok := obj.PrimitiveData(); ok && v.IsBoolean() {
				return v.AsBoolean(), nil
			}
		}
		return false, r.NewTypeError(vm.MsgIncompatibleReceiver, "Boolean.prototype."+name, call.This.Inspect())
	}

	method(r, proto, "valueOf", 0, func(call vm.FunctionCall) (vm.Value, error) {
		v, err := thisBoolean(call, "valueOf")
		return vm.BooleanValue(v), err
	})
	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		v, err := thisBoolean(call, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		if v {
			return vm.NewString("true"), nil
		}
		return vm.NewString("false"), nil
	})

	return ctx.DefineGlobal("Boolean", ctor.Value())
}
