package builtins

import (
	"metaobj/pkg/vm"
)

// ReflectInitializer installs the Reflect namespace. Every function maps
// one-to-one onto an internal method of its target.
type ReflectInitializer struct{}

func (ri *ReflectInitializer) Name() string {
	return "Reflect"
}

func (ri *ReflectInitializer) Priority() int {
	return PriorityReflect
}

func (ri *ReflectInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	reflect := r.NewPlainObject()

	target := func(call vm.FunctionCall) (*vm.Object, error) {
		return requireObject(r, call.Argument(0))
	}
	targetAndKey := func(call vm.FunctionCall) (*vm.Object, vm.PropertyKey, error) {
		obj, err := target(call)
		if err != nil {
			return nil, vm.PropertyKey{}, err
		}
		key, err := r.ToPropertyKey(call.Argument(1))
		return obj, key, err
	}

	method(r, reflect, "apply", 3, func(call vm.FunctionCall) (vm.Value, error) {
		fn := call.Argument(0)
		if !fn.IsCallable() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAFunction, fn.Inspect())
		}
		args, err := r.CreateListFromArrayLike(call.Argument(2))
		if err != nil {
			return vm.Undefined, err
		}
		return r.Call(fn, call.Argument(1), args)
	})

	method(r, reflect, "construct", 2, func(call vm.FunctionCall) (vm.Value, error) {
		fn := call.Argument(0)
		if !fn.IsConstructor() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAConstructor, fn.Inspect())
		}
		newTarget := fn
		if len(call.Arguments) > 2 {
			newTarget = call.Arguments[2]
			if !newTarget.IsConstructor() {
				return vm.Undefined, r.NewTypeError(vm.MsgNotAConstructor, newTarget.Inspect())
			}
		}
		args, err := r.CreateListFromArrayLike(call.Argument(1))
		if err != nil {
			return vm.Undefined, err
		}
		obj, err := r.Construct(fn, args, newTarget)
		if err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})

	method(r, reflect, "defineProperty", 3, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		desc, err := r.ToPropertyDescriptor(call.Argument(2))
		if err != nil {
			return vm.Undefined, err
		}
		ok, err := obj.DefineOwnProperty(key, desc)
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "deleteProperty", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		ok, err := obj.Delete(key)
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "get", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		receiver := obj.Value()
		if len(call.Arguments) > 2 {
			receiver = call.Arguments[2]
		}
		return obj.Get(key, receiver)
	})

	method(r, reflect, "getOwnPropertyDescriptor", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		desc, has, err := obj.GetOwnProperty(key)
		if err != nil {
			return vm.Undefined, err
		}
		return r.FromPropertyDescriptor(desc, has), nil
	})

	method(r, reflect, "getPrototypeOf", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := target(call)
		if err != nil {
			return vm.Undefined, err
		}
		proto, err := obj.GetPrototypeOf()
		if err != nil {
			return vm.Undefined, err
		}
		return proto.Value(), nil
	})

	method(r, reflect, "has", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		ok, err := obj.HasProperty(key)
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "isExtensible", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := target(call)
		if err != nil {
			return vm.Undefined, err
		}
		ok, err := obj.IsExtensible()
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "ownKeys", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := target(call)
		if err != nil {
			return vm.Undefined, err
		}
		keys, err := obj.OwnPropertyKeys()
		if err != nil {
			return vm.Undefined, err
		}
		return r.NewArray(vm.KeysToValues(keys)...).Value(), nil
	})

	method(r, reflect, "preventExtensions", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := target(call)
		if err != nil {
			return vm.Undefined, err
		}
		ok, err := obj.PreventExtensions()
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "set", 3, func(call vm.FunctionCall) (vm.Value, error) {
		obj, key, err := targetAndKey(call)
		if err != nil {
			return vm.Undefined, err
		}
		receiver := obj.Value()
		if len(call.Arguments) > 3 {
			receiver = call.Arguments[3]
		}
		ok, err := obj.Set(key, call.Argument(2), receiver)
		return vm.BooleanValue(ok), err
	})

	method(r, reflect, "setPrototypeOf", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := target(call)
		if err != nil {
			return vm.Undefined, err
		}
		protoArg := call.Argument(1)
		if !protoArg.IsObject() && !protoArg.IsNull() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAnObjectOrNull, protoArg.Inspect())
		}
		ok, err := obj.SetPrototypeOf(protoArg.AsObject())
		return vm.BooleanValue(ok), err
	})

	toStringTag(reflect, "Reflect")

	return ctx.DefineGlobal("Reflect", reflect.Value())
}
