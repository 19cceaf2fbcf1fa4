package builtins

import (
	"strings"

	"metaobj/pkg/vm"
)

const maxSafeInteger = 1<<53 - 1

var lengthKey = vm.NewStringKey("length")

type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string {
	return "Array"
}

func (a *ArrayInitializer) Priority() int {
	return PriorityArray
}

func (a *ArrayInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.ArrayPrototype

	construct := func(call vm.FunctionCall) (vm.Value, error) {
		p, err := vm.GetPrototypeFromConstructor(newTargetOr(call), func(r *vm.Realm) *vm.Object { return r.ArrayPrototype })
		if err != nil {
			return vm.Undefined, err
		}
		return arrayConstruct(r, call.Arguments, p)
	}
	ctor := r.NewNativeConstructor(1, "Array", construct, construct)
	linkConstructor(ctor, proto)

	method(r, ctor, "isArray", 1, func(call vm.FunctionCall) (vm.Value, error) {
		ok, err := r.IsArray(call.Argument(0))
		return vm.BooleanValue(ok), err
	})

	method(r, ctor, "of", 0, func(call vm.FunctionCall) (vm.Value, error) {
		n := len(call.Arguments)
		var arr *vm.Object
		var err error
		if c := call.This.AsObject(); c != nil && c.IsConstructor() {
			arr, err = c.Construct([]vm.Value{vm.IntValue(n)}, c)
		} else {
			arr, err = r.ArrayCreate(float64(n), nil)
		}
		if err != nil {
			return vm.Undefined, err
		}
		for i, v := range call.Arguments {
			if err := r.CreateDataPropertyOrThrow(arr, indexKey(i), v); err != nil {
				return vm.Undefined, err
			}
		}
		if err := r.SetValue(arr, lengthKey, vm.IntValue(n), true); err != nil {
			return vm.Undefined, err
		}
		return arr.Value(), nil
	})

	method(r, proto, "push", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		n, err := r.LengthOfArrayLike(obj)
		if err != nil {
			return vm.Undefined, err
		}
		if n+len(call.Arguments) > maxSafeInteger {
			return vm.Undefined, r.NewTypeError(vm.MsgArrayMaxSize)
		}
		for _, v := range call.Arguments {
			if err := r.SetValue(obj, indexKey(n), v, true); err != nil {
				return vm.Undefined, err
			}
			n++
		}
		if err := r.SetValue(obj, lengthKey, vm.IntValue(n), true); err != nil {
			return vm.Undefined, err
		}
		return vm.IntValue(n), nil
	})

	method(r, proto, "pop", 0, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		n, err := r.LengthOfArrayLike(obj)
		if err != nil {
			return vm.Undefined, err
		}
		if n == 0 {
			return vm.Undefined, r.SetValue(obj, lengthKey, vm.IntValue(0), true)
		}
		key := indexKey(n - 1)
		element, err := r.Get(obj, key)
		if err != nil {
			return vm.Undefined, err
		}
		if err := r.DeletePropertyOrThrow(obj, key); err != nil {
			return vm.Undefined, err
		}
		if err := r.SetValue(obj, lengthKey, vm.IntValue(n-1), true); err != nil {
			return vm.Undefined, err
		}
		return element, nil
	})

	method(r, proto, "join", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		s, err := arrayJoin(r, obj, call.Argument(0))
		return vm.NewString(s), err
	})

	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		join, err := r.Get(obj, vm.NewStringKey("join"))
		if err != nil {
			return vm.Undefined, err
		}
		if !join.IsCallable() {
			s, err := objectToString(r, obj.Value())
			return vm.NewString(s), err
		}
		return join.AsObject().Call(obj.Value(), nil)
	})

	return ctx.DefineGlobal("Array", ctor.Value())
}

func arrayConstruct(r *vm.Realm, args []vm.Value, proto *vm.Object) (vm.Value, error) {
	switch len(args) {
	case 0:
		arr, err := r.ArrayCreate(0, proto)
		if err != nil {
			return vm.Undefined, err
		}
		return arr.Value(), nil
	case 1:
		length := args[0]
		if !length.IsNumber() {
			arr, err := r.ArrayCreate(0, proto)
			if err != nil {
				return vm.Undefined, err
			}
			if err := r.CreateDataPropertyOrThrow(arr, vm.NewIndexKey(0), length); err != nil {
				return vm.Undefined, err
			}
			return arr.Value(), nil
		}
		n := length.AsNumber()
		u, _ := r.ToUint32(length)
		if float64(u) != n {
			return vm.Undefined, r.NewRangeError(vm.MsgInvalidArrayLength)
		}
		arr, err := r.ArrayCreate(n, proto)
		if err != nil {
			return vm.Undefined, err
		}
		return arr.Value(), nil
	}
	arr, err := r.ArrayCreate(float64(len(args)), proto)
	if err != nil {
		return vm.Undefined, err
	}
	for i, v := range args {
		if err := r.CreateDataPropertyOrThrow(arr, indexKey(i), v); err != nil {
			return vm.Undefined, err
		}
	}
	return arr.Value(), nil
}

func arrayJoin(r *vm.Realm, obj *vm.Object, separator vm.Value) (string, error) {
	n, err := r.LengthOfArrayLike(obj)
	if err != nil {
		return "", err
	}
	sep := ","
	if !separator.IsUndefined() {
		if sep, err = r.ToString(separator); err != nil {
			return "", err
		}
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(sep)
		}
		element, err := r.Get(obj, indexKey(i))
		if err != nil {
			return "", err
		}
		if element.IsNullish() {
			continue
		}
		s, err := r.ToString(element)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}
