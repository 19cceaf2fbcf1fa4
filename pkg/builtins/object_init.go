package builtins

import (
	"metaobj/pkg/vm"
)

// ObjectInitializer implements the Object builtin
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject // Must be first (base prototype)
}

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.ObjectPrototype

	ctor := r.NewNativeConstructor(1, "Object", func(call vm.FunctionCall) (vm.Value, error) {
		v := call.Argument(0)
		if v.IsNullish() {
			return r.NewPlainObject().Value(), nil
		}
		obj, err := r.ToObject(v)
		if err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	}, func(call vm.FunctionCall) (vm.Value, error) {
		if call.NewTarget != call.Callee {
			obj, err := vm.OrdinaryCreateFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.ObjectPrototype })
			if err != nil {
				return vm.Undefined, err
			}
			return obj.Value(), nil
		}
		v := call.Argument(0)
		if v.IsNullish() {
			return r.NewPlainObject().Value(), nil
		}
		obj, err := r.ToObject(v)
		if err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})
	linkConstructor(ctor, proto)

	o.initPrototype(r, proto)
	o.initStatics(r, ctor)

	return ctx.DefineGlobal("Object", ctor.Value())
}

func (o *ObjectInitializer) initPrototype(r *vm.Realm, proto *vm.Object) {
	method(r, proto, "hasOwnProperty", 1, func(call vm.FunctionCall) (vm.Value, error) {
		key, err := r.ToPropertyKey(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		has, err := r.HasOwnProperty(obj, key)
		return vm.BooleanValue(has), err
	})

	method(r, proto, "propertyIsEnumerable", 1, func(call vm.FunctionCall) (vm.Value, error) {
		key, err := r.ToPropertyKey(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		desc, has, err := obj.GetOwnProperty(key)
		if err != nil || !has {
			return vm.False, err
		}
		return vm.BooleanValue(desc.Enumerable == vm.FlagTrue), nil
	})

	method(r, proto, "isPrototypeOf", 1, func(call vm.FunctionCall) (vm.Value, error) {
		v := call.Argument(0).AsObject()
		if v == nil {
			return vm.False, nil
		}
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		for {
			p, err := v.GetPrototypeOf()
			if err != nil {
				return vm.Undefined, err
			}
			if p == nil {
				return vm.False, nil
			}
			if p == obj {
				return vm.True, nil
			}
			v = p
		}
	})

	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		s, err := objectToString(r, call.This)
		return vm.NewString(s), err
	})

	method(r, proto, "valueOf", 0, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.This)
		if err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})
}

// objectToString is Object.prototype.toString. Array.prototype.toString
// falls back to it when join is not callable.
func objectToString(r *vm.Realm, this vm.Value) (string, error) {
	switch {
	case this.IsUndefined():
		return "[object Undefined]", nil
	case this.IsNull():
		return "[object Null]", nil
	}
	obj, err := r.ToObject(this)
	if err != nil {
		return "", err
	}
	isArray, err := r.IsArray(obj.Value())
	if err != nil {
		return "", err
	}
	builtinTag := "Object"
	switch {
	case isArray:
		builtinTag = "Array"
	case obj.Kind() == vm.KindArguments:
		builtinTag = "Arguments"
	case obj.IsCallable():
		builtinTag = "Function"
	case obj.Kind() == vm.KindString:
		builtinTag = "String"
	case obj.Class() == "Error", obj.Class() == "Boolean", obj.Class() == "Number":
		builtinTag = obj.Class()
	}
	tag, err := r.Get(obj, vm.NewSymbolKey(vm.SymbolToStringTag))
	if err != nil {
		return "", err
	}
	if tag.IsString() {
		builtinTag = tag.AsString()
	}
	return "[object " + builtinTag + "]", nil
}

func (o *ObjectInitializer) initStatics(r *vm.Realm, ctor *vm.Object) {
	method(r, ctor, "getPrototypeOf", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		p, err := obj.GetPrototypeOf()
		return p.Value(), err
	})

	method(r, ctor, "setPrototypeOf", 2, func(call vm.FunctionCall) (vm.Value, error) {
		v, protoArg := call.Argument(0), call.Argument(1)
		if err := requireObjectCoercible(r, v); err != nil {
			return vm.Undefined, err
		}
		if !protoArg.IsObject() && !protoArg.IsNull() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAnObjectOrNull, protoArg.Inspect())
		}
		obj := v.AsObject()
		if obj == nil {
			return v, nil
		}
		ok, err := obj.SetPrototypeOf(protoArg.AsObject())
		if err != nil {
			return vm.Undefined, err
		}
		if !ok {
			return vm.Undefined, r.NewTypeError(vm.MsgSetPrototypeOfFalse)
		}
		return v, nil
	})

	method(r, ctor, "create", 2, func(call vm.FunctionCall) (vm.Value, error) {
		protoArg := call.Argument(0)
		if !protoArg.IsObject() && !protoArg.IsNull() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAnObjectOrNull, protoArg.Inspect())
		}
		obj := r.NewObjectWithPrototype(protoArg.AsObject())
		if props := call.Argument(1); !props.IsUndefined() {
			if err := defineProperties(r, obj, props); err != nil {
				return vm.Undefined, err
			}
		}
		return obj.Value(), nil
	})

	method(r, ctor, "defineProperty", 3, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := requireObject(r, call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.ToPropertyKey(call.Argument(1))
		if err != nil {
			return vm.Undefined, err
		}
		desc, err := r.ToPropertyDescriptor(call.Argument(2))
		if err != nil {
			return vm.Undefined, err
		}
		if err := r.DefinePropertyOrThrow(obj, key, desc); err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})

	method(r, ctor, "defineProperties", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := requireObject(r, call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		if err := defineProperties(r, obj, call.Argument(1)); err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})

	method(r, ctor, "getOwnPropertyDescriptor", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.ToPropertyKey(call.Argument(1))
		if err != nil {
			return vm.Undefined, err
		}
		desc, has, err := obj.GetOwnProperty(key)
		if err != nil {
			return vm.Undefined, err
		}
		return r.FromPropertyDescriptor(desc, has), nil
	})

	method(r, ctor, "getOwnPropertyDescriptors", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		keys, err := obj.OwnPropertyKeys()
		if err != nil {
			return vm.Undefined, err
		}
		result := r.NewPlainObject()
		for _, key := range keys {
			desc, has, err := obj.GetOwnProperty(key)
			if err != nil {
				return vm.Undefined, err
			}
			if !has {
				continue
			}
			if _, err := r.CreateDataProperty(result, key, r.FromPropertyDescriptor(desc, true)); err != nil {
				return vm.Undefined, err
			}
		}
		return result.Value(), nil
	})

	ownKeysOf := func(symbols bool) vm.NativeFunction {
		return func(call vm.FunctionCall) (vm.Value, error) {
			obj, err := r.ToObject(call.Argument(0))
			if err != nil {
				return vm.Undefined, err
			}
			keys, err := obj.OwnPropertyKeys()
			if err != nil {
				return vm.Undefined, err
			}
			var list []vm.Value
			for _, key := range keys {
				if key.IsSymbol() == symbols {
					list = append(list, key.Value())
				}
			}
			return r.NewArray(list...).Value(), nil
		}
	}
	method(r, ctor, "getOwnPropertyNames", 1, ownKeysOf(false))
	method(r, ctor, "getOwnPropertySymbols", 1, ownKeysOf(true))

	enumerable := func(kind vm.EnumerableKind) vm.NativeFunction {
		return func(call vm.FunctionCall) (vm.Value, error) {
			obj, err := r.ToObject(call.Argument(0))
			if err != nil {
				return vm.Undefined, err
			}
			list, err := r.EnumerableOwnProperties(obj, kind)
			if err != nil {
				return vm.Undefined, err
			}
			return r.NewArray(list...).Value(), nil
		}
	}
	method(r, ctor, "keys", 1, enumerable(vm.EnumerateKeys))
	method(r, ctor, "values", 1, enumerable(vm.EnumerateValues))
	method(r, ctor, "entries", 1, enumerable(vm.EnumerateEntries))

	method(r, ctor, "preventExtensions", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj := call.Argument(0).AsObject()
		if obj == nil {
			return call.Argument(0), nil
		}
		ok, err := obj.PreventExtensions()
		if err != nil {
			return vm.Undefined, err
		}
		if !ok {
			return vm.Undefined, r.NewTypeError(vm.MsgPreventExtensionsFalse)
		}
		return obj.Value(), nil
	})

	method(r, ctor, "isExtensible", 1, func(call vm.FunctionCall) (vm.Value, error) {
		obj := call.Argument(0).AsObject()
		if obj == nil {
			return vm.False, nil
		}
		ok, err := obj.IsExtensible()
		return vm.BooleanValue(ok), err
	})

	integrity := func(level vm.IntegrityLevel, failure string) vm.NativeFunction {
		return func(call vm.FunctionCall) (vm.Value, error) {
			obj := call.Argument(0).AsObject()
			if obj == nil {
				return call.Argument(0), nil
			}
			ok, err := r.SetIntegrityLevel(obj, level)
			if err != nil {
				return vm.Undefined, err
			}
			if !ok {
				return vm.Undefined, r.NewTypeError("%s", failure)
			}
			return obj.Value(), nil
		}
	}
	method(r, ctor, "freeze", 1, integrity(vm.IntegrityFrozen, vm.MsgObjectFreezeFailed))
	method(r, ctor, "seal", 1, integrity(vm.IntegritySealed, vm.MsgObjectSealFailed))

	testIntegrity := func(level vm.IntegrityLevel) vm.NativeFunction {
		return func(call vm.FunctionCall) (vm.Value, error) {
			obj := call.Argument(0).AsObject()
			if obj == nil {
				return vm.True, nil
			}
			ok, err := r.TestIntegrityLevel(obj, level)
			return vm.BooleanValue(ok), err
		}
	}
	method(r, ctor, "isFrozen", 1, testIntegrity(vm.IntegrityFrozen))
	method(r, ctor, "isSealed", 1, testIntegrity(vm.IntegritySealed))

	method(r, ctor, "hasOwn", 2, func(call vm.FunctionCall) (vm.Value, error) {
		obj, err := r.ToObject(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.ToPropertyKey(call.Argument(1))
		if err != nil {
			return vm.Undefined, err
		}
		has, err := r.HasOwnProperty(obj, key)
		return vm.BooleanValue(has), err
	})

	method(r, ctor, "assign", 2, func(call vm.FunctionCall) (vm.Value, error) {
		to, err := r.ToObject(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		for _, src := range call.Arguments[min(1, len(call.Arguments)):] {
			if src.IsNullish() {
				continue
			}
			from, err := r.ToObject(src)
			if err != nil {
				return vm.Undefined, err
			}
			keys, err := from.OwnPropertyKeys()
			if err != nil {
				return vm.Undefined, err
			}
			for _, key := range keys {
				desc, has, err := from.GetOwnProperty(key)
				if err != nil {
					return vm.Undefined, err
				}
				if !has || desc.Enumerable != vm.FlagTrue {
					continue
				}
				v, err := r.Get(from, key)
				if err != nil {
					return vm.Undefined, err
				}
				if err := r.SetValue(to, key, v, true); err != nil {
					return vm.Undefined, err
				}
			}
		}
		return to.Value(), nil
	})

	method(r, ctor, "is", 2, func(call vm.FunctionCall) (vm.Value, error) {
		return vm.BooleanValue(vm.SameValue(call.Argument(0), call.Argument(1))), nil
	})
}

// defineProperties reads every descriptor before defining any of them.
func defineProperties(r *vm.Realm, obj *vm.Object, properties vm.Value) error {
	props, err := r.ToObject(properties)
	if err != nil {
		return err
	}
	keys, err := props.OwnPropertyKeys()
	if err != nil {
		return err
	}
	type pending struct {
		key  vm.PropertyKey
		desc vm.PropertyDescriptor
	}
	var descriptors []pending
	for _, key := range keys {
		propDesc, has, err := props.GetOwnProperty(key)
		if err != nil {
			return err
		}
		if !has || propDesc.Enumerable != vm.FlagTrue {
			continue
		}
		descObj, err := r.Get(props, key)
		if err != nil {
			return err
		}
		desc, err := r.ToPropertyDescriptor(descObj)
		if err != nil {
			return err
		}
		descriptors = append(descriptors, pending{key, desc})
	}
	for _, p := range descriptors {
		if err := r.DefinePropertyOrThrow(obj, p.key, p.desc); err != nil {
			return err
		}
	}
	return nil
}
