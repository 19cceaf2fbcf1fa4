package builtins

import (
	"metaobj/pkg/vm"
)

// maxElementsFromArrayLike bounds the copy made when a view is built from
// an array-like object.
const maxElementsFromArrayLike = 1 << 27

// TypedArrayInitializer installs %TypedArray% and one constructor per
// element kind.
type TypedArrayInitializer struct{}

func (t *TypedArrayInitializer) Name() string {
	return "TypedArray"
}

func (t *TypedArrayInitializer) Priority() int {
	return PriorityTypedArray
}

func (t *TypedArrayInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	baseProto := r.TypedArrayPrototype

	abstract := func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.NewTypeError(vm.MsgAbstractTypedArray)
	}
	base := r.NewNativeConstructor(0, "TypedArray", abstract, abstract)
	linkConstructor(base, baseProto)
	t.initPrototype(r, baseProto)

	for _, kind := range vm.TypedArrayKinds() {
		ctor := t.kindConstructor(r, kind)
		ctor.SetPrototypeDirect(base)
		if err := ctx.DefineGlobal(kind.Name(), ctor.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (t *TypedArrayInitializer) initPrototype(r *vm.Realm, proto *vm.Object) {
	thisView := func(call vm.FunctionCall, name string) (*vm.TypedArray, error) {
		if ta, ok := vm.TypedArrayOf(call.This.AsObject()); ok {
			return ta, nil
		}
		return nil, r.NewTypeError(vm.MsgIncompatibleReceiver, "%TypedArray%.prototype."+name, call.This.Inspect())
	}

	getter(r, proto, vm.NewStringKey("buffer"), func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "buffer")
		if err != nil {
			return vm.Undefined, err
		}
		return ta.Buffer().Value(), nil
	})
	getter(r, proto, vm.NewStringKey("byteLength"), func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "byteLength")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntValue(ta.ByteLength()), nil
	})
	getter(r, proto, vm.NewStringKey("byteOffset"), func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "byteOffset")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntValue(ta.ByteOffset()), nil
	})
	getter(r, proto, lengthKey, func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "length")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntValue(ta.Length()), nil
	})
	getter(r, proto, vm.NewSymbolKey(vm.SymbolToStringTag), func(call vm.FunctionCall) (vm.Value, error) {
		if ta, ok := vm.TypedArrayOf(call.This.AsObject()); ok {
			return vm.NewString(ta.Kind().Name()), nil
		}
		return vm.Undefined, nil
	})

	method(r, proto, "at", 1, func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "at")
		if err != nil {
			return vm.Undefined, err
		}
		if ta.IsOutOfBounds() {
			return vm.Undefined, r.NewTypeError(vm.MsgTypedArrayOutOfBounds)
		}
		rel, err := r.ToIntegerOrInfinity(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		n := float64(ta.Length())
		if rel < 0 {
			rel += n
		}
		if rel < 0 || rel >= n {
			return vm.Undefined, nil
		}
		return r.Get(call.This.AsObject(), indexKey(int(rel)))
	})

	method(r, proto, "fill", 1, func(call vm.FunctionCall) (vm.Value, error) {
		ta, err := thisView(call, "fill")
		if err != nil {
			return vm.Undefined, err
		}
		if ta.IsOutOfBounds() {
			return vm.Undefined, r.NewTypeError(vm.MsgTypedArrayOutOfBounds)
		}
		length := ta.Length()
		num, err := r.ToNumber(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		first, err := relativeIndex(r, call.Argument(1), length, 0)
		if err != nil {
			return vm.Undefined, err
		}
		final, err := relativeIndex(r, call.Argument(2), length, length)
		if err != nil {
			return vm.Undefined, err
		}
		if ta.IsOutOfBounds() {
			return vm.Undefined, r.NewTypeError(vm.MsgTypedArrayOutOfBounds)
		}
		final = min(final, ta.Length())
		for i := first; i < final; i++ {
			ta.SetElement(i, num)
		}
		return call.This, nil
	})
}

func (t *TypedArrayInitializer) kindConstructor(r *vm.Realm, kind vm.TypedArrayKind) *vm.Object {
	name := kind.Name()
	proto := r.TypedArrayPrototypeFor(kind)
	ctor := r.NewNativeConstructor(3, name, func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.NewTypeError(vm.MsgConstructorWithoutNew, name)
	}, func(call vm.FunctionCall) (vm.Value, error) {
		p, err := vm.GetPrototypeFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.TypedArrayPrototypeFor(kind) })
		if err != nil {
			return vm.Undefined, err
		}
		obj, err := constructTypedArray(r, kind, p, call.Arguments)
		if err != nil {
			return vm.Undefined, err
		}
		return obj.Value(), nil
	})
	linkConstructor(ctor, proto)

	bpe := vm.IntValue(kind.BytesPerElement())
	constant(ctor, vm.NewStringKey("BYTES_PER_ELEMENT"), bpe)
	constant(proto, vm.NewStringKey("BYTES_PER_ELEMENT"), bpe)
	return ctor
}

func constructTypedArray(r *vm.Realm, kind vm.TypedArrayKind, proto *vm.Object, args []vm.Value) (*vm.Object, error) {
	first := vm.Undefined
	if len(args) > 0 {
		first = args[0]
	}
	src := first.AsObject()
	if src == nil {
		n, err := r.ToIndex(first)
		if err != nil {
			return nil, err
		}
		return r.AllocateTypedArray(kind, proto, n)
	}

	if _, ok := vm.ArrayBufferOf(src); ok {
		offset, length := vm.Undefined, vm.Undefined
		if len(args) > 1 {
			offset = args[1]
		}
		if len(args) > 2 {
			length = args[2]
		}
		return r.InitializeTypedArrayFromArrayBuffer(kind, proto, src, offset, length)
	}

	var values []vm.Value
	if srcView, ok := vm.TypedArrayOf(src); ok {
		if srcView.IsOutOfBounds() {
			return nil, r.NewTypeError(vm.MsgTypedArrayOutOfBounds)
		}
		values = make([]vm.Value, srcView.Length())
		for i := range values {
			values[i] = srcView.GetElement(i)
		}
	} else {
		n, err := r.LengthOfArrayLike(src)
		if err != nil {
			return nil, err
		}
		if n > maxElementsFromArrayLike {
			return nil, r.NewRangeError(vm.MsgInvalidTypedArrayLength, vm.IntValue(n).String())
		}
		values = make([]vm.Value, n)
		for i := range values {
			if values[i], err = r.Get(src, indexKey(i)); err != nil {
				return nil, err
			}
		}
	}

	obj, err := r.AllocateTypedArray(kind, proto, len(values))
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := r.SetValue(obj, indexKey(i), v, true); err != nil {
			return nil, err
		}
	}
	return obj, nil
}
