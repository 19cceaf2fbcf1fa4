package builtins

import (
	"metaobj/pkg/vm"
)

type ArrayBufferInitializer struct{}

func (a *ArrayBufferInitializer) Name() string {
	return "ArrayBuffer"
}

func (a *ArrayBufferInitializer) Priority() int {
	return PriorityArrayBuffer // After basic types, before typed arrays
}

func (a *ArrayBufferInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.ArrayBufferPrototype

	ctor := r.NewNativeConstructor(1, "ArrayBuffer", func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.NewTypeError(vm.MsgConstructorWithoutNew, "ArrayBuffer")
	}, func(call vm.FunctionCall) (vm.Value, error) {
		byteLength, err := r.ToIndex(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		maxByteLength := -1
		if options := call.Argument(1).AsObject(); options != nil {
			maxVal, err := r.Get(options, vm.NewStringKey("maxByteLength"))
			if err != nil {
				return vm.Undefined, err
			}
			if !maxVal.IsUndefined() {
				if maxByteLength, err = r.ToIndex(maxVal); err != nil {
					return vm.Undefined, err
				}
			}
		}
		p, err := vm.GetPrototypeFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.ArrayBufferPrototype })
		if err != nil {
			return vm.Undefined, err
		}
		buf, err := r.AllocateArrayBuffer(p, byteLength, maxByteLength)
		if err != nil {
			return vm.Undefined, err
		}
		return buf.Value(), nil
	})
	linkConstructor(ctor, proto)

	method(r, ctor, "isView", 1, func(call vm.FunctionCall) (vm.Value, error) {
		_, ok := vm.TypedArrayOf(call.Argument(0).AsObject())
		return vm.BooleanValue(ok), nil
	})

	thisBuffer := func(call vm.FunctionCall, name string) (*vm.ArrayBuffer, error) {
		if buf, ok := vm.ArrayBufferOf(call.This.AsObject()); ok {
			return buf, nil
		}
		return nil, r.NewTypeError(vm.MsgIncompatibleReceiver, "ArrayBuffer.prototype."+name, call.This.Inspect())
	}

	getter(r, proto, vm.NewStringKey("byteLength"), func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "byteLength")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntValue(buf.ByteLength()), nil
	})
	getter(r, proto, vm.NewStringKey("maxByteLength"), func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "maxByteLength")
		if err != nil {
			return vm.Undefined, err
		}
		if buf.IsDetached() {
			return vm.IntValue(0), nil
		}
		return vm.IntValue(buf.MaxByteLength()), nil
	})
	getter(r, proto, vm.NewStringKey("resizable"), func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "resizable")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(buf.IsResizable()), nil
	})
	getter(r, proto, vm.NewStringKey("detached"), func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "detached")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(buf.IsDetached()), nil
	})

	method(r, proto, "resize", 1, func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "resize")
		if err != nil {
			return vm.Undefined, err
		}
		if !buf.IsResizable() {
			return vm.Undefined, r.NewTypeError(vm.MsgArrayBufferNotResizable)
		}
		n, err := r.ToIndex(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		if buf.IsDetached() {
			return vm.Undefined, r.NewTypeError(vm.MsgArrayBufferDetached)
		}
		if n > buf.MaxByteLength() {
			return vm.Undefined, r.NewRangeError(vm.MsgArrayBufferMaxLength)
		}
		buf.Resize(n)
		return vm.Undefined, nil
	})

	method(r, proto, "slice", 2, func(call vm.FunctionCall) (vm.Value, error) {
		buf, err := thisBuffer(call, "slice")
		if err != nil {
			return vm.Undefined, err
		}
		if buf.IsDetached() {
			return vm.Undefined, r.NewTypeError(vm.MsgArrayBufferDetached)
		}
		length := buf.ByteLength()
		first, err := relativeIndex(r, call.Argument(0), length, 0)
		if err != nil {
			return vm.Undefined, err
		}
		final, err := relativeIndex(r, call.Argument(1), length, length)
		if err != nil {
			return vm.Undefined, err
		}
		newLen := max(final-first, 0)
		dst, err := r.AllocateArrayBuffer(nil, newLen, -1)
		if err != nil {
			return vm.Undefined, err
		}
		if buf.IsDetached() {
			return vm.Undefined, r.NewTypeError(vm.MsgArrayBufferDetached)
		}
		// the source may have shrunk while the arguments were converted
		if cur := buf.ByteLength(); first < cur {
			dstBuf, _ := vm.ArrayBufferOf(dst)
			copy(dstBuf.Bytes(), buf.Bytes()[first:min(first+newLen, cur)])
		}
		return dst.Value(), nil
	})

	transfer := func(name string, preserve bool) vm.NativeFunction {
		return func(call vm.FunctionCall) (vm.Value, error) {
			if _, err := thisBuffer(call, name); err != nil {
				return vm.Undefined, err
			}
			dst, err := r.TransferArrayBuffer(call.This.AsObject(), call.Argument(0), preserve)
			if err != nil {
				return vm.Undefined, err
			}
			return dst.Value(), nil
		}
	}
	method(r, proto, "transfer", 0, transfer("transfer", true))
	method(r, proto, "transferToFixedLength", 0, transfer("transferToFixedLength", false))

	toStringTag(proto, "ArrayBuffer")

	return ctx.DefineGlobal("ArrayBuffer", ctor.Value())
}
