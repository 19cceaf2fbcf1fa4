package builtins

import (
	"math"
	"slices"

	"metaobj/pkg/vm"
)

const radixDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

type NumberInitializer struct{}

func (n *NumberInitializer) Name() string {
	return "Number"
}

func (n *NumberInitializer) Priority() int {
	return PriorityNumber
}

func (n *NumberInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.NumberPrototype

	value := func(call vm.FunctionCall) (float64, error) {
		if len(call.Arguments) == 0 {
			return 0, nil
		}
		return r.ToNumber(call.Arguments[0])
	}
	ctor := r.NewNativeConstructor(1, "Number", func(call vm.FunctionCall) (vm.Value, error) {
		num, err := value(call)
		return vm.NumberValue(num), err
	}, func(call vm.FunctionCall) (vm.Value, error) {
		num, err := value(call)
		if err != nil {
			return vm.Undefined, err
		}
		p, err := vm.GetPrototypeFromConstructor(call.NewTarget, func(r *vm.Realm) *vm.Object { return r.NumberPrototype })
		if err != nil {
			return vm.Undefined, err
		}
		return r.NewPrimitiveWrapper(vm.NumberValue(num), p).Value(), nil
	})
	linkConstructor(ctor, proto)

	constant(ctor, vm.NewStringKey("MAX_SAFE_INTEGER"), vm.NumberValue(maxSafeInteger))
	constant(ctor, vm.NewStringKey("MIN_SAFE_INTEGER"), vm.NumberValue(-maxSafeInteger))
	constant(ctor, vm.NewStringKey("NaN"), vm.NaN)
	constant(ctor, vm.NewStringKey("POSITIVE_INFINITY"), vm.NumberValue(math.Inf(1)))
	constant(ctor, vm.NewStringKey("NEGATIVE_INFINITY"), vm.NumberValue(math.Inf(-1)))

	thisNumber := func(call vm.FunctionCall, name string) (float64, error) {
		if call.This.IsNumber() {
			return call.This.AsNumber(), nil
		}
		if obj := call.This.AsObject(); obj != nil {
			if v, ok := obj.PrimitiveData(); ok && v.IsNumber() {
				return v.AsNumber(), nil
			}
		}
		return 0, r.NewTypeError(vm.MsgIncompatibleReceiver, "Number.prototype."+name, call.This.Inspect())
	}

	method(r, proto, "valueOf", 0, func(call vm.FunctionCall) (vm.Value, error) {
		num, err := thisNumber(call, "valueOf")
		return vm.NumberValue(num), err
	})

	method(r, proto, "toString", 1, func(call vm.FunctionCall) (vm.Value, error) {
		num, err := thisNumber(call, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		radix := 10.0
		if arg := call.Argument(0); !arg.IsUndefined() {
			if radix, err = r.ToIntegerOrInfinity(arg); err != nil {
				return vm.Undefined, err
			}
		}
		if radix < 2 || radix > 36 {
			return vm.Undefined, r.NewRangeError(vm.MsgRadixOutOfRange)
		}
		if radix == 10 || math.IsNaN(num) || math.IsInf(num, 0) {
			return vm.NewString(vm.NumberValue(num).String()), nil
		}
		return vm.NewString(formatRadix(num, int(radix))), nil
	})

	return ctx.DefineGlobal("Number", ctor.Value())
}

// formatRadix renders a finite number in a non-decimal radix. Fractions
// are cut after 52 digits.
func formatRadix(num float64, radix int) string {
	neg := num < 0
	num = math.Abs(num)
	ip, fp := math.Floor(num), num-math.Floor(num)
	base := float64(radix)

	var digits []byte
	for ip > 0 {
		digits = append(digits, radixDigits[int(math.Mod(ip, base))])
		ip = math.Floor(ip / base)
	}
	if len(digits) == 0 {
		digits = append(digits, '0')
	}
	if neg {
		digits = append(digits, '-')
	}
	slices.Reverse(digits)

	if fp > 0 {
		digits = append(digits, '.')
		for i := 0; i < 52 && fp > 0; i++ {
			fp *= base
			d := math.Floor(fp)
			digits = append(digits, radixDigits[int(d)])
			fp -= d
		}
	}
	return string(digits)
}
