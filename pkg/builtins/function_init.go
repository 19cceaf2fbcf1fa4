package builtins

import (
	"metaobj/pkg/vm"
)

// FunctionInitializer installs Function.prototype methods. There is no
// Function constructor: function objects come from native Go closures.
type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.FunctionPrototype

	method(r, proto, "call", 1, func(call vm.FunctionCall) (vm.Value, error) {
		var args []vm.Value
		if len(call.Arguments) > 1 {
			args = call.Arguments[1:]
		}
		return r.CallExpr("Function.prototype.call", call.This, call.Argument(0), args)
	})

	method(r, proto, "apply", 2, func(call vm.FunctionCall) (vm.Value, error) {
		fn := call.This.AsObject()
		if fn == nil || !fn.IsCallable() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotAFunction, call.This.Inspect())
		}
		argArray := call.Argument(1)
		if argArray.IsNullish() {
			return fn.Call(call.Argument(0), nil)
		}
		args, err := r.CreateListFromArrayLike(argArray)
		if err != nil {
			return vm.Undefined, err
		}
		return fn.Call(call.Argument(0), args)
	})

	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		fn := call.This.AsObject()
		if fn == nil || !fn.IsCallable() {
			return vm.Undefined, r.NewTypeError(vm.MsgIncompatibleReceiver, "Function.prototype.toString", call.This.Inspect())
		}
		return vm.NewString("function " + fn.FunctionName() + "() { [native code] }"), nil
	})

	hasInstance := symbolMethod(r, proto, vm.SymbolHasInstance, 1, func(call vm.FunctionCall) (vm.Value, error) {
		ok, err := ordinaryHasInstance(r, call.This, call.Argument(0))
		return vm.BooleanValue(ok), err
	}, false)
	constant(proto, vm.NewSymbolKey(vm.SymbolHasInstance), hasInstance.Value())

	return nil
}

// ordinaryHasInstance walks v's prototype chain looking for c.prototype.
func ordinaryHasInstance(r *vm.Realm, c, v vm.Value) (bool, error) {
	fn := c.AsObject()
	if fn == nil || !fn.IsCallable() {
		return false, nil
	}
	obj := v.AsObject()
	if obj == nil {
		return false, nil
	}
	protoVal, err := r.Get(fn, vm.NewStringKey("prototype"))
	if err != nil {
		return false, err
	}
	proto := protoVal.AsObject()
	if proto == nil {
		return false, r.NewTypeError(vm.MsgNotAnObject, protoVal.Inspect())
	}
	for {
		p, err := obj.GetPrototypeOf()
		if err != nil {
			return false, err
		}
		if p == nil {
			return false, nil
		}
		if p == proto {
			return true, nil
		}
		obj = p
	}
}
