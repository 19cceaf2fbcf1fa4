package builtins

import (
	"metaobj/pkg/vm"
)

type SymbolInitializer struct{}

func (s *SymbolInitializer) Name() string {
	return "Symbol"
}

func (s *SymbolInitializer) Priority() int {
	return PrioritySymbol
}

func (s *SymbolInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm
	proto := r.SymbolPrototype

	ctor := r.NewNativeConstructor(0, "Symbol", func(call vm.FunctionCall) (vm.Value, error) {
		desc := call.Argument(0)
		if desc.IsUndefined() {
			return vm.NewAnonymousSymbol().Value(), nil
		}
		str, err := r.ToString(desc)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewSymbol(str).Value(), nil
	}, func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.NewTypeError(vm.MsgNotAConstructor, "Symbol")
	})
	linkConstructor(ctor, proto)

	method(r, ctor, "for", 1, func(call vm.FunctionCall) (vm.Value, error) {
		key, err := r.ToString(call.Argument(0))
		if err != nil {
			return vm.Undefined, err
		}
		return r.Symbols.For(key).Value(), nil
	})

	method(r, ctor, "keyFor", 1, func(call vm.FunctionCall) (vm.Value, error) {
		sym := call.Argument(0)
		if !sym.IsSymbol() {
			return vm.Undefined, r.NewTypeError(vm.MsgNotASymbol, sym.Inspect())
		}
		if key, ok := r.Symbols.KeyFor(sym.AsSymbol()); ok {
			return vm.NewString(key), nil
		}
		return vm.Undefined, nil
	})

	for name, sym := range map[string]*vm.Symbol{
		"toStringTag": vm.SymbolToStringTag,
		"toPrimitive": vm.SymbolToPrimitive,
		"hasInstance": vm.SymbolHasInstance,
		"iterator":    vm.SymbolIterator,
		"species":     vm.SymbolSpecies,
	} {
		constant(ctor, vm.NewStringKey(name), sym.Value())
	}

	thisSymbol := func(call vm.FunctionCall, name string) (*vm.Symbol, error) {
		if call.This.IsSymbol() {
			return call.This.AsSymbol(), nil
		}
		if obj := call.This.AsObject(); obj != nil {
			if v, ok := obj.PrimitiveData(); ok && v.IsSymbol() {
				return v.AsSymbol(), nil
			}
		}
		return nil, r.NewTypeError(vm.MsgIncompatibleReceiver, "Symbol.prototype."+name, call.This.Inspect())
	}

	method(r, proto, "toString", 0, func(call vm.FunctionCall) (vm.Value, error) {
		sym, err := thisSymbol(call, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(sym.String()), nil
	})
	method(r, proto, "valueOf", 0, func(call vm.FunctionCall) (vm.Value, error) {
		sym, err := thisSymbol(call, "valueOf")
		if err != nil {
			return vm.Undefined, err
		}
		return sym.Value(), nil
	})
	getter(r, proto, vm.NewStringKey("description"), func(call vm.FunctionCall) (vm.Value, error) {
		sym, err := thisSymbol(call, "description")
		if err != nil {
			return vm.Undefined, err
		}
		if desc, ok := sym.Description(); ok {
			return vm.NewString(desc), nil
		}
		return vm.Undefined, nil
	})
	symbolMethod(r, proto, vm.SymbolToPrimitive, 1, func(call vm.FunctionCall) (vm.Value, error) {
		sym, err := thisSymbol(call, "[Symbol.toPrimitive]")
		if err != nil {
			return vm.Undefined, err
		}
		return sym.Value(), nil
	}, false)
	toStringTag(proto, "Symbol")

	return ctx.DefineGlobal("Symbol", ctor.Value())
}
