package conformance

import (
	"metaobj/pkg/vm"
)

func arrayScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "array/length-truncation",
			Description: "a = [1,2,3]; a.length = 1 leaves own keys 0 and length",
			Tags:        []string{TagArray},
			Run: func(c *Case) {
				a := c.Array(vm.IntValue(1), vm.IntValue(2), vm.IntValue(3))
				c.Equal(c.Call("Reflect.set", a, vm.NewString("length"), vm.IntValue(1)), vm.True, "set length")
				c.Check(c.Keys(a) == "0,length", "own keys %s", c.Keys(a))
				c.Equal(c.Get(a, "1"), vm.Undefined, "a[1]")
				c.Equal(c.Get(a, "2"), vm.Undefined, "a[2]")
				c.Equal(c.Get(a, "length"), vm.IntValue(1), "a.length")
			},
		},
		{
			Name:        "array/index-grows-length",
			Description: "defining an index at or past length moves length to index+1",
			Tags:        []string{TagArray},
			Run: func(c *Case) {
				a := c.Array()
				c.Call("Reflect.set", a, vm.IntValue(4), vm.True)
				c.Equal(c.Get(a, "length"), vm.IntValue(5), "length after a[4]")
				c.Check(c.Keys(a) == "4,length", "holes are not own keys: %s", c.Keys(a))
				c.Call("Reflect.set", a, vm.NewString("x"), vm.True)
				c.Equal(c.Get(a, "length"), vm.IntValue(5), "named keys leave length alone")
			},
		},
		{
			Name:        "array/non-configurable-element-stops-truncation",
			Description: "shrinking stops just above the highest non-configurable element",
			Tags:        []string{TagArray, TagReflect},
			Run: func(c *Case) {
				a := c.Array(vm.IntValue(0), vm.IntValue(1), vm.IntValue(2), vm.IntValue(3))
				c.Call("Object.defineProperty", a, vm.IntValue(1), c.Object("configurable", false))
				c.Equal(c.Call("Reflect.set", a, vm.NewString("length"), vm.IntValue(0)), vm.False, "truncation result")
				c.Equal(c.Get(a, "length"), vm.IntValue(2), "length")
				c.Check(c.Keys(a) == "0,1,length", "own keys %s", c.Keys(a))
			},
		},
		{
			Name:        "array/non-writable-length",
			Description: "a frozen length rejects growth through new indices",
			Tags:        []string{TagArray, TagReflect},
			Run: func(c *Case) {
				a := c.Array(vm.IntValue(1))
				c.Call("Object.defineProperty", a, vm.NewString("length"), c.Object("writable", false))
				c.Equal(c.Call("Reflect.set", a, vm.IntValue(1), vm.IntValue(2)), vm.False, "append")
				c.Equal(c.Call("Reflect.defineProperty", a, vm.NewString("length"), c.Object("value", 0)), vm.False, "shrink")
				c.Equal(c.Call("Reflect.set", a, vm.IntValue(0), vm.IntValue(9)), vm.True, "existing element")
				c.ExpectTypeError(c.TryOn(a, "Array.prototype.push", vm.IntValue(1)), vm.MsgSetFalse)
			},
		},
		{
			Name:        "array/invalid-length",
			Description: "lengths that are not uint32 raise RangeError",
			Tags:        []string{TagArray},
			Run: func(c *Case) {
				a := c.Array()
				for _, bad := range []vm.Value{vm.IntValue(-1), vm.NumberValue(1.5), vm.NumberValue(4294967296), vm.NewString("x")} {
					_, err := c.Realm().Call(c.Lookup("Reflect.set"), vm.Undefined, []vm.Value{a, vm.NewString("length"), bad})
					c.ExpectRangeError(err, vm.MsgInvalidArrayLength)
				}
				_, err := c.Runtime().Construct("Array", vm.IntValue(-1))
				c.ExpectRangeError(err, vm.MsgInvalidArrayLength)
				c.Equal(c.Get(c.New("Array", vm.NewString("3")).Value(), "length"), vm.IntValue(1), "a string argument is an element")
			},
		},
		{
			Name:        "array/is-array-through-proxy",
			Description: "Array.isArray sees through proxies and throws on a revoked one",
			Tags:        []string{TagArray, TagProxy},
			Run: func(c *Case) {
				p := c.Proxy(c.Proxy(c.Array(), c.Object()), c.Object())
				c.Equal(c.Call("Array.isArray", p), vm.True, "nested proxy")
				c.Equal(c.Call("Array.isArray", c.Proxy(c.Object(), c.Object())), vm.False, "proxy of plain object")

				pair := c.Call("Proxy.revocable", c.Array(), c.Object())
				c.Must(c.Realm().Call(c.Get(pair, "revoke"), vm.Undefined, nil))
				c.ExpectTypeError(c.Try("Array.isArray", c.Get(pair, "proxy")), vm.MsgProxyRevoked)
			},
		},
	}
}

func stringScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "string/index-properties",
			Description: "string wrappers expose read-only enumerable code units",
			Tags:        []string{TagString},
			Run: func(c *Case) {
				s := c.New("String", vm.NewString("ab")).Value()
				desc := c.Call("Object.getOwnPropertyDescriptor", s, vm.IntValue(1))
				c.Equal(c.Get(desc, "value"), vm.NewString("b"), "s[1]")
				c.Equal(c.Get(desc, "writable"), vm.False, "writable")
				c.Equal(c.Get(desc, "enumerable"), vm.True, "enumerable")
				c.Equal(c.Get(desc, "configurable"), vm.False, "configurable")
				c.Equal(c.Call("Object.getOwnPropertyDescriptor", s, vm.IntValue(2)), vm.Undefined, "s[2]")

				c.Equal(c.Call("Reflect.set", s, vm.IntValue(0), vm.NewString("z")), vm.False, "write")
				c.Equal(c.Call("Reflect.deleteProperty", s, vm.IntValue(0)), vm.False, "delete")
				c.Equal(c.Call("Reflect.defineProperty", s, vm.IntValue(0), c.Object("value", "a")), vm.True, "compatible redefinition")
				c.Equal(c.Call("Reflect.defineProperty", s, vm.IntValue(0), c.Object("value", "q")), vm.False, "incompatible redefinition")
			},
		},
		{
			Name:        "string/own-keys",
			Description: "code unit indices come first, then extra indices, length and names",
			Tags:        []string{TagString, TagOrdinary},
			Run: func(c *Case) {
				s := c.New("String", vm.NewString("ab")).Value()
				c.Call("Reflect.set", s, vm.NewString("x"), vm.True)
				c.Call("Reflect.set", s, vm.IntValue(5), vm.True)
				c.Check(c.Keys(s) == "0,1,5,length,x", "own keys %s", c.Keys(s))
				c.Equal(c.Get(s, "length"), vm.IntValue(2), "length")
				c.Equal(c.Call("Reflect.set", s, vm.NewString("length"), vm.IntValue(5)), vm.False, "length is read-only")
			},
		},
		{
			Name:        "string/code-units",
			Description: "length counts UTF-16 code units and lone surrogates read as U+FFFD",
			Tags:        []string{TagString},
			Run: func(c *Case) {
				s := c.New("String", vm.NewString("a😀")).Value()
				c.Equal(c.Get(s, "length"), vm.IntValue(3), "length")
				c.Equal(c.Get(s, "1"), vm.NewString("\uFFFD"), "high surrogate")
				c.Equal(c.Get(s, "0"), vm.NewString("a"), "ascii")
			},
		},
		{
			Name:        "string/wrapper-primitive",
			Description: "String called as a function converts, called with new wraps",
			Tags:        []string{TagString, TagSymbol},
			Run: func(c *Case) {
				c.Equal(c.Call("String", vm.IntValue(12)), vm.NewString("12"), "String(12)")
				c.Equal(c.Call("String", vm.NewSymbol("d").Value()), vm.NewString("Symbol(d)"), "String(symbol)")
				_, err := c.Runtime().Construct("String", vm.NewSymbol("d").Value())
				c.ExpectTypeError(err, vm.MsgSymbolToString)
				w := c.New("String", vm.NewString("w")).Value()
				c.Equal(c.Must(c.Realm().Invoke(w, vm.NewStringKey("valueOf"))), vm.NewString("w"), "valueOf")
			},
		},
	}
}

func typedArrayScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "typedarray/element-conversion",
			Description: "writes convert to the element type with wrapping or clamping",
			Tags:        []string{TagTypedArray},
			Run: func(c *Case) {
				for _, tc := range []struct {
					ctor     string
					in, want float64
				}{
					{"Int8Array", 200, -56},
					{"Uint8Array", 300, 44},
					{"Uint8ClampedArray", 300, 255},
					{"Uint8ClampedArray", 1.5, 2},
					{"Uint16Array", -1, 65535},
					{"Int32Array", 4294967295, -1},
					{"Float64Array", 0.1, 0.1},
				} {
					ta := c.New(tc.ctor, vm.IntValue(1)).Value()
					c.Call("Reflect.set", ta, vm.IntValue(0), vm.NumberValue(tc.in))
					c.Equal(c.Get(ta, "0"), vm.NumberValue(tc.want), tc.ctor)
				}
			},
		},
		{
			Name:        "typedarray/numeric-keys",
			Description: "canonical numeric strings outside the view are absent and never stored",
			Tags:        []string{TagTypedArray, TagReflect},
			Run: func(c *Case) {
				ta := c.New("Uint8Array", vm.IntValue(2)).Value()
				for _, name := range []string{"-0", "1.5", "-1", "2", "NaN", "Infinity"} {
					key := vm.NewString(name)
					c.Equal(c.Call("Reflect.set", ta, key, vm.IntValue(1)), vm.True, "set "+name)
					c.Equal(c.Call("Reflect.has", ta, key), vm.False, "has "+name)
					c.Equal(c.Call("Reflect.defineProperty", ta, key, c.Object("value", 1)), vm.False, "define "+name)
				}
				c.Call("Reflect.set", ta, vm.NewString("1.0"), vm.IntValue(7))
				c.Check(c.Keys(ta) == "0,1,1.0", "own keys %s", c.Keys(ta))
				c.Equal(c.Call("Reflect.deleteProperty", ta, vm.IntValue(0)), vm.False, "delete in-bounds element")
			},
		},
		{
			Name:        "typedarray/shares-buffer",
			Description: "views over one buffer see each other's writes in little-endian order",
			Tags:        []string{TagTypedArray},
			Run: func(c *Case) {
				buf := c.New("ArrayBuffer", vm.IntValue(4)).Value()
				bytes := c.New("Uint8Array", buf).Value()
				words := c.New("Uint16Array", buf, vm.IntValue(2), vm.IntValue(1)).Value()
				c.Call("Reflect.set", words, vm.IntValue(0), vm.IntValue(0x0102))
				c.Equal(c.Get(bytes, "2"), vm.IntValue(2), "low byte")
				c.Equal(c.Get(bytes, "3"), vm.IntValue(1), "high byte")
				c.Equal(c.Get(words, "byteOffset"), vm.IntValue(2), "byteOffset")

				_, err := c.Runtime().Construct("Uint16Array", buf, vm.IntValue(1))
				c.ExpectRangeError(err, "")
			},
		},
		{
			Name:        "typedarray/detached-buffer",
			Description: "after transfer the old view is zero-length and reads undefined",
			Tags:        []string{TagTypedArray},
			Run: func(c *Case) {
				buf := c.New("ArrayBuffer", vm.IntValue(4)).Value()
				view := c.New("Uint8Array", buf).Value()
				c.Call("Reflect.set", view, vm.IntValue(0), vm.IntValue(9))
				moved := c.Must(c.Realm().Invoke(buf, vm.NewStringKey("transfer")))

				c.Equal(c.Get(buf, "detached"), vm.True, "source detached")
				c.Equal(c.Get(view, "length"), vm.IntValue(0), "view length")
				c.Equal(c.Get(view, "0"), vm.Undefined, "view[0]")
				c.Equal(c.Call("Reflect.set", view, vm.IntValue(0), vm.IntValue(1)), vm.True, "write is ignored")
				c.Check(c.Keys(view) == "", "own keys %s", c.Keys(view))

				fresh := c.New("Uint8Array", moved).Value()
				c.Equal(c.Get(fresh, "0"), vm.IntValue(9), "moved contents")
			},
		},
		{
			Name:        "typedarray/length-tracking",
			Description: "a view without a length follows a resizable buffer",
			Tags:        []string{TagTypedArray},
			Run: func(c *Case) {
				buf := c.New("ArrayBuffer", vm.IntValue(2), c.Object("maxByteLength", 8)).Value()
				view := c.New("Uint8Array", buf).Value()
				c.Must(c.Realm().Invoke(buf, vm.NewStringKey("resize"), vm.IntValue(6)))
				c.Equal(c.Get(view, "length"), vm.IntValue(6), "grown")
				c.Must(c.Realm().Invoke(buf, vm.NewStringKey("resize"), vm.IntValue(1)))
				c.Equal(c.Get(view, "length"), vm.IntValue(1), "shrunk")
				c.Equal(c.Call("Reflect.has", view, vm.IntValue(1)), vm.False, "index past the end")
			},
		},
	}
}

func argumentsScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "arguments/mapped-aliasing",
			Description: "mapped indices alias their parameter until deleted or redefined",
			Tags:        []string{TagArguments},
			Run: func(c *Case) {
				r := c.Realm()
				callee := c.Func("f", 2, func(vm.FunctionCall) (vm.Value, error) { return vm.Undefined, nil })
				var a, b vm.Value
				args := r.NewMappedArguments(callee.AsObject(), []vm.Value{vm.IntValue(1), vm.IntValue(2), vm.IntValue(3)}, []*vm.Value{&a, &b}).Value()

				c.Call("Reflect.set", args, vm.IntValue(0), vm.IntValue(10))
				c.Equal(a, vm.IntValue(10), "write through arguments")
				b = vm.IntValue(20)
				c.Equal(c.Get(args, "1"), vm.IntValue(20), "write through binding")

				c.Call("Object.defineProperty", args, vm.IntValue(1), c.Object("writable", false))
				b = vm.IntValue(99)
				c.Equal(c.Get(args, "1"), vm.IntValue(20), "non-writable unmaps")

				c.Call("Reflect.deleteProperty", args, vm.IntValue(0))
				c.Call("Reflect.set", args, vm.IntValue(0), vm.IntValue(5))
				c.Equal(a, vm.IntValue(10), "delete unmaps")

				c.Equal(c.Get(args, "callee"), callee, "callee")
				c.Equal(c.Get(args, "length"), vm.IntValue(3), "length")
				c.Check(c.Keys(args) == "0,1,2,length,callee", "own keys %s", c.Keys(args))
			},
		},
		{
			Name:        "arguments/unmapped-callee-throws",
			Description: "strict arguments objects poison callee",
			Tags:        []string{TagArguments},
			Run: func(c *Case) {
				args := c.Realm().NewUnmappedArguments([]vm.Value{vm.IntValue(1)}).Value()
				_, err := c.Realm().GetV(args, vm.NewStringKey("callee"))
				c.ExpectTypeError(err, vm.MsgRestrictedProperty)
				desc := c.Call("Object.getOwnPropertyDescriptor", args, vm.NewString("callee"))
				c.Equal(c.Get(desc, "configurable"), vm.False, "configurable")
				c.Equal(c.Get(desc, "get"), c.Get(desc, "set"), "same thrower")
				c.Equal(c.CallOn(args, "Object.prototype.toString"), vm.NewString("[object Arguments]"), "class")
			},
		},
	}
}

func functionScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "function/call-non-callable",
			Description: "calling or constructing the wrong kind of value is a TypeError naming it",
			Tags:        []string{TagFunction},
			Run: func(c *Case) {
				c.Check(c.Runtime().Set("notFn", vm.IntValue(1)) == nil, "defining notFn")
				c.ExpectTypeError(c.Try("notFn"), "notFn is not a function")
				_, err := c.Runtime().Construct("Reflect.get")
				c.ExpectTypeError(err, "Reflect.get is not a constructor")
				_, err = c.Runtime().Construct("Symbol")
				c.ExpectTypeError(err, "")
			},
		},
		{
			Name:        "function/construct-uses-new-target-prototype",
			Description: "a base constructor allocates this from newTarget.prototype",
			Tags:        []string{TagFunction, TagReflect},
			Run: func(c *Case) {
				r := c.Realm()
				f := r.NewConstructor(1, "f", func(call vm.FunctionCall) (vm.Value, error) {
					return vm.Undefined, call.Realm().SetValue(call.This.AsObject(), vm.NewStringKey("x"), call.Argument(0), true)
				}).Value()
				other := r.NewConstructor(0, "other", func(vm.FunctionCall) (vm.Value, error) { return vm.Undefined, nil }).Value()

				obj := c.Call("Reflect.construct", f, c.Array(vm.IntValue(1)), other)
				c.Equal(c.Get(obj, "x"), vm.IntValue(1), "x")
				c.Equal(c.Call("Reflect.getPrototypeOf", obj), c.Get(other, "prototype"), "prototype")
				c.ExpectTypeError(c.Try("Reflect.construct", f, c.Array(), c.Lookup("Reflect.get")), "")
			},
		},
		{
			Name:        "function/call-and-apply",
			Description: "Function.prototype.call and apply forward this and arguments",
			Tags:        []string{TagFunction},
			Run: func(c *Case) {
				fn := c.Func("echo", 0, func(call vm.FunctionCall) (vm.Value, error) {
					return c.Array(append([]vm.Value{call.This}, call.Arguments...)...), nil
				})
				this := c.Object()
				got := c.Must(c.Realm().Invoke(fn, vm.NewStringKey("call"), this, vm.IntValue(1)))
				c.Equal(c.Get(got, "0"), this, "call this")
				c.Equal(c.Get(got, "1"), vm.IntValue(1), "call argument")

				got = c.Must(c.Realm().Invoke(fn, vm.NewStringKey("apply"), this, c.Array(vm.IntValue(2), vm.IntValue(3))))
				c.Equal(c.Get(got, "length"), vm.IntValue(3), "apply argument count")
			},
		},
		{
			Name:        "function/has-instance",
			Description: "instanceof semantics follow the prototype chain of the constructor's prototype",
			Tags:        []string{TagFunction, TagSymbol},
			Run: func(c *Case) {
				r := c.Realm()
				f := r.NewConstructor(0, "F", func(vm.FunctionCall) (vm.Value, error) { return vm.Undefined, nil }).Value()
				inst, err := r.Construct(f, nil, vm.Undefined)
				c.NoError(err)
				obj := inst.Value()
				hasInstance := c.Must(r.GetV(r.FunctionPrototype.Value(), vm.NewSymbolKey(vm.SymbolHasInstance)))
				c.Equal(c.Must(r.Call(hasInstance, f, []vm.Value{obj})), vm.True, "instance")
				c.Equal(c.Must(r.Call(hasInstance, f, []vm.Value{c.Object()})), vm.False, "plain object")
				c.Equal(c.Must(r.Call(hasInstance, f, []vm.Value{vm.IntValue(1)})), vm.False, "primitive")
			},
		},
	}
}

func symbolScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "symbol/registry",
			Description: "Symbol.for returns one symbol per key and keyFor maps it back",
			Tags:        []string{TagSymbol},
			Run: func(c *Case) {
				a := c.Call("Symbol.for", vm.NewString("app"))
				c.Equal(c.Call("Symbol.for", vm.NewString("app")), a, "same key")
				c.Equal(c.Call("Symbol.keyFor", a), vm.NewString("app"), "keyFor")
				c.Equal(c.Call("Symbol.keyFor", c.Call("Symbol", vm.NewString("app"))), vm.Undefined, "unregistered")
				c.ExpectTypeError(c.Try("Symbol.keyFor", vm.NewString("app")), `"app" is not a symbol`)
			},
		},
		{
			Name:        "symbol/keys-are-distinct",
			Description: "symbol keys never collide with strings and sort after them",
			Tags:        []string{TagSymbol, TagOrdinary},
			Run: func(c *Case) {
				sym := c.Call("Symbol", vm.NewString("k"))
				o := c.Object()
				c.Call("Reflect.set", o, sym, vm.IntValue(1))
				c.Call("Reflect.set", o, vm.NewString("Symbol(k)"), vm.IntValue(2))
				c.Equal(c.Must(c.Realm().GetV(o, vm.NewSymbolKey(sym.AsSymbol()))), vm.IntValue(1), "symbol key")
				c.Check(c.Keys(o) == "Symbol(k),[Symbol(k)]", "own keys %s", c.Keys(o))
				c.Equal(c.Get(c.Call("Object.getOwnPropertySymbols", o), "length"), vm.IntValue(1), "getOwnPropertySymbols")
				c.Equal(c.Get(c.Call("Object.keys", o), "length"), vm.IntValue(1), "Object.keys skips symbols")
			},
		},
		{
			Name:        "symbol/to-string-tag",
			Description: "Object.prototype.toString honours @@toStringTag",
			Tags:        []string{TagSymbol, TagOrdinary},
			Run: func(c *Case) {
				o := c.Object()
				c.Call("Reflect.set", o, vm.SymbolToStringTag.Value(), vm.NewString("Custom"))
				c.Equal(c.CallOn(o, "Object.prototype.toString"), vm.NewString("[object Custom]"), "tagged")
				c.Equal(c.CallOn(c.Lookup("Reflect"), "Object.prototype.toString"), vm.NewString("[object Reflect]"), "Reflect")
				c.Equal(c.CallOn(c.Array(), "Object.prototype.toString"), vm.NewString("[object Array]"), "array")
			},
		},
	}
}
