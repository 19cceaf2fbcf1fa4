package conformance

import (
	"math"

	"metaobj/pkg/vm"
)

func negativeZero() float64 { return math.Copysign(0, -1) }

func ordinaryScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "ordinary/define-completes-descriptor",
			Description: "a defined property reads back with every omitted field defaulted",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				o := c.Object()
				ok := c.Call("Reflect.defineProperty", o, vm.NewString("k"), c.Object("value", 1, "writable", true))
				c.Equal(ok, vm.True, "defineProperty result")

				desc := c.Call("Reflect.getOwnPropertyDescriptor", o, vm.NewString("k"))
				c.Equal(c.Get(desc, "value"), vm.IntValue(1), "value")
				c.Equal(c.Get(desc, "writable"), vm.True, "writable")
				c.Equal(c.Get(desc, "enumerable"), vm.False, "enumerable")
				c.Equal(c.Get(desc, "configurable"), vm.False, "configurable")
				c.Check(c.Keys(desc) == "value,writable,enumerable,configurable", "descriptor field order %s", c.Keys(desc))
			},
		},
		{
			Name:        "ordinary/define-merges-onto-existing",
			Description: "a partial redefinition keeps the fields it does not mention",
			Tags:        []string{TagOrdinary},
			Run: func(c *Case) {
				o := c.Object("k", 1)
				c.Call("Object.defineProperty", o, vm.NewString("k"), c.Object("enumerable", false))
				desc := c.Call("Object.getOwnPropertyDescriptor", o, vm.NewString("k"))
				c.Equal(c.Get(desc, "value"), vm.IntValue(1), "value")
				c.Equal(c.Get(desc, "writable"), vm.True, "writable")
				c.Equal(c.Get(desc, "enumerable"), vm.False, "enumerable")
				c.Equal(c.Get(desc, "configurable"), vm.True, "configurable")

				getter := c.Returning(vm.NewString("g"))
				c.Call("Object.defineProperty", o, vm.NewString("k"), c.Object("get", getter))
				desc = c.Call("Object.getOwnPropertyDescriptor", o, vm.NewString("k"))
				c.Check(c.Keys(desc) == "get,set,enumerable,configurable", "data to accessor conversion gives %s", c.Keys(desc))
				c.Equal(c.Get(o, "k"), vm.NewString("g"), "getter result")
			},
		},
		{
			Name:        "ordinary/non-configurable-rejects-changes",
			Description: "a non-configurable property refuses every incompatible redefinition without mutating",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				o := c.Object()
				c.Call("Object.defineProperty", o, vm.NewString("k"), c.Object("value", 1))
				key := vm.NewString("k")
				for _, attempt := range []struct {
					what string
					desc vm.Value
				}{
					{"configurable", c.Object("configurable", true)},
					{"enumerable", c.Object("enumerable", true)},
					{"writable", c.Object("writable", true)},
					{"value", c.Object("value", 2)},
					{"accessor", c.Object("get", c.Returning(vm.Undefined))},
				} {
					c.Equal(c.Call("Reflect.defineProperty", o, key, attempt.desc), vm.False, attempt.what)
				}
				c.Equal(c.Call("Reflect.defineProperty", o, key, c.Object("value", 1, "writable", false)), vm.True, "identical redefinition")
				c.ExpectTypeError(c.Try("Object.defineProperty", o, key, c.Object("value", 3)), vm.MsgDefineOwnPropertyFalse)
				c.Equal(c.Get(o, "k"), vm.IntValue(1), "value after rejected changes")
			},
		},
		{
			Name:        "ordinary/delete-non-configurable",
			Description: "deleting a non-configurable own data property reports false and keeps it",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				o := c.Object("loose", 1)
				c.Call("Object.defineProperty", o, vm.NewString("fixed"), c.Object("value", 5, "enumerable", true))
				for i := 0; i < 2; i++ {
					c.Equal(c.Call("Reflect.deleteProperty", o, vm.NewString("fixed")), vm.False, "delete fixed")
				}
				c.Equal(c.Get(o, "fixed"), vm.IntValue(5), "fixed value")
				c.Equal(c.Call("Reflect.deleteProperty", o, vm.NewString("loose")), vm.True, "delete loose")
				c.Equal(c.Call("Reflect.deleteProperty", o, vm.NewString("loose")), vm.True, "delete absent")
				c.Check(c.Keys(o) == "fixed", "keys after delete: %s", c.Keys(o))
			},
		},
		{
			Name:        "ordinary/descriptor-round-trip",
			Description: "redefining a property with its own descriptor changes nothing",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				o := c.Object("a", 1)
				c.Call("Object.defineProperty", o, vm.NewString("b"), c.Object("value", 2))
				c.Call("Object.defineProperty", o, vm.NewString("c"), c.Object("get", c.Returning(vm.IntValue(3))))
				c.Call("Object.preventExtensions", o)
				before := c.Keys(o)
				for _, name := range []string{"a", "b", "c"} {
					key := vm.NewString(name)
					desc := c.Call("Reflect.getOwnPropertyDescriptor", o, key)
					c.Equal(c.Call("Reflect.defineProperty", o, key, desc), vm.True, name)
					again := c.Call("Reflect.getOwnPropertyDescriptor", o, key)
					for _, field := range []string{"value", "writable", "get", "set", "enumerable", "configurable"} {
						c.Equal(c.Get(again, field), c.Get(desc, field), name+"."+field)
					}
				}
				c.Check(c.Keys(o) == before, "keys changed from %s to %s", before, c.Keys(o))
			},
		},
		{
			Name:        "ordinary/own-keys-order",
			Description: "integer indices ascend, then strings, then symbols, each in insertion order",
			Tags:        []string{TagOrdinary, TagSymbol},
			Run: func(c *Case) {
				r := c.Realm()
				o := c.Object("b", 1)
				sym := vm.NewSymbol("s")
				c.NoError(r.CreateDataPropertyOrThrow(o.AsObject(), vm.NewSymbolKey(sym), vm.Undefined))
				for _, k := range []vm.Value{vm.IntValue(10), vm.NewString("a"), vm.NewString("01"), vm.NumberValue(2), vm.NewString("-0"), vm.NumberValue(negativeZero())} {
					c.Call("Reflect.set", o, k, vm.Null)
				}
				n := c.Must(c.Realm().GetV(c.Call("Reflect.ownKeys", o), vm.NewStringKey("length")))
				c.Equal(n, vm.IntValue(8), "Reflect.ownKeys length")
				c.Check(c.Keys(o) == "0,2,10,b,a,01,-0,[Symbol(s)]", "own keys %s", c.Keys(o))
			},
		},
		{
			Name:        "ordinary/set-creates-on-receiver",
			Description: "an inherited data property is shadowed on the receiver, not on the holder",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				proto := c.Object("x", 1)
				o := c.Call("Object.create", proto)
				recv := c.Object()
				c.Equal(c.Call("Reflect.set", o, vm.NewString("x"), vm.IntValue(2), recv), vm.True, "set with receiver")
				c.Equal(c.Get(recv, "x"), vm.IntValue(2), "receiver value")
				c.Equal(c.Get(proto, "x"), vm.IntValue(1), "holder value")
				c.Check(c.Keys(o) == "", "search start gained keys %s", c.Keys(o))

				c.Call("Object.defineProperty", proto, vm.NewString("ro"), c.Object("value", 1))
				c.Equal(c.Call("Reflect.set", o, vm.NewString("ro"), vm.IntValue(2)), vm.False, "inherited non-writable blocks")
				c.Check(!c.MustBool(c.Realm().HasOwnProperty(o.AsObject(), vm.NewStringKey("ro"))), "blocked write created a property")
			},
		},
		{
			Name:        "ordinary/accessor-this-is-receiver",
			Description: "getters and setters found on the chain run with the receiver as this",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				var seen vm.Value
				getter := c.Func("get", 0, func(call vm.FunctionCall) (vm.Value, error) {
					return call.This, nil
				})
				setter := c.Func("set", 1, func(call vm.FunctionCall) (vm.Value, error) {
					seen = call.This
					return vm.Undefined, nil
				})
				proto := c.Object()
				c.Call("Object.defineProperty", proto, vm.NewString("p"), c.Object("get", getter, "set", setter))
				o := c.Call("Object.create", proto)
				recv := c.Object()

				c.Equal(c.Call("Reflect.get", o, vm.NewString("p"), recv), recv, "getter this")
				c.Equal(c.Call("Reflect.set", o, vm.NewString("p"), vm.IntValue(1), recv), vm.True, "setter result")
				c.Equal(seen, recv, "setter this")
				c.Check(c.Keys(recv) == "", "receiver gained keys %s", c.Keys(recv))
			},
		},
		{
			Name:        "ordinary/non-extensible-rejects-new-keys",
			Description: "preventExtensions stops additions but not updates or deletes",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				o := c.Object("a", 1)
				c.Equal(c.Call("Reflect.preventExtensions", o), vm.True, "preventExtensions")
				c.Equal(c.Call("Reflect.preventExtensions", o), vm.True, "preventExtensions again")
				c.Equal(c.Call("Reflect.isExtensible", o), vm.False, "isExtensible")
				c.Equal(c.Call("Reflect.defineProperty", o, vm.NewString("b"), c.Object("value", 1)), vm.False, "new key")
				c.Equal(c.Call("Reflect.set", o, vm.NewString("a"), vm.IntValue(2)), vm.True, "update")
				c.Equal(c.Call("Reflect.setPrototypeOf", o, vm.Null), vm.False, "prototype change")
				c.Equal(c.Call("Reflect.deleteProperty", o, vm.NewString("a")), vm.True, "delete")
			},
		},
		{
			Name:        "ordinary/integrity-levels",
			Description: "freeze and seal redefine every own property and are detected afterwards",
			Tags:        []string{TagOrdinary},
			Run: func(c *Case) {
				sealed := c.Object("a", 1)
				c.Call("Object.seal", sealed)
				c.Equal(c.Call("Object.isSealed", sealed), vm.True, "isSealed")
				c.Equal(c.Call("Object.isFrozen", sealed), vm.False, "sealed is not frozen")
				c.Equal(c.Call("Reflect.set", sealed, vm.NewString("a"), vm.IntValue(2)), vm.True, "sealed stays writable")

				frozen := c.Object("a", 1)
				c.Call("Object.freeze", frozen)
				c.Equal(c.Call("Object.isFrozen", frozen), vm.True, "isFrozen")
				c.Equal(c.Call("Reflect.set", frozen, vm.NewString("a"), vm.IntValue(2)), vm.False, "frozen write")

				empty := c.Object()
				c.Call("Object.preventExtensions", empty)
				c.Equal(c.Call("Object.isFrozen", empty), vm.True, "empty non-extensible object is frozen")
			},
		},
		{
			Name:        "ordinary/prototype-cycles",
			Description: "setPrototypeOf refuses to create a cycle",
			Tags:        []string{TagOrdinary, TagReflect},
			Run: func(c *Case) {
				a := c.Object()
				b := c.Call("Object.create", a)
				c.Equal(c.Call("Reflect.setPrototypeOf", a, b), vm.False, "cycle")
				c.Equal(c.Call("Reflect.setPrototypeOf", a, a), vm.False, "self")
				c.ExpectTypeError(c.Try("Object.setPrototypeOf", a, b), vm.MsgSetPrototypeOfFalse)
				c.Equal(c.Call("Reflect.setPrototypeOf", b, vm.Null), vm.True, "detach")
				c.Equal(c.Call("Reflect.getPrototypeOf", b), vm.Null, "detached prototype")
				c.Equal(c.Call("Reflect.setPrototypeOf", a, b), vm.True, "now acyclic")
			},
		},
		{
			Name:        "ordinary/property-key-canonical-form",
			Description: "numbers and strings name the same key only in canonical form",
			Tags:        []string{TagOrdinary},
			Run: func(c *Case) {
				o := c.Object()
				c.Call("Reflect.set", o, vm.IntValue(1), vm.NewString("number"))
				c.Equal(c.Get(o, "1"), vm.NewString("number"), `o["1"]`)
				c.Call("Reflect.set", o, vm.NumberValue(1.5), vm.True)
				c.Equal(c.Get(o, "1.5"), vm.True, `o["1.5"]`)
				c.Call("Reflect.set", o, vm.NumberValue(1e21), vm.True)
				c.Check(c.MustBool(c.Realm().HasOwnProperty(o.AsObject(), vm.NewStringKey("1e+21"))), "1e21 key is %q", "1e+21")
				c.Call("Reflect.set", o, vm.NewString("001"), vm.False)
				c.Call("Reflect.set", o, vm.NewString("4294967295"), vm.False)
				c.Check(c.Keys(o) == "1,1.5,1e+21,001,4294967295", "keys %s", c.Keys(o))
			},
		},
	}
}
