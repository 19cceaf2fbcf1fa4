package conformance

import (
	"fmt"

	"metaobj/pkg/vm"
)

// reflectArity is the declared length of each Reflect function.
var reflectArity = map[string]int{
	"apply":                    3,
	"construct":                2,
	"defineProperty":           3,
	"deleteProperty":           2,
	"get":                      2,
	"getOwnPropertyDescriptor": 2,
	"getPrototypeOf":           1,
	"has":                      2,
	"isExtensible":             1,
	"ownKeys":                  1,
	"preventExtensions":        1,
	"set":                      3,
	"setPrototypeOf":           2,
}

func reflectScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "reflect/function-lengths",
			Description: "every Reflect function has its declared length and name",
			Tags:        []string{TagReflect, TagFunction},
			Run: func(c *Case) {
				for name, arity := range reflectArity {
					fn := c.Lookup("Reflect." + name)
					c.Check(fn.IsCallable(), "Reflect.%s is not callable", name)
					c.Equal(c.Get(fn, "length"), vm.IntValue(arity), "Reflect."+name+".length")
					c.Equal(c.Get(fn, "name"), vm.NewString(name), "Reflect."+name+".name")
					c.Check(!fn.IsConstructor(), "Reflect.%s is a constructor", name)
				}
				keys := c.Call("Reflect.ownKeys", c.Lookup("Reflect"))
				c.Equal(c.Get(keys, "length"), vm.IntValue(len(reflectArity)+1), "Reflect own keys include @@toStringTag")
			},
		},
		{
			Name:        "reflect/requires-object-target",
			Description: "Reflect functions reject primitive targets instead of boxing them",
			Tags:        []string{TagReflect},
			Run: func(c *Case) {
				notObject := fmt.Sprintf(vm.MsgNotAnObject, "1")
				for name := range reflectArity {
					switch name {
					case "apply", "construct":
						continue
					}
					c.ExpectTypeError(c.Try("Reflect."+name, vm.IntValue(1), vm.NewString("k"), c.Object()), notObject)
				}
				c.ExpectTypeError(c.Try("Reflect.apply", vm.IntValue(1), vm.Undefined, c.Array()), fmt.Sprintf(vm.MsgNotAFunction, "1"))
				c.ExpectTypeError(c.Try("Reflect.construct", vm.IntValue(1), c.Array()), fmt.Sprintf(vm.MsgNotAConstructor, "1"))
				c.ExpectTypeError(c.Try("Reflect.setPrototypeOf", c.Object(), vm.IntValue(1)), fmt.Sprintf(vm.MsgNotAnObjectOrNull, "1"))
			},
		},
		{
			Name:        "reflect/reports-instead-of-throwing",
			Description: "Reflect returns false where the Object statics would throw",
			Tags:        []string{TagReflect, TagOrdinary},
			Run: func(c *Case) {
				frozen := c.Object("a", 1)
				c.Call("Object.freeze", frozen)
				c.Equal(c.Call("Reflect.set", frozen, vm.NewString("a"), vm.IntValue(2)), vm.False, "set")
				c.Equal(c.Call("Reflect.defineProperty", frozen, vm.NewString("b"), c.Object("value", 1)), vm.False, "defineProperty")
				c.Equal(c.Call("Reflect.deleteProperty", frozen, vm.NewString("a")), vm.False, "deleteProperty")
				c.ExpectTypeError(c.Try("Object.defineProperty", frozen, vm.NewString("b"), c.Object("value", 1)), vm.MsgDefineOwnPropertyFalse)
			},
		},
		{
			Name:        "reflect/does-not-bypass-traps",
			Description: "Reflect on a proxy still runs the proxy's traps",
			Tags:        []string{TagReflect, TagProxy},
			Run: func(c *Case) {
				var trapped []string
				record := func(name string, result vm.Value) vm.Value {
					return c.Func(name, 0, func(vm.FunctionCall) (vm.Value, error) {
						trapped = append(trapped, name)
						return result, nil
					})
				}
				handler := c.Object(
					"get", record("get", vm.IntValue(1)),
					"has", record("has", vm.True),
					"ownKeys", record("ownKeys", c.Array()),
				)
				p := c.Proxy(c.Object(), handler)
				c.Equal(c.Call("Reflect.get", p, vm.NewString("x")), vm.IntValue(1), "get")
				c.Equal(c.Call("Reflect.has", p, vm.NewString("x")), vm.True, "has")
				c.Equal(c.Get(c.Call("Reflect.ownKeys", p), "length"), vm.IntValue(0), "ownKeys")
				c.Check(fmt.Sprint(trapped) == "[get has ownKeys]", "traps run: %v", trapped)
			},
		},
		{
			Name:        "reflect/apply-spreads-array-like",
			Description: "Reflect.apply takes any array-like argument list",
			Tags:        []string{TagReflect, TagFunction},
			Run: func(c *Case) {
				count := c.Func("count", 0, func(call vm.FunctionCall) (vm.Value, error) {
					return vm.IntValue(len(call.Arguments)), nil
				})
				arrayLike := c.Object("length", 2, "0", "a", "1", "b")
				c.Equal(c.Call("Reflect.apply", count, vm.Undefined, arrayLike), vm.IntValue(2), "array-like")
				c.ExpectTypeError(c.Try("Reflect.apply", count, vm.Undefined), fmt.Sprintf(vm.MsgNotAnObject, "undefined"))
			},
		},
		{
			Name:        "reflect/own-keys-includes-symbols",
			Description: "Reflect.ownKeys lists strings and symbols including non-enumerable ones",
			Tags:        []string{TagReflect, TagSymbol},
			Run: func(c *Case) {
				o := c.Object("a", 1)
				sym := c.Call("Symbol", vm.NewString("s"))
				c.Call("Object.defineProperty", o, sym, c.Object("value", 1))
				c.Call("Object.defineProperty", o, vm.NewString("hidden"), c.Object("value", 1))
				keys := c.Call("Reflect.ownKeys", o)
				c.Equal(c.Get(keys, "length"), vm.IntValue(3), "count")
				c.Equal(c.Get(keys, "1"), vm.NewString("hidden"), "non-enumerable string")
				c.Equal(c.Get(keys, "2"), sym, "symbol last")
				c.Equal(c.Get(c.Call("Object.keys", o), "length"), vm.IntValue(1), "Object.keys is enumerable only")
			},
		},
	}
}
