package conformance

import (
	"fmt"

	"metaobj/pkg/vm"
)

// trap adapts a Go body into a handler trap.
func (c *Case) trap(name string, fn vm.NativeFunction) vm.Value {
	return c.Func(name, 0, fn)
}

func proxyScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "proxy/construct-trap-forwards-new-target",
			Description: "new (new Proxy(f, {construct: Reflect.construct}))(15) builds {x: 15}",
			Tags:        []string{TagProxy, TagReflect, TagFunction},
			Run: func(c *Case) {
				r := c.Realm()
				f := r.NewConstructor(1, "f", func(call vm.FunctionCall) (vm.Value, error) {
					return vm.Undefined, call.Realm().SetValue(call.This.AsObject(), vm.NewStringKey("x"), call.Argument(0), true)
				}).Value()
				var seenNewTarget vm.Value
				handler := c.Object("construct", c.trap("construct", func(call vm.FunctionCall) (vm.Value, error) {
					seenNewTarget = call.Argument(2)
					return c.Runtime().Call("Reflect.construct", call.Argument(0), call.Argument(1), call.Argument(2))
				}))
				p := c.Proxy(f, handler)
				obj, err := r.Construct(p, []vm.Value{vm.IntValue(15)}, vm.Undefined)
				c.NoError(err)
				c.Equal(c.Get(obj.Value(), "x"), vm.IntValue(15), "x")
				c.Equal(seenNewTarget, p, "newTarget is the proxy")
				c.Equal(c.Call("Reflect.getPrototypeOf", obj.Value()), c.Get(f, "prototype"), "prototype comes through the proxy")
			},
		},
		{
			Name:        "proxy/prevent-extensions-invariant",
			Description: "a preventExtensions trap may not report success for an extensible target",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				p := c.Proxy(target, c.Object("preventExtensions", c.Returning(vm.True)))
				c.ExpectTypeError(c.Try("Object.preventExtensions", p), vm.MsgProxyPreventExtensionsReturn)
				c.ExpectTypeError(c.Try("Reflect.preventExtensions", p), vm.MsgProxyPreventExtensionsReturn)
				c.Equal(c.Call("Reflect.isExtensible", target), vm.True, "target untouched")

				honest := c.Proxy(target, c.Object("preventExtensions", c.trap("preventExtensions", func(call vm.FunctionCall) (vm.Value, error) {
					return c.Runtime().Call("Reflect.preventExtensions", call.Argument(0))
				})))
				c.Equal(c.Call("Object.preventExtensions", honest), honest, "a trap that really prevents extensions")
				c.Equal(c.Call("Reflect.isExtensible", target), vm.False, "target is now non-extensible")
			},
		},
		{
			Name:        "proxy/delete-property-invariant",
			Description: "a deleteProperty trap may not report a non-configurable property as deleted",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				c.Call("Object.defineProperty", target, vm.NewString("foo"), c.Object("value", 1))
				c.Call("Reflect.set", target, vm.NewString("bar"), vm.IntValue(2))
				p := c.Proxy(target, c.Object("deleteProperty", c.Returning(vm.True)))
				c.ExpectTypeError(c.Try("Reflect.deleteProperty", p, vm.NewString("foo")), vm.MsgProxyDeleteNonConfigurable)
				c.Equal(c.Get(target, "foo"), vm.IntValue(1), "foo survives")
				c.Equal(c.Call("Reflect.deleteProperty", p, vm.NewString("bar")), vm.True, "configurable property")
				c.Equal(c.Get(target, "bar"), vm.IntValue(2), "the trap did not really delete bar")

				c.Call("Object.preventExtensions", target)
				c.ExpectTypeError(c.Try("Reflect.deleteProperty", p, vm.NewString("bar")), vm.MsgProxyDeleteNonExtensible)
			},
		},
		{
			Name:        "proxy/own-keys-non-extensible-exact",
			Description: "for a non-extensible target ownKeys must list exactly the target's keys",
			Tags:        []string{TagProxy, TagReflect},
			Run: func(c *Case) {
				target := c.Object("a", 1, "b", 2)
				c.Call("Object.preventExtensions", target)
				keysTrap := func(keys ...vm.Value) vm.Value {
					return c.Proxy(target, c.Object("ownKeys", c.trap("ownKeys", func(vm.FunctionCall) (vm.Value, error) {
						return c.Array(keys...), nil
					})))
				}
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(vm.NewString("a"), vm.NewString("b"), vm.NewString("c"))),
					fmt.Sprintf(vm.MsgProxyOwnKeysNonExtensibleNew, "c"))
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(vm.NewString("a"))),
					fmt.Sprintf(vm.MsgProxyOwnKeysNonExtensibleSkipped, "b"))
				got := c.Call("Reflect.ownKeys", keysTrap(vm.NewString("b"), vm.NewString("a")))
				c.Equal(c.Get(got, "0"), vm.NewString("b"), "trap order is kept")
				c.Equal(c.Get(got, "length"), vm.IntValue(2), "exact key count")
				c.Check(c.Keys(c.Proxy(target, c.Object())) == c.Keys(target), "forwarding proxy keys differ")
			},
		},
		{
			Name:        "proxy/own-keys-result-validation",
			Description: "ownKeys results must be unique strings or symbols covering non-configurable keys",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				c.Call("Object.defineProperty", target, vm.NewString("fixed"), c.Object("value", 1))
				keysTrap := func(result vm.Value) vm.Value {
					return c.Proxy(target, c.Object("ownKeys", c.Returning(result)))
				}
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(vm.IntValue(1))), fmt.Sprintf(vm.MsgNotAnObject, "1"))
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(c.Array(vm.NewString("fixed"), vm.IntValue(1)))), vm.MsgProxyOwnKeysNotStringOrSymbol)
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(c.Array(vm.NewString("fixed"), vm.NewString("fixed")))), vm.MsgProxyOwnKeysDuplicates)
				c.ExpectTypeError(c.Try("Reflect.ownKeys", keysTrap(c.Array())), fmt.Sprintf(vm.MsgProxyOwnKeysSkippedNonConfig, "fixed"))
				got := c.Call("Reflect.ownKeys", keysTrap(c.Array(vm.NewString("fixed"), vm.NewString("extra"))))
				c.Equal(c.Get(got, "length"), vm.IntValue(2), "extensible target allows extra keys")
			},
		},
		{
			Name:        "proxy/revoke-is-idempotent",
			Description: "revoking twice equals revoking once and every operation then fails alike",
			Tags:        []string{TagProxy, TagReflect},
			Run: func(c *Case) {
				pair := c.Call("Proxy.revocable", c.Object("x", 1), c.Object())
				p, revoke := c.Get(pair, "proxy"), c.Get(pair, "revoke")
				c.Equal(c.Get(p, "x"), vm.IntValue(1), "live proxy forwards")
				for i := 0; i < 2; i++ {
					c.Equal(c.Must(c.Realm().Call(revoke, vm.Undefined, nil)), vm.Undefined, "revoke result")
				}
				for _, op := range []struct {
					path string
					args []vm.Value
				}{
					{"Reflect.get", []vm.Value{p, vm.NewString("x")}},
					{"Reflect.set", []vm.Value{p, vm.NewString("x"), vm.IntValue(2)}},
					{"Reflect.has", []vm.Value{p, vm.NewString("x")}},
					{"Reflect.deleteProperty", []vm.Value{p, vm.NewString("x")}},
					{"Reflect.ownKeys", []vm.Value{p}},
					{"Reflect.getOwnPropertyDescriptor", []vm.Value{p, vm.NewString("x")}},
					{"Reflect.defineProperty", []vm.Value{p, vm.NewString("x"), c.Object()}},
					{"Reflect.getPrototypeOf", []vm.Value{p}},
					{"Reflect.setPrototypeOf", []vm.Value{p, vm.Null}},
					{"Reflect.isExtensible", []vm.Value{p}},
					{"Reflect.preventExtensions", []vm.Value{p}},
				} {
					c.ExpectTypeError(c.Try(op.path, op.args...), vm.MsgProxyRevoked)
				}
				c.Equal(c.Get(revoke, "length"), vm.IntValue(0), "revoke.length")
			},
		},
		{
			Name:        "proxy/missing-traps-forward",
			Description: "undefined and null traps forward each operation to the target unchanged",
			Tags:        []string{TagProxy, TagReflect},
			Run: func(c *Case) {
				target := c.Object("x", 1)
				handler := c.Object("get", vm.Null, "set", vm.Undefined)
				p := c.Proxy(target, handler)
				c.Equal(c.Get(p, "x"), vm.IntValue(1), "get")
				c.Equal(c.Call("Reflect.set", p, vm.NewString("y"), vm.IntValue(2)), vm.True, "set")
				c.Equal(c.Get(target, "y"), vm.IntValue(2), "set lands on target")
				c.Equal(c.Call("Reflect.has", p, vm.NewString("y")), vm.True, "has")
				c.Equal(c.Call("Reflect.defineProperty", p, vm.NewString("z"), c.Object("value", 3)), vm.True, "defineProperty")
				c.Equal(c.Call("Reflect.deleteProperty", p, vm.NewString("x")), vm.True, "deleteProperty")
				c.Check(c.Keys(p) == "y,z", "ownKeys %s", c.Keys(p))
				c.Equal(c.Call("Reflect.getPrototypeOf", p), c.Lookup("Object.prototype"), "getPrototypeOf")
				c.Equal(c.Call("Reflect.setPrototypeOf", p, vm.Null), vm.True, "setPrototypeOf")
				c.Equal(c.Call("Reflect.getPrototypeOf", target), vm.Null, "target prototype")
			},
		},
		{
			Name:        "proxy/trap-receives-handler-and-arguments",
			Description: "traps run with this bound to the handler and the target first",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				var handler vm.Value
				var okThis, okTarget bool
				var gotKey, gotReceiver vm.Value
				handler = c.Object("get", c.trap("get", func(call vm.FunctionCall) (vm.Value, error) {
					okThis = vm.SameValue(call.This, handler)
					okTarget = vm.SameValue(call.Argument(0), target)
					gotKey, gotReceiver = call.Argument(1), call.Argument(2)
					return vm.NewString("trapped"), nil
				}))
				p := c.Proxy(target, handler)
				recv := c.Object()
				c.Equal(c.Call("Reflect.get", p, vm.IntValue(7), recv), vm.NewString("trapped"), "result")
				c.Check(okThis, "this is not the handler")
				c.Check(okTarget, "first argument is not the target")
				c.Equal(gotKey, vm.NewString("7"), "key is passed as a string")
				c.Equal(gotReceiver, recv, "receiver")
			},
		},
		{
			Name:        "proxy/invalid-trap",
			Description: "a trap that is neither nullish nor callable is a TypeError",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				p := c.Proxy(c.Object(), c.Object("has", vm.IntValue(1)))
				c.ExpectTypeError(c.Try("Reflect.has", p, vm.NewString("x")), fmt.Sprintf(vm.MsgProxyInvalidTrap, "has"))
			},
		},
		{
			Name:        "proxy/trap-errors-propagate",
			Description: "an exception thrown by a trap reaches the caller unchanged",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				p := c.Proxy(c.Object(), c.Object("get", c.trap("get", func(call vm.FunctionCall) (vm.Value, error) {
					return vm.Undefined, call.Realm().NewRangeError("from trap")
				})))
				c.ExpectRangeError(c.Try("Reflect.get", p, vm.NewString("x")), "from trap")
			},
		},
		{
			Name:        "proxy/get-own-property-descriptor-invariants",
			Description: "descriptor traps cannot hide or invent non-configurable properties",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object("loose", 1)
				c.Call("Object.defineProperty", target, vm.NewString("fixed"), c.Object("value", 1))
				hide := c.Proxy(target, c.Object("getOwnPropertyDescriptor", c.Returning(vm.Undefined)))
				c.ExpectTypeError(c.Try("Reflect.getOwnPropertyDescriptor", hide, vm.NewString("fixed")), vm.MsgProxyGetOwnDescriptorNonConfigurable)
				c.Equal(c.Call("Reflect.getOwnPropertyDescriptor", hide, vm.NewString("loose")), vm.Undefined, "a configurable property may be hidden")

				bad := c.Proxy(target, c.Object("getOwnPropertyDescriptor", c.Returning(vm.IntValue(1))))
				c.ExpectTypeError(c.Try("Reflect.getOwnPropertyDescriptor", bad, vm.NewString("loose")), vm.MsgProxyGetOwnDescriptorReturn)

				invent := c.Proxy(target, c.Object("getOwnPropertyDescriptor", c.Returning(c.Object("value", 1, "configurable", false))))
				c.ExpectTypeError(c.Try("Reflect.getOwnPropertyDescriptor", invent, vm.NewString("loose")), vm.MsgProxyGetOwnDescriptorInvalidNonConfig)

				got := c.Call("Reflect.getOwnPropertyDescriptor", c.Proxy(target, c.Object("getOwnPropertyDescriptor", c.Returning(c.Object("value", 5, "configurable", true)))), vm.NewString("loose"))
				c.Check(c.Keys(got) == "value,writable,enumerable,configurable", "reported descriptor is completed: %s", c.Keys(got))
				c.Equal(c.Get(got, "value"), vm.IntValue(5), "reported value")
			},
		},
		{
			Name:        "proxy/get-set-invariants",
			Description: "immutable target properties pin what get and set traps may report",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				c.Call("Object.defineProperty", target, vm.NewString("pinned"), c.Object("value", 1))
				c.Call("Object.defineProperty", target, vm.NewString("getterless"), c.Object("set", c.Returning(vm.Undefined)))
				p := c.Proxy(target, c.Object("get", c.Returning(vm.IntValue(2)), "set", c.Returning(vm.True)))

				c.ExpectTypeError(c.Try("Reflect.get", p, vm.NewString("pinned")), vm.MsgProxyGetImmutableDataProperty)
				c.ExpectTypeError(c.Try("Reflect.get", p, vm.NewString("getterless")), vm.MsgProxyGetNonConfigurableAccessor)
				c.ExpectTypeError(c.Try("Reflect.set", p, vm.NewString("pinned"), vm.IntValue(2)), vm.MsgProxySetImmutableDataProperty)
				c.Equal(c.Call("Reflect.get", p, vm.NewString("free")), vm.IntValue(2), "unconstrained key")

				same := c.Proxy(target, c.Object("get", c.Returning(vm.IntValue(1))))
				c.Equal(c.Call("Reflect.get", same, vm.NewString("pinned")), vm.IntValue(1), "matching value")
			},
		},
		{
			Name:        "proxy/has-invariants",
			Description: "a has trap cannot hide non-configurable keys or keys of a non-extensible target",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object("loose", 1)
				c.Call("Object.defineProperty", target, vm.NewString("fixed"), c.Object("value", 1))
				p := c.Proxy(target, c.Object("has", c.Returning(vm.False)))
				c.ExpectTypeError(c.Try("Reflect.has", p, vm.NewString("fixed")), vm.MsgProxyHasExistingNonConfigurable)
				c.Equal(c.Call("Reflect.has", p, vm.NewString("loose")), vm.False, "configurable key may be hidden")
				c.Call("Object.preventExtensions", target)
				c.ExpectTypeError(c.Try("Reflect.has", p, vm.NewString("loose")), vm.MsgProxyHasExistingNonExtensible)
			},
		},
		{
			Name:        "proxy/define-property-invariants",
			Description: "a defineProperty trap cannot claim definitions the target would refuse",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object("loose", 1)
				p := c.Proxy(target, c.Object("defineProperty", c.Returning(vm.True)))
				c.ExpectTypeError(c.Try("Reflect.defineProperty", p, vm.NewString("fresh"), c.Object("value", 1, "configurable", false)),
					vm.MsgProxyDefinePropNonConfigurableNonExisting)
				c.ExpectTypeError(c.Try("Reflect.defineProperty", p, vm.NewString("loose"), c.Object("configurable", false)),
					vm.MsgProxyDefinePropExistingConfigurable)
				c.Equal(c.Call("Reflect.defineProperty", p, vm.NewString("fresh"), c.Object("value", 1, "configurable", true)), vm.True,
					"a configurable definition may be claimed")
				c.Call("Object.preventExtensions", target)
				c.ExpectTypeError(c.Try("Reflect.defineProperty", p, vm.NewString("fresh"), c.Object("value", 1, "configurable", true)),
					vm.MsgProxyDefinePropNonExtensible)
			},
		},
		{
			Name:        "proxy/extensibility-and-prototype-invariants",
			Description: "isExtensible must match the target and a non-extensible target pins the prototype",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				lie := c.Proxy(target, c.Object("isExtensible", c.Returning(vm.False)))
				c.ExpectTypeError(c.Try("Reflect.isExtensible", lie), vm.MsgProxyIsExtensibleReturn)

				other := c.Object()
				protoLie := c.Proxy(target, c.Object("getPrototypeOf", c.Returning(other), "setPrototypeOf", c.Returning(vm.True)))
				c.Equal(c.Call("Reflect.getPrototypeOf", protoLie), other, "extensible target allows any prototype")
				c.ExpectTypeError(c.Try("Reflect.getPrototypeOf", c.Proxy(target, c.Object("getPrototypeOf", c.Returning(vm.IntValue(1))))),
					vm.MsgProxyGetPrototypeOfReturn)

				c.Call("Object.preventExtensions", target)
				c.ExpectTypeError(c.Try("Reflect.getPrototypeOf", protoLie), vm.MsgProxyGetPrototypeOfNonExtensible)
				c.ExpectTypeError(c.Try("Reflect.setPrototypeOf", protoLie, other), vm.MsgProxySetPrototypeOfNonExtensible)
				c.Equal(c.Call("Reflect.setPrototypeOf", protoLie, c.Lookup("Object.prototype")), vm.True, "unchanged prototype")
			},
		},
		{
			Name:        "proxy/invariants-use-live-target-state",
			Description: "invariants are checked against the target as the trap left it",
			Tags:        []string{TagProxy, TagReflect},
			Run: func(c *Case) {
				target := c.Object("x", 1)
				p := c.Proxy(target, c.Object("getOwnPropertyDescriptor", c.trap("getOwnPropertyDescriptor", func(call vm.FunctionCall) (vm.Value, error) {
					// pin x before denying it exists
					if _, err := c.Runtime().Call("Object.defineProperty", call.Argument(0), call.Argument(1), c.Object("configurable", false)); err != nil {
						return vm.Undefined, err
					}
					return vm.Undefined, nil
				})))
				c.ExpectTypeError(c.Try("Reflect.getOwnPropertyDescriptor", p, vm.NewString("x")), vm.MsgProxyGetOwnDescriptorNonConfigurable)
				desc := c.Call("Reflect.getOwnPropertyDescriptor", target, vm.NewString("x"))
				c.Equal(c.Get(desc, "configurable"), vm.False, "the trap's mutation is not rolled back")
			},
		},
		{
			Name:        "proxy/reentrant-traps",
			Description: "a trap may re-enter the same proxy without corrupting results",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				target := c.Object()
				var p vm.Value
				depth := 0
				p = c.Proxy(target, c.Object("get", c.trap("get", func(call vm.FunctionCall) (vm.Value, error) {
					key := call.Argument(1).AsString()
					if key == "0" {
						return vm.IntValue(0), nil
					}
					depth++
					n := len(key)
					inner, err := call.Realm().GetV(p, vm.NewStringKey(key[:n-1]))
					if err != nil {
						return vm.Undefined, err
					}
					return vm.NumberValue(inner.AsNumber() + 1), nil
				})))
				c.Equal(c.Get(p, "00000"), vm.IntValue(4), "recursive get")
				c.Check(depth == 4, "trap re-entered %d times", depth)
			},
		},
		{
			Name:        "proxy/call-depth-is-bounded",
			Description: "unbounded trap recursion ends in a RangeError instead of exhausting the stack",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				var p vm.Value
				p = c.Proxy(c.Object(), c.Object("get", c.trap("get", func(call vm.FunctionCall) (vm.Value, error) {
					return call.Realm().GetV(p, vm.NewStringKey("again"))
				})))
				_, err := c.Realm().GetV(p, vm.NewStringKey("x"))
				c.ExpectRangeError(err, vm.MsgCallStackSizeExceeded)
				c.Check(c.Realm().CallDepth() == 0, "call depth is %d after unwinding", c.Realm().CallDepth())
			},
		},
		{
			Name:        "proxy/apply-and-construct-need-capable-targets",
			Description: "only callable targets give callable proxies and construct traps must return objects",
			Tags:        []string{TagProxy, TagFunction},
			Run: func(c *Case) {
				r := c.Realm()
				plain := c.Proxy(c.Object(), c.Object("apply", c.Returning(vm.IntValue(1))))
				_, err := r.CallExpr("plain", plain, vm.Undefined, nil)
				c.ExpectTypeError(err, "plain is not a function")

				fnOnly := c.Proxy(c.Lookup("Reflect.get"), c.Object("construct", c.Returning(c.Object())))
				_, err = r.ConstructExpr("fnOnly", fnOnly, nil, vm.Undefined)
				c.ExpectTypeError(err, "fnOnly is not a constructor")

				var gotThis vm.Value
				var gotArgs vm.Value
				callable := c.Proxy(c.Lookup("Reflect.get"), c.Object("apply", c.trap("apply", func(call vm.FunctionCall) (vm.Value, error) {
					gotThis, gotArgs = call.Argument(1), call.Argument(2)
					return vm.NewString("applied"), nil
				})))
				this := c.Object()
				c.Equal(c.Must(r.Call(callable, this, []vm.Value{vm.IntValue(1), vm.IntValue(2)})), vm.NewString("applied"), "apply result")
				c.Equal(gotThis, this, "thisArg")
				c.Equal(c.Get(gotArgs, "length"), vm.IntValue(2), "argument array")

				ctor := r.NewConstructor(0, "C", func(vm.FunctionCall) (vm.Value, error) { return vm.Undefined, nil }).Value()
				badCtor := c.Proxy(ctor, c.Object("construct", c.Returning(vm.IntValue(1))))
				_, err = r.Construct(badCtor, nil, vm.Undefined)
				c.ExpectTypeError(err, vm.MsgProxyConstructBadReturnType)
			},
		},
		{
			Name:        "proxy/constructor-contract",
			Description: "Proxy requires new and two object arguments",
			Tags:        []string{TagProxy},
			Run: func(c *Case) {
				c.ExpectTypeError(c.Try("Proxy", c.Object(), c.Object()), vm.MsgProxyCallWithNew)
				_, err := c.Runtime().Construct("Proxy", c.Object())
				c.ExpectTypeError(err, vm.MsgProxyTwoArguments)
				_, err = c.Runtime().Construct("Proxy", vm.IntValue(1), c.Object())
				c.ExpectTypeError(err, fmt.Sprintf(vm.MsgProxyConstructorBadType, "target", "1"))
				_, err = c.Runtime().Construct("Proxy", c.Object(), vm.Null)
				c.ExpectTypeError(err, fmt.Sprintf(vm.MsgProxyConstructorBadType, "handler", "null"))
				c.Equal(c.Get(c.Lookup("Proxy"), "length"), vm.IntValue(2), "Proxy.length")
				c.Equal(c.Call("Reflect.has", c.Lookup("Proxy"), vm.NewString("prototype")), vm.False, "Proxy has no prototype property")
			},
		},
	}
}
