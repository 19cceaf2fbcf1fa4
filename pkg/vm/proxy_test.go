package vm

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlerWith(r *Realm, traps map[string]NativeFunction) *Object {
	h := r.NewPlainObject()
	for name, fn := range traps {
		h.SetOwn(name, r.NewNativeFunction(0, name, fn).Value())
	}
	return h
}

func returning(v Value) NativeFunction {
	return func(FunctionCall) (Value, error) { return v, nil }
}

func requireTypeError(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, IsTypeError(err), "expected TypeError, got %v", err)
	assert.Equal(t, msg, err.(*Exception).Message())
}

func TestProxyForwardsWithoutTraps(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	target.SetOwn("a", IntValue(1))
	p := r.NewProxy(target, r.NewPlainObject())

	v, err := r.Get(p, NewStringKey("a"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.AsNumber())

	require.NoError(t, r.SetValue(p, NewStringKey("b"), IntValue(2), true))
	v, _ = r.Get(target, NewStringKey("b"))
	assert.Equal(t, 2.0, v.AsNumber())

	keys, err := p.OwnPropertyKeys()
	require.NoError(t, err)
	assert.Equal(t, []PropertyKey{NewStringKey("a"), NewStringKey("b")}, keys)

	ok, err := p.Delete(NewStringKey("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	has, _ := target.HasProperty(NewStringKey("a"))
	assert.False(t, has)

	proto, err := p.GetPrototypeOf()
	require.NoError(t, err)
	assert.Same(t, r.ObjectPrototype, proto)
	assert.Equal(t, "Object", p.Class())
	assert.False(t, p.IsCallable())
}

func TestProxyTrapReceivesHandlerAsThis(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	var gotThis, gotTarget, gotKey, gotReceiver Value
	handler := handlerWith(r, map[string]NativeFunction{
		"get": func(call FunctionCall) (Value, error) {
			gotThis = call.This
			gotTarget, gotKey, gotReceiver = call.Argument(0), call.Argument(1), call.Argument(2)
			return NewString("trapped"), nil
		},
	})
	p := r.NewProxy(target, handler)

	v, err := r.Get(p, NewStringKey("x"))
	require.NoError(t, err)
	assert.Equal(t, "trapped", v.AsString())
	assert.True(t, SameValue(handler.Value(), gotThis))
	assert.True(t, SameValue(target.Value(), gotTarget))
	assert.Equal(t, "x", gotKey.AsString())
	assert.True(t, SameValue(p.Value(), gotReceiver))
}

func TestProxyInvalidTrap(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	handler := r.NewPlainObject()
	handler.SetOwn("has", IntValue(1))
	handler.SetOwn("get", Null)
	target := r.NewPlainObject()
	target.SetOwn("a", IntValue(1))
	p := r.NewProxy(target, handler)

	_, err := p.HasProperty(NewStringKey("a"))
	requireTypeError(t, err, fmt.Sprintf(MsgProxyInvalidTrap, "has"))

	v, err := r.Get(p, NewStringKey("a"))
	require.NoError(t, err, "null traps forward to the target")
	assert.Equal(t, 1.0, v.AsNumber())
}

func TestProxyRevocation(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	p := r.NewProxy(target, r.NewPlainObject())
	p.RevokeProxy()
	p.RevokeProxy()

	assert.True(t, p.IsRevokedProxy())
	_, ok := p.ProxyTarget()
	assert.False(t, ok)
	_, ok = p.ProxyHandler()
	assert.False(t, ok)

	_, err := r.Get(p, NewStringKey("a"))
	requireTypeError(t, err, MsgProxyRevoked)
	_, err = p.OwnPropertyKeys()
	requireTypeError(t, err, MsgProxyRevoked)
	_, err = p.GetPrototypeOf()
	requireTypeError(t, err, MsgProxyRevoked)
	_, err = r.IsArray(p.Value())
	requireTypeError(t, err, MsgProxyRevoked)

	target.RevokeProxy()
	assert.False(t, target.IsRevokedProxy(), "revoking a non-proxy does nothing")
}

func TestProxyCreateValidation(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	_, err := r.ProxyCreate(IntValue(1), r.NewPlainObject().Value())
	requireTypeError(t, err, "Expected target argument of Proxy constructor to be object, got 1")
	_, err = r.ProxyCreate(r.NewPlainObject().Value(), Null)
	requireTypeError(t, err, "Expected handler argument of Proxy constructor to be object, got null")

	revoked := r.NewProxy(r.NewPlainObject(), r.NewPlainObject())
	revoked.RevokeProxy()
	p, err := r.ProxyCreate(revoked.Value(), revoked.Value())
	require.NoError(t, err, "revoked proxies are acceptable targets and handlers")
	_, err = r.Get(p, NewStringKey("x"))
	requireTypeError(t, err, MsgProxyRevoked)
}

func TestProxyNested(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	target.SetOwn("a", IntValue(1))
	inner := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{
		"get": func(call FunctionCall) (Value, error) {
			v, err := call.Realm().Get(call.Argument(0).AsObject(), NewStringKey("a"))
			if err != nil {
				return Undefined, err
			}
			return NumberValue(v.AsNumber() + 1), nil
		},
	}))
	outer := r.NewProxy(inner, r.NewPlainObject())
	v, err := r.Get(outer, NewStringKey("a"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.AsNumber())

	var looked []string
	metaHandler := r.NewProxy(r.NewPlainObject(), handlerWith(r, map[string]NativeFunction{
		"get": func(call FunctionCall) (Value, error) {
			looked = append(looked, call.Argument(1).AsString())
			return Undefined, nil
		},
	}))
	p := r.NewProxy(target, metaHandler)
	_, err = p.HasProperty(NewStringKey("a"))
	require.NoError(t, err)
	_, err = r.Get(p, NewStringKey("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"has", "get"}, looked, "trap lookup goes through the handler's [[Get]]")
}

func TestProxyGetPrototypeOfInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	other := r.NewPlainObject()

	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"getPrototypeOf": returning(IntValue(1))}))
	_, err := p.GetPrototypeOf()
	requireTypeError(t, err, MsgProxyGetPrototypeOfReturn)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"getPrototypeOf": returning(other.Value())}))
	proto, err := p.GetPrototypeOf()
	require.NoError(t, err)
	assert.Same(t, other, proto, "extensible targets may report anything")

	_, _ = target.PreventExtensions()
	_, err = p.GetPrototypeOf()
	requireTypeError(t, err, MsgProxyGetPrototypeOfNonExtensible)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"getPrototypeOf": returning(r.ObjectPrototype.Value())}))
	proto, err = p.GetPrototypeOf()
	require.NoError(t, err)
	assert.Same(t, r.ObjectPrototype, proto)
}

func TestProxySetPrototypeOfInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"setPrototypeOf": returning(True)}))

	ok, err := p.SetPrototypeOf(nil)
	require.NoError(t, err)
	assert.True(t, ok)
	proto, _ := target.GetPrototypeOf()
	assert.Same(t, r.ObjectPrototype, proto, "trap result true does not touch the target")

	_, _ = target.PreventExtensions()
	_, err = p.SetPrototypeOf(nil)
	requireTypeError(t, err, MsgProxySetPrototypeOfNonExtensible)

	ok, err = p.SetPrototypeOf(r.ObjectPrototype)
	require.NoError(t, err)
	assert.True(t, ok)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"setPrototypeOf": returning(False)}))
	ok, err = p.SetPrototypeOf(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProxyExtensibilityInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()

	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"isExtensible": returning(False)}))
	_, err := p.IsExtensible()
	requireTypeError(t, err, MsgProxyIsExtensibleReturn)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"isExtensible": returning(NewString("yes"))}))
	ext, err := p.IsExtensible()
	require.NoError(t, err)
	assert.True(t, ext)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"preventExtensions": returning(True)}))
	_, err = p.PreventExtensions()
	requireTypeError(t, err, MsgProxyPreventExtensionsReturn)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"preventExtensions": returning(False)}))
	ok, err := p.PreventExtensions()
	require.NoError(t, err)
	assert.False(t, ok)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{
		"preventExtensions": func(call FunctionCall) (Value, error) {
			_, err := call.Argument(0).AsObject().PreventExtensions()
			return True, err
		},
	}))
	ok, err = p.PreventExtensions()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProxyGetOwnPropertyDescriptorInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	descObj := func(fields map[string]Value) Value {
		o := r.NewPlainObject()
		for k, v := range fields {
			o.SetOwn(k, v)
		}
		return o.Value()
	}
	trap := func(target *Object, res Value) *Object {
		return r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"getOwnPropertyDescriptor": returning(res)}))
	}

	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), false, true, false)
	target.SetOwn("loose", IntValue(2))

	_, _, err := trap(target, IntValue(1)).GetOwnProperty(NewStringKey("loose"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorReturn)

	_, _, err = trap(target, Undefined).GetOwnProperty(NewStringKey("fixed"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorNonConfigurable)

	_, has, err := trap(target, Undefined).GetOwnProperty(NewStringKey("loose"))
	require.NoError(t, err)
	assert.False(t, has, "configurable properties may be hidden")

	_, _, err = trap(target, descObj(map[string]Value{"value": IntValue(1), "configurable": False})).
		GetOwnProperty(NewStringKey("missing"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorInvalidNonConfig)

	_, _, err = trap(target, descObj(map[string]Value{"value": IntValue(9)})).GetOwnProperty(NewStringKey("fixed"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorInvalidDescriptor)

	w := r.NewPlainObject()
	w.DefineOwnPropertyByKey(NewStringKey("w"), IntValue(1), true, true, false)
	_, _, err = trap(w, descObj(map[string]Value{"value": IntValue(1), "writable": False, "configurable": False, "enumerable": True})).
		GetOwnProperty(NewStringKey("w"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorNonConfigNonWritable)

	desc, has, err := trap(target, descObj(map[string]Value{"value": IntValue(5), "configurable": True})).
		GetOwnProperty(NewStringKey("synth"))
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, 5.0, desc.Value.AsNumber())
	assert.Equal(t, FlagFalse, desc.Writable, "the trap result is completed")
	assert.Equal(t, FlagFalse, desc.Enumerable)

	_, _ = target.PreventExtensions()
	_, _, err = trap(target, Undefined).GetOwnProperty(NewStringKey("loose"))
	requireTypeError(t, err, MsgProxyGetOwnDescriptorNonExtensible)
}

func TestProxyDefinePropertyInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	var seen Value
	trueTrap := func(target *Object) *Object {
		return r.NewProxy(target, handlerWith(r, map[string]NativeFunction{
			"defineProperty": func(call FunctionCall) (Value, error) {
				seen = call.Argument(2)
				return True, nil
			},
		}))
	}

	target := r.NewPlainObject()
	ok, err := trueTrap(target).DefineOwnProperty(NewStringKey("a"), PropertyDescriptor{Value: IntValue(1), HasValue: true})
	require.NoError(t, err)
	assert.True(t, ok)
	keys, _ := seen.AsObject().OwnPropertyKeys()
	assert.Equal(t, []PropertyKey{keyValue}, keys, "only present fields reach the trap")

	_, err = trueTrap(target).DefineOwnProperty(NewStringKey("a"), DataDescriptor(IntValue(1), true, true, false))
	requireTypeError(t, err, MsgProxyDefinePropNonConfigurableNonExisting)

	target.SetOwn("c", IntValue(1))
	_, err = trueTrap(target).DefineOwnProperty(NewStringKey("c"), PropertyDescriptor{Configurable: FlagFalse})
	requireTypeError(t, err, MsgProxyDefinePropExistingConfigurable)

	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), false, false, false)
	_, err = trueTrap(target).DefineOwnProperty(NewStringKey("fixed"), PropertyDescriptor{Value: IntValue(2), HasValue: true})
	requireTypeError(t, err, MsgProxyDefinePropIncompatibleDescriptor)

	target.DefineOwnPropertyByKey(NewStringKey("w"), IntValue(1), true, false, false)
	_, err = trueTrap(target).DefineOwnProperty(NewStringKey("w"), PropertyDescriptor{Writable: FlagFalse, Configurable: FlagFalse})
	requireTypeError(t, err, MsgProxyDefinePropNonWritable)

	_, _ = target.PreventExtensions()
	_, err = trueTrap(target).DefineOwnProperty(NewStringKey("new"), PropertyDescriptor{Value: IntValue(1), HasValue: true})
	requireTypeError(t, err, MsgProxyDefinePropNonExtensible)

	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"defineProperty": returning(False)}))
	ok, err = p.DefineOwnProperty(NewStringKey("new"), PropertyDescriptor{Value: IntValue(1), HasValue: true})
	require.NoError(t, err)
	assert.False(t, ok)
	err = r.DefinePropertyOrThrow(p, NewStringKey("new"), PropertyDescriptor{Value: IntValue(1), HasValue: true})
	requireTypeError(t, err, MsgDefineOwnPropertyFalse)
}

func TestProxyHasInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), true, true, false)
	target.SetOwn("loose", IntValue(1))
	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"has": returning(False)}))

	_, err := p.HasProperty(NewStringKey("fixed"))
	requireTypeError(t, err, MsgProxyHasExistingNonConfigurable)

	has, err := p.HasProperty(NewStringKey("loose"))
	require.NoError(t, err)
	assert.False(t, has)

	_, _ = target.PreventExtensions()
	_, err = p.HasProperty(NewStringKey("loose"))
	requireTypeError(t, err, MsgProxyHasExistingNonExtensible)
}

func TestProxyGetSetInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("frozen"), IntValue(1), false, true, false)
	target.DefineAccessorByKey(NewStringKey("noget"), Undefined, Undefined, true, false)

	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{
		"get": returning(IntValue(2)),
		"set": returning(True),
	}))
	_, err := r.Get(p, NewStringKey("frozen"))
	requireTypeError(t, err, MsgProxyGetImmutableDataProperty)
	_, err = r.Get(p, NewStringKey("noget"))
	requireTypeError(t, err, MsgProxyGetNonConfigurableAccessor)
	v, err := r.Get(p, NewStringKey("other"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.AsNumber())

	_, err = p.Set(NewStringKey("frozen"), IntValue(2), p.Value())
	requireTypeError(t, err, MsgProxySetImmutableDataProperty)
	ok, err := p.Set(NewStringKey("frozen"), IntValue(1), p.Value())
	require.NoError(t, err)
	assert.True(t, ok, "writing the same value is allowed")
	_, err = p.Set(NewStringKey("noget"), IntValue(1), p.Value())
	requireTypeError(t, err, MsgProxySetNonConfigurableAccessor)

	p = r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"set": returning(False)}))
	err = r.SetValue(p, NewStringKey("x"), IntValue(1), true)
	requireTypeError(t, err, MsgSetFalse)
	require.NoError(t, r.SetValue(p, NewStringKey("x"), IntValue(1), false))
}

func TestProxyDeleteInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), true, true, false)
	target.SetOwn("loose", IntValue(1))
	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"deleteProperty": returning(True)}))

	_, err := p.Delete(NewStringKey("fixed"))
	requireTypeError(t, err, MsgProxyDeleteNonConfigurable)

	ok, err := p.Delete(NewStringKey("loose"))
	require.NoError(t, err)
	assert.True(t, ok)
	has, _ := target.HasProperty(NewStringKey("loose"))
	assert.True(t, has, "the trap decides, the target is untouched")

	_, _ = target.PreventExtensions()
	_, err = p.Delete(NewStringKey("loose"))
	requireTypeError(t, err, MsgProxyDeleteNonExtensible)

	ok, err = p.Delete(NewStringKey("missing"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProxyOwnKeysInvariants(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	keysTrap := func(target *Object, keys ...Value) *Object {
		return r.NewProxy(target, handlerWith(r, map[string]NativeFunction{
			"ownKeys": func(call FunctionCall) (Value, error) {
				return call.Realm().NewArray(keys...).Value(), nil
			},
		}))
	}

	target := r.NewPlainObject()
	_, err := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"ownKeys": returning(IntValue(1))})).OwnPropertyKeys()
	requireTypeError(t, err, fmt.Sprintf(MsgNotAnObject, "1"))

	_, err = keysTrap(target, NewString("a"), IntValue(1)).OwnPropertyKeys()
	requireTypeError(t, err, MsgProxyOwnKeysNotStringOrSymbol)

	_, err = keysTrap(target, NewString("a"), NewString("a")).OwnPropertyKeys()
	requireTypeError(t, err, MsgProxyOwnKeysDuplicates)

	sym := NewSymbol("s")
	keys, err := keysTrap(target, NewString("1"), sym.Value(), NewString("z")).OwnPropertyKeys()
	require.NoError(t, err)
	assert.Equal(t, []PropertyKey{NewIndexKey(1), NewSymbolKey(sym), NewStringKey("z")}, keys, "trap order is kept")

	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), true, true, false)
	_, err = keysTrap(target).OwnPropertyKeys()
	requireTypeError(t, err, fmt.Sprintf(MsgProxyOwnKeysSkippedNonConfig, "fixed"))

	target.SetOwn("loose", IntValue(1))
	keys, err = keysTrap(target, NewString("fixed"), NewString("extra")).OwnPropertyKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	_, _ = target.PreventExtensions()
	_, err = keysTrap(target, NewString("fixed")).OwnPropertyKeys()
	requireTypeError(t, err, fmt.Sprintf(MsgProxyOwnKeysNonExtensibleSkipped, "loose"))

	_, err = keysTrap(target, NewString("fixed"), NewString("loose"), NewString("extra")).OwnPropertyKeys()
	requireTypeError(t, err, fmt.Sprintf(MsgProxyOwnKeysNonExtensibleNew, "extra"))

	keys, err = keysTrap(target, NewString("loose"), NewString("fixed")).OwnPropertyKeys()
	require.NoError(t, err)
	assert.Equal(t, []PropertyKey{NewStringKey("loose"), NewStringKey("fixed")}, keys)
}

func TestProxyCallAndConstruct(t *testing.T) {
	t.Parallel()

	r := newTestRealm(t)
	plain := r.NewNativeFunction(0, "plain", returning(NewString("plain")))
	ctor := r.NewConstructor(0, "C", returning(Undefined))

	assert.False(t, r.NewProxy(r.NewPlainObject(), r.NewPlainObject()).IsCallable())
	pf := r.NewProxy(plain, r.NewPlainObject())
	assert.True(t, pf.IsCallable())
	assert.False(t, pf.IsConstructor())
	assert.Equal(t, "Function", pf.Class())
	assert.Equal(t, "function", Typeof(pf.Value()))
	pc := r.NewProxy(ctor, r.NewPlainObject())
	assert.True(t, pc.IsConstructor())

	v, err := r.Call(pf.Value(), Undefined, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", v.AsString())

	_, err = r.Construct(pf.Value(), nil, Undefined)
	require.Error(t, err)
	assert.True(t, IsTypeError(err))

	var argsLen float64
	var gotThis Value
	applied := r.NewProxy(plain, handlerWith(r, map[string]NativeFunction{
		"apply": func(call FunctionCall) (Value, error) {
			gotThis = call.Argument(1)
			argsLen = lengthOf(t, r, call.Argument(2).AsObject())
			return NewString("applied"), nil
		},
	}))
	this := r.NewPlainObject().Value()
	v, err = r.Call(applied.Value(), this, []Value{IntValue(1), IntValue(2)})
	require.NoError(t, err)
	assert.Equal(t, "applied", v.AsString())
	assert.True(t, SameValue(this, gotThis))
	assert.Equal(t, 2.0, argsLen)

	obj, err := r.Construct(pc.Value(), nil, Undefined)
	require.NoError(t, err)
	proto, _ := obj.GetPrototypeOf()
	ctorProto, _ := r.Get(ctor, NewStringKey("prototype"))
	assert.Same(t, ctorProto.AsObject(), proto, "newTarget defaults to the proxy, whose prototype is the target's")

	var gotNewTarget Value
	constructed := r.NewProxy(ctor, handlerWith(r, map[string]NativeFunction{
		"construct": func(call FunctionCall) (Value, error) {
			gotNewTarget = call.Argument(2)
			return IntValue(1), nil
		},
	}))
	_, err = r.Construct(constructed.Value(), nil, Undefined)
	requireTypeError(t, err, MsgProxyConstructBadReturnType)
	assert.True(t, SameValue(constructed.Value(), gotNewTarget))

	revoked := r.NewProxy(plain, r.NewPlainObject())
	revoked.RevokeProxy()
	assert.True(t, revoked.IsCallable(), "revocation does not remove [[Call]]")
	_, err = r.Call(revoked.Value(), Undefined, nil)
	requireTypeError(t, err, MsgProxyRevoked)
}

func TestProxyCallDepth(t *testing.T) {
	t.Parallel()

	r := NewRealm(Options{MaxCallDepth: 64})
	var p *Object
	p = r.NewProxy(r.NewPlainObject(), handlerWith(r, map[string]NativeFunction{
		"get": func(call FunctionCall) (Value, error) {
			return call.Realm().Get(p, NewStringKey(call.Argument(1).AsString()))
		},
	}))
	_, err := r.Get(p, NewStringKey("x"))
	require.Error(t, err)
	assert.True(t, IsRangeError(err))
	assert.Equal(t, MsgCallStackSizeExceeded, err.(*Exception).Message())
	assert.Zero(t, r.CallDepth(), "depth unwinds after the error")

	deep := r.NewObjectWithPrototype(nil)
	for i := 0; i < 100; i++ {
		deep = r.NewProxy(deep, r.NewPlainObject())
	}
	_, err = deep.HasProperty(NewStringKey("x"))
	assert.True(t, IsRangeError(err), "a long proxy chain is bounded too")
}

func TestProxyTraceLogging(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := NewRealm(Options{Logger: logger, TraceTraps: true})

	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), false, false, false)
	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"get": returning(IntValue(2))}))
	_, err := p.HasProperty(NewStringKey("fixed"))
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "proxy dispatch", entry.Message)
	assert.Equal(t, "has", entry.Data["trap"])
	assert.Equal(t, false, entry.Data["handled"])

	hook.Reset()
	_, err = r.Get(p, NewStringKey("fixed"))
	require.Error(t, err)
	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, true, entries[0].Data["handled"])
	assert.Equal(t, "proxy invariant violated", entries[1].Message)
	assert.Equal(t, "get", entries[1].Data["trap"])
	assert.Equal(t, MsgProxyGetImmutableDataProperty, entries[1].Data["invariant"])
}

func TestProxyViolationsSilentWithoutTracing(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	r := NewRealm(Options{Logger: logger})

	target := r.NewPlainObject()
	target.DefineOwnPropertyByKey(NewStringKey("fixed"), IntValue(1), false, false, false)
	p := r.NewProxy(target, handlerWith(r, map[string]NativeFunction{"get": returning(IntValue(2))}))
	_, err := r.Get(p, NewStringKey("fixed"))
	require.True(t, IsTypeError(err))
	assert.Empty(t, hook.AllEntries())
}
