package vm

import (
	"github.com/sirupsen/logrus"
)

// proxyData is the [[ProxyTarget]]/[[ProxyHandler]] pair. Revocation
// clears both and cannot be undone.
type proxyData struct {
	target  *Object
	handler *Object
}

func (p *proxyData) revoked() bool { return p.handler == nil }

var (
	proxyMethods            *internalMethods
	proxyCallableMethods    *internalMethods
	proxyConstructorMethods *internalMethods
)

func initProxyMethods() {
	proxyMethods = &internalMethods{
		getPrototypeOf:    proxyGetPrototypeOf,
		setPrototypeOf:    proxySetPrototypeOf,
		isExtensible:      proxyIsExtensible,
		preventExtensions: proxyPreventExtensions,
		getOwnProperty:    proxyGetOwnProperty,
		defineOwnProperty: proxyDefineOwnProperty,
		hasProperty:       proxyHasProperty,
		get:               proxyGet,
		set:               proxySet,
		delete:            proxyDelete,
		ownPropertyKeys:   proxyOwnPropertyKeys,
	}
	proxyCallableMethods = proxyMethods.with(func(m *internalMethods) {
		m.call = proxyCall
	})
	proxyConstructorMethods = proxyCallableMethods.with(func(m *internalMethods) {
		m.construct = proxyConstruct
	})
}

// NewProxy implements ProxyCreate for object arguments. [[Call]] and
// [[Construct]] are present only if target has them now.
func (r *Realm) NewProxy(target, handler *Object) *Object {
	methods := proxyMethods
	class := "Object"
	switch {
	case target.IsConstructor():
		methods = proxyConstructorMethods
		class = "Function"
	case target.IsCallable():
		methods = proxyCallableMethods
		class = "Function"
	}
	p := newObject(r, KindProxy, class, nil, methods)
	p.internal = &proxyData{target: target, handler: handler}
	return p
}

// ProxyCreate validates its arguments the way the Proxy constructor does.
func (r *Realm) ProxyCreate(target, handler Value) (*Object, error) {
	t := target.AsObject()
	if t == nil {
		return nil, r.NewTypeError(MsgProxyConstructorBadType, "target", target.Inspect())
	}
	h := handler.AsObject()
	if h == nil {
		return nil, r.NewTypeError(MsgProxyConstructorBadType, "handler", handler.Inspect())
	}
	return r.NewProxy(t, h), nil
}

// RevokeProxy revokes o. Revoking twice, or revoking a non-proxy, does
// nothing.
func (o *Object) RevokeProxy() {
	if p, ok := o.internal.(*proxyData); ok && !p.revoked() {
		if o.realm.traceTraps {
			o.realm.logger.WithField("target", p.target.String()).Debug("proxy revoked")
		}
		p.target = nil
		p.handler = nil
	}
}

// ProxyTarget returns the target of a live proxy. The second result is
// false for revoked proxies and non-proxies.
func (o *Object) ProxyTarget() (*Object, bool) {
	p, ok := o.internal.(*proxyData)
	if !ok || p.revoked() {
		return nil, false
	}
	return p.target, true
}

// ProxyHandler returns the handler of a live proxy.
func (o *Object) ProxyHandler() (*Object, bool) {
	p, ok := o.internal.(*proxyData)
	if !ok || p.revoked() {
		return nil, false
	}
	return p.handler, true
}

// IsRevokedProxy reports whether o is a proxy that has been revoked.
func (o *Object) IsRevokedProxy() bool {
	p, ok := o.internal.(*proxyData)
	return ok && p.revoked()
}

func proxyTargetOrThrow(o *Object) (*Object, error) {
	p := o.internal.(*proxyData)
	if p.revoked() {
		return nil, o.realm.NewTypeError(MsgProxyRevoked)
	}
	return p.target, nil
}

// proxyTrap resolves the named trap of a live proxy. A nil trap means the
// operation is forwarded to the target.
func proxyTrap(o *Object, name string) (target, handler, trap *Object, err error) {
	r := o.realm
	p := o.internal.(*proxyData)
	if p.revoked() {
		return nil, nil, nil, r.NewTypeError(MsgProxyRevoked)
	}
	target, handler = p.target, p.handler
	fn, err := handler.Get(NewStringKey(name), handler.Value())
	if err != nil {
		return nil, nil, nil, err
	}
	if fn.IsNullish() {
		r.traceTrap(name, target, false)
		return target, handler, nil, nil
	}
	if !fn.IsCallable() {
		return nil, nil, nil, r.NewTypeError(MsgProxyInvalidTrap, name)
	}
	r.traceTrap(name, target, true)
	return target, handler, fn.AsObject(), nil
}

func (r *Realm) traceTrap(name string, target *Object, present bool) {
	if !r.traceTraps {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"trap":    name,
		"target":  target.String(),
		"handled": present,
	}).Debug("proxy dispatch")
}

// proxyViolation reports a broken invariant as a TypeError.
func (r *Realm) proxyViolation(trap, msg string, args ...any) error {
	err := r.NewTypeError(msg, args...)
	if !r.traceTraps {
		return err
	}
	r.logger.WithFields(logrus.Fields{
		"trap":      trap,
		"invariant": err.Message(),
	}).Debug("proxy invariant violated")
	return err
}

func callTrap(trap, handler *Object, args ...Value) (Value, error) {
	return trap.Call(handler.Value(), args)
}

func proxyGetPrototypeOf(o *Object) (*Object, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "getPrototypeOf")
	if err != nil {
		return nil, err
	}
	if trap == nil {
		return target.GetPrototypeOf()
	}
	res, err := callTrap(trap, handler, target.Value())
	if err != nil {
		return nil, err
	}
	if !res.IsObject() && !res.IsNull() {
		return nil, r.proxyViolation("getPrototypeOf", MsgProxyGetPrototypeOfReturn)
	}
	handlerProto := res.AsObject()
	extensible, err := target.IsExtensible()
	if err != nil {
		return nil, err
	}
	if extensible {
		return handlerProto, nil
	}
	targetProto, err := target.GetPrototypeOf()
	if err != nil {
		return nil, err
	}
	if handlerProto != targetProto {
		return nil, r.proxyViolation("getPrototypeOf", MsgProxyGetPrototypeOfNonExtensible)
	}
	return handlerProto, nil
}

func proxySetPrototypeOf(o *Object, proto *Object) (bool, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "setPrototypeOf")
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.SetPrototypeOf(proto)
	}
	res, err := callTrap(trap, handler, target.Value(), proto.Value())
	if err != nil {
		return false, err
	}
	if !res.ToBoolean() {
		return false, nil
	}
	extensible, err := target.IsExtensible()
	if err != nil {
		return false, err
	}
	if extensible {
		return true, nil
	}
	targetProto, err := target.GetPrototypeOf()
	if err != nil {
		return false, err
	}
	if proto != targetProto {
		return false, r.proxyViolation("setPrototypeOf", MsgProxySetPrototypeOfNonExtensible)
	}
	return true, nil
}

func proxyIsExtensible(o *Object) (bool, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "isExtensible")
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.IsExtensible()
	}
	res, err := callTrap(trap, handler, target.Value())
	if err != nil {
		return false, err
	}
	targetResult, err := target.IsExtensible()
	if err != nil {
		return false, err
	}
	if res.ToBoolean() != targetResult {
		return false, r.proxyViolation("isExtensible", MsgProxyIsExtensibleReturn)
	}
	return targetResult, nil
}

func proxyPreventExtensions(o *Object) (bool, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "preventExtensions")
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.PreventExtensions()
	}
	res, err := callTrap(trap, handler, target.Value())
	if err != nil {
		return false, err
	}
	if !res.ToBoolean() {
		return false, nil
	}
	extensible, err := target.IsExtensible()
	if err != nil {
		return false, err
	}
	if extensible {
		return false, r.proxyViolation("preventExtensions", MsgProxyPreventExtensionsReturn)
	}
	return true, nil
}

func proxyGetOwnProperty(o *Object, key PropertyKey) (PropertyDescriptor, bool, error) {
	const name = "getOwnPropertyDescriptor"
	r := o.realm
	if err := r.enter(); err != nil {
		return PropertyDescriptor{}, false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, name)
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if trap == nil {
		return target.GetOwnProperty(key)
	}
	res, err := callTrap(trap, handler, target.Value(), key.Value())
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if !res.IsObject() && !res.IsUndefined() {
		return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorReturn)
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return PropertyDescriptor{}, false, err
	}

	if res.IsUndefined() {
		if !hasTarget {
			return PropertyDescriptor{}, false, nil
		}
		if targetDesc.Configurable == FlagFalse {
			return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorNonConfigurable)
		}
		extensible, err := target.IsExtensible()
		if err != nil {
			return PropertyDescriptor{}, false, err
		}
		if !extensible {
			return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorNonExtensible)
		}
		return PropertyDescriptor{}, false, nil
	}

	extensible, err := target.IsExtensible()
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	resultDesc, err := r.ToPropertyDescriptor(res)
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	resultDesc = CompletePropertyDescriptor(resultDesc)
	if !IsCompatiblePropertyDescriptor(extensible, resultDesc, targetDesc, hasTarget) {
		return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorInvalidDescriptor)
	}
	if resultDesc.Configurable == FlagFalse {
		if !hasTarget || targetDesc.Configurable == FlagTrue {
			return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorInvalidNonConfig)
		}
		if resultDesc.Writable == FlagFalse && targetDesc.Writable == FlagTrue {
			return PropertyDescriptor{}, false, r.proxyViolation(name, MsgProxyGetOwnDescriptorNonConfigNonWritable)
		}
	}
	return resultDesc, true, nil
}

func proxyDefineOwnProperty(o *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	const name = "defineProperty"
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, name)
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.DefineOwnProperty(key, desc)
	}
	descObj := r.FromPropertyDescriptor(desc, true)
	res, err := callTrap(trap, handler, target.Value(), key.Value(), descObj)
	if err != nil {
		return false, err
	}
	if !res.ToBoolean() {
		return false, nil
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	extensible, err := target.IsExtensible()
	if err != nil {
		return false, err
	}
	settingConfigFalse := desc.Configurable == FlagFalse
	if !hasTarget {
		if !extensible {
			return false, r.proxyViolation(name, MsgProxyDefinePropNonExtensible)
		}
		if settingConfigFalse {
			return false, r.proxyViolation(name, MsgProxyDefinePropNonConfigurableNonExisting)
		}
		return true, nil
	}
	if !IsCompatiblePropertyDescriptor(extensible, desc, targetDesc, true) {
		return false, r.proxyViolation(name, MsgProxyDefinePropIncompatibleDescriptor)
	}
	if settingConfigFalse && targetDesc.Configurable == FlagTrue {
		return false, r.proxyViolation(name, MsgProxyDefinePropExistingConfigurable)
	}
	if targetDesc.IsData() && targetDesc.Configurable == FlagFalse && targetDesc.Writable == FlagTrue {
		if desc.Writable == FlagFalse {
			return false, r.proxyViolation(name, MsgProxyDefinePropNonWritable)
		}
	}
	return true, nil
}

func proxyHasProperty(o *Object, key PropertyKey) (bool, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "has")
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.HasProperty(key)
	}
	res, err := callTrap(trap, handler, target.Value(), key.Value())
	if err != nil {
		return false, err
	}
	if res.ToBoolean() {
		return true, nil
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if hasTarget {
		if targetDesc.Configurable == FlagFalse {
			return false, r.proxyViolation("has", MsgProxyHasExistingNonConfigurable)
		}
		extensible, err := target.IsExtensible()
		if err != nil {
			return false, err
		}
		if !extensible {
			return false, r.proxyViolation("has", MsgProxyHasExistingNonExtensible)
		}
	}
	return false, nil
}

func proxyGet(o *Object, key PropertyKey, receiver Value) (Value, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return Undefined, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "get")
	if err != nil {
		return Undefined, err
	}
	if trap == nil {
		return target.Get(key, receiver)
	}
	res, err := callTrap(trap, handler, target.Value(), key.Value(), receiver)
	if err != nil {
		return Undefined, err
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return Undefined, err
	}
	if hasTarget && targetDesc.Configurable == FlagFalse {
		if targetDesc.IsData() && targetDesc.Writable == FlagFalse && !SameValue(res, targetDesc.Value) {
			return Undefined, r.proxyViolation("get", MsgProxyGetImmutableDataProperty)
		}
		if targetDesc.IsAccessor() && targetDesc.Getter.IsUndefined() && !res.IsUndefined() {
			return Undefined, r.proxyViolation("get", MsgProxyGetNonConfigurableAccessor)
		}
	}
	return res, nil
}

func proxySet(o *Object, key PropertyKey, v Value, receiver Value) (bool, error) {
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, "set")
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.Set(key, v, receiver)
	}
	res, err := callTrap(trap, handler, target.Value(), key.Value(), v, receiver)
	if err != nil {
		return false, err
	}
	if !res.ToBoolean() {
		return false, nil
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if hasTarget && targetDesc.Configurable == FlagFalse {
		if targetDesc.IsData() && targetDesc.Writable == FlagFalse && !SameValue(v, targetDesc.Value) {
			return false, r.proxyViolation("set", MsgProxySetImmutableDataProperty)
		}
		if targetDesc.IsAccessor() && targetDesc.Setter.IsUndefined() {
			return false, r.proxyViolation("set", MsgProxySetNonConfigurableAccessor)
		}
	}
	return true, nil
}

func proxyDelete(o *Object, key PropertyKey) (bool, error) {
	const name = "deleteProperty"
	r := o.realm
	if err := r.enter(); err != nil {
		return false, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, name)
	if err != nil {
		return false, err
	}
	if trap == nil {
		return target.Delete(key)
	}
	res, err := callTrap(trap, handler, target.Value(), key.Value())
	if err != nil {
		return false, err
	}
	if !res.ToBoolean() {
		return false, nil
	}
	targetDesc, hasTarget, err := target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !hasTarget {
		return true, nil
	}
	if targetDesc.Configurable == FlagFalse {
		return false, r.proxyViolation(name, MsgProxyDeleteNonConfigurable)
	}
	extensible, err := target.IsExtensible()
	if err != nil {
		return false, err
	}
	if !extensible {
		return false, r.proxyViolation(name, MsgProxyDeleteNonExtensible)
	}
	return true, nil
}

func proxyOwnPropertyKeys(o *Object) ([]PropertyKey, error) {
	const name = "ownKeys"
	r := o.realm
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	target, handler, trap, err := proxyTrap(o, name)
	if err != nil {
		return nil, err
	}
	if trap == nil {
		return target.OwnPropertyKeys()
	}
	res, err := callTrap(trap, handler, target.Value())
	if err != nil {
		return nil, err
	}
	arr := res.AsObject()
	if arr == nil {
		return nil, r.NewTypeError(MsgNotAnObject, res.Inspect())
	}
	length, err := r.LengthOfArrayLike(arr)
	if err != nil {
		return nil, err
	}
	trapResult := make([]PropertyKey, 0, length)
	seen := make(map[PropertyKey]bool, length)
	for i := 0; i < length; i++ {
		v, err := arr.Get(NewIndexKey(uint32(i)), arr.Value())
		if err != nil {
			return nil, err
		}
		if !v.IsString() && !v.IsSymbol() {
			return nil, r.proxyViolation(name, MsgProxyOwnKeysNotStringOrSymbol)
		}
		key := keyFromPrimitive(v)
		if seen[key] {
			return nil, r.proxyViolation(name, MsgProxyOwnKeysDuplicates)
		}
		seen[key] = true
		trapResult = append(trapResult, key)
	}

	extensible, err := target.IsExtensible()
	if err != nil {
		return nil, err
	}
	targetKeys, err := target.OwnPropertyKeys()
	if err != nil {
		return nil, err
	}
	var configurable, nonConfigurable []PropertyKey
	for _, key := range targetKeys {
		desc, has, err := target.GetOwnProperty(key)
		if err != nil {
			return nil, err
		}
		if has && desc.Configurable == FlagFalse {
			nonConfigurable = append(nonConfigurable, key)
		} else {
			configurable = append(configurable, key)
		}
	}
	if extensible && len(nonConfigurable) == 0 {
		return trapResult, nil
	}

	unchecked := seen
	for _, key := range nonConfigurable {
		if !unchecked[key] {
			return nil, r.proxyViolation(name, MsgProxyOwnKeysSkippedNonConfig, key.String())
		}
		delete(unchecked, key)
	}
	if extensible {
		return trapResult, nil
	}
	for _, key := range configurable {
		if !unchecked[key] {
			return nil, r.proxyViolation(name, MsgProxyOwnKeysNonExtensibleSkipped, key.String())
		}
		delete(unchecked, key)
	}
	for _, key := range trapResult {
		if unchecked[key] {
			return nil, r.proxyViolation(name, MsgProxyOwnKeysNonExtensibleNew, key.String())
		}
	}
	return trapResult, nil
}

func proxyCall(o *Object, this Value, args []Value) (Value, error) {
	r := o.realm
	target, handler, trap, err := proxyTrap(o, "apply")
	if err != nil {
		return Undefined, err
	}
	if trap == nil {
		return target.Call(this, args)
	}
	return callTrap(trap, handler, target.Value(), this, r.NewArray(args...).Value())
}

func proxyConstruct(o *Object, args []Value, newTarget *Object) (Value, error) {
	r := o.realm
	target, handler, trap, err := proxyTrap(o, "construct")
	if err != nil {
		return Undefined, err
	}
	if trap == nil {
		res, err := target.Construct(args, newTarget)
		if err != nil {
			return Undefined, err
		}
		return res.Value(), nil
	}
	res, err := callTrap(trap, handler, target.Value(), r.NewArray(args...).Value(), newTarget.Value())
	if err != nil {
		return Undefined, err
	}
	if !res.IsObject() {
		return Undefined, r.proxyViolation("construct", MsgProxyConstructBadReturnType)
	}
	return res, nil
}
