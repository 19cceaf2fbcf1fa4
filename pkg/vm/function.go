package vm

// FunctionCall carries the inputs of a native [[Call]] or [[Construct]].
// NewTarget is nil for plain calls.
type FunctionCall struct {
	This      Value
	Arguments []Value
	NewTarget *Object
	Callee    *Object
}

// Argument returns the i-th argument or undefined.
func (c FunctionCall) Argument(i int) Value {
	if i < len(c.Arguments) {
		return c.Arguments[i]
	}
	return Undefined
}

// Realm is the realm of the callee.
func (c FunctionCall) Realm() *Realm { return c.Callee.realm }

// NativeFunction is the Go body of a callable object.
type NativeFunction func(call FunctionCall) (Value, error)

type functionData struct {
	name string
	call NativeFunction
	// construct is set for builtin constructors that allocate their own
	// result. Base constructors leave it nil and get an ordinary this.
	construct NativeFunction
}

func (r *Realm) newFunctionObject(proto *Object, methods *internalMethods, fd *functionData) *Object {
	f := newObject(r, KindFunction, "Function", proto, methods)
	f.internal = fd
	return f
}

func (r *Realm) newBuiltinFunction(length int, name string, methods *internalMethods, fd *functionData) *Object {
	fd.name = name
	f := r.newFunctionObject(r.FunctionPrototype, methods, fd)
	f.DefineOwnPropertyByKey(lengthKey, IntValue(length), false, false, true)
	f.DefineOwnPropertyByKey(NewStringKey("name"), NewString(name), false, false, true)
	return f
}

// NewNativeFunction creates a callable that is not a constructor.
func (r *Realm) NewNativeFunction(length int, name string, fn NativeFunction) *Object {
	return r.newBuiltinFunction(length, name, functionMethods, &functionData{call: fn})
}

// NewConstructor creates a base constructor: [[Construct]] allocates this
// from newTarget.prototype and calls fn with it. An object result replaces
// this. The function gets a fresh prototype object.
func (r *Realm) NewConstructor(length int, name string, fn NativeFunction) *Object {
	f := r.newBuiltinFunction(length, name, constructorMethods, &functionData{call: fn})
	proto := r.NewPlainObject()
	proto.DefineOwnPropertyByKey(NewStringKey("constructor"), f.Value(), true, false, true)
	f.DefineOwnPropertyByKey(NewStringKey("prototype"), proto.Value(), true, false, false)
	return f
}

// NewNativeConstructor creates a builtin constructor with separate call and
// construct bodies. construct receives NewTarget and must return an object.
// No prototype property is created.
func (r *Realm) NewNativeConstructor(length int, name string, call, construct NativeFunction) *Object {
	return r.newBuiltinFunction(length, name, constructorMethods, &functionData{call: call, construct: construct})
}

// FunctionName returns the name a native function was created with.
func (o *Object) FunctionName() string {
	if fd, ok := o.internal.(*functionData); ok {
		return fd.name
	}
	return ""
}

func functionCall(o *Object, this Value, args []Value) (Value, error) {
	fd := o.internal.(*functionData)
	return fd.call(FunctionCall{This: this, Arguments: args, Callee: o})
}

func functionConstruct(o *Object, args []Value, newTarget *Object) (Value, error) {
	fd := o.internal.(*functionData)
	if fd.construct != nil {
		return fd.construct(FunctionCall{This: Undefined, Arguments: args, NewTarget: newTarget, Callee: o})
	}
	this, err := OrdinaryCreateFromConstructor(newTarget, func(r *Realm) *Object { return r.ObjectPrototype })
	if err != nil {
		return Undefined, err
	}
	res, err := fd.call(FunctionCall{This: this.Value(), Arguments: args, NewTarget: newTarget, Callee: o})
	if err != nil {
		return Undefined, err
	}
	if res.IsObject() {
		return res, nil
	}
	return this.Value(), nil
}

// GetFunctionRealm finds the realm a constructor belongs to, looking
// through proxies.
func GetFunctionRealm(o *Object) (*Realm, error) {
	for o.kind == KindProxy {
		target, err := proxyTargetOrThrow(o)
		if err != nil {
			return nil, err
		}
		o = target
	}
	return o.realm, nil
}

// GetPrototypeFromConstructor reads newTarget.prototype and falls back to
// the intrinsic picked from newTarget's realm when it is not an object.
func GetPrototypeFromConstructor(newTarget *Object, intrinsic func(r *Realm) *Object) (*Object, error) {
	proto, err := newTarget.Get(NewStringKey("prototype"), newTarget.Value())
	if err != nil {
		return nil, err
	}
	if p := proto.AsObject(); p != nil {
		return p, nil
	}
	realm, err := GetFunctionRealm(newTarget)
	if err != nil {
		return nil, err
	}
	return intrinsic(realm), nil
}

// OrdinaryCreateFromConstructor creates an ordinary object inheriting from
// newTarget.prototype.
func OrdinaryCreateFromConstructor(newTarget *Object, intrinsic func(r *Realm) *Object) (*Object, error) {
	proto, err := GetPrototypeFromConstructor(newTarget, intrinsic)
	if err != nil {
		return nil, err
	}
	return newObject(newTarget.realm, KindOrdinary, "Object", proto, ordinaryMethods), nil
}
