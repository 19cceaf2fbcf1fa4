package vm

import (
	"unsafe"
)

// ObjectKind is the exotic tag of an object.
type ObjectKind uint8

const (
	KindOrdinary ObjectKind = iota
	KindArray
	KindString
	KindArguments
	KindTypedArray
	KindFunction
	KindProxy
)

func (k ObjectKind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindArguments:
		return "arguments"
	case KindTypedArray:
		return "typedarray"
	case KindFunction:
		return "function"
	case KindProxy:
		return "proxy"
	}
	return "unknown"
}

// internalMethods is the dispatch table of one object variant. A nil call
// or construct entry means the object is not callable or not a constructor.
type internalMethods struct {
	getPrototypeOf    func(o *Object) (*Object, error)
	setPrototypeOf    func(o *Object, proto *Object) (bool, error)
	isExtensible      func(o *Object) (bool, error)
	preventExtensions func(o *Object) (bool, error)
	getOwnProperty    func(o *Object, key PropertyKey) (PropertyDescriptor, bool, error)
	defineOwnProperty func(o *Object, key PropertyKey, desc PropertyDescriptor) (bool, error)
	hasProperty       func(o *Object, key PropertyKey) (bool, error)
	get               func(o *Object, key PropertyKey, receiver Value) (Value, error)
	set               func(o *Object, key PropertyKey, v Value, receiver Value) (bool, error)
	delete            func(o *Object, key PropertyKey) (bool, error)
	ownPropertyKeys   func(o *Object) ([]PropertyKey, error)
	call              func(o *Object, this Value, args []Value) (Value, error)
	construct         func(o *Object, args []Value, newTarget *Object) (Value, error)
}

var (
	ordinaryMethods           *internalMethods
	immutablePrototypeMethods *internalMethods
	arrayMethods              *internalMethods
	stringMethods             *internalMethods
	mappedArgumentsMethods    *internalMethods
	typedArrayMethods         *internalMethods
	functionMethods           *internalMethods
	constructorMethods        *internalMethods
)

func init() {
	ordinaryMethods = &internalMethods{
		getPrototypeOf:    ordinaryGetPrototypeOf,
		setPrototypeOf:    ordinarySetPrototypeOf,
		isExtensible:      ordinaryIsExtensible,
		preventExtensions: ordinaryPreventExtensions,
		getOwnProperty:    ordinaryGetOwnProperty,
		defineOwnProperty: ordinaryDefineOwnProperty,
		hasProperty:       ordinaryHasProperty,
		get:               ordinaryGet,
		set:               ordinarySet,
		delete:            ordinaryDelete,
		ownPropertyKeys:   ordinaryOwnPropertyKeys,
	}

	immutablePrototypeMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.setPrototypeOf = immutableSetPrototypeOf
	})

	arrayMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.defineOwnProperty = arrayDefineOwnProperty
	})

	stringMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.getOwnProperty = stringGetOwnProperty
		m.defineOwnProperty = stringDefineOwnProperty
		m.ownPropertyKeys = stringOwnPropertyKeys
	})

	mappedArgumentsMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.getOwnProperty = argumentsGetOwnProperty
		m.defineOwnProperty = argumentsDefineOwnProperty
		m.get = argumentsGet
		m.set = argumentsSet
		m.delete = argumentsDelete
	})

	typedArrayMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.getOwnProperty = typedArrayGetOwnProperty
		m.hasProperty = typedArrayHasProperty
		m.defineOwnProperty = typedArrayDefineOwnProperty
		m.get = typedArrayGet
		m.set = typedArraySet
		m.delete = typedArrayDelete
		m.ownPropertyKeys = typedArrayOwnPropertyKeys
	})

	functionMethods = ordinaryMethods.with(func(m *internalMethods) {
		m.call = functionCall
	})

	constructorMethods = functionMethods.with(func(m *internalMethods) {
		m.construct = functionConstruct
	})

	initProxyMethods()
}

// with copies the table and applies the overrides.
func (m *internalMethods) with(override func(m *internalMethods)) *internalMethods {
	c := *m
	override(&c)
	return &c
}

// Object is the single object representation. Variant state lives in
// internal; dispatch goes through methods.
type Object struct {
	kind       ObjectKind
	class      string
	realm      *Realm
	methods    *internalMethods
	prototype  *Object
	extensible bool
	props      *propertyTable
	internal   any
}

func newObject(r *Realm, kind ObjectKind, class string, proto *Object, methods *internalMethods) *Object {
	return &Object{
		kind:       kind,
		class:      class,
		realm:      r,
		methods:    methods,
		prototype:  proto,
		extensible: true,
		props:      newPropertyTable(),
	}
}

func (o *Object) Kind() ObjectKind { return o.kind }
func (o *Object) Class() string    { return o.class }
func (o *Object) Realm() *Realm    { return o.realm }

// Internal returns the variant state (e.g. *TypedArray, *ArrayBuffer).
func (o *Object) Internal() any { return o.internal }

func (o *Object) Value() Value {
	if o == nil {
		return Null
	}
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

// NewObjectValue converts o, or nil as null, into a Value.
func NewObjectValue(o *Object) Value { return o.Value() }

func (o *Object) IsCallable() bool    { return o.methods.call != nil }
func (o *Object) IsConstructor() bool { return o.methods.construct != nil }
func (o *Object) IsProxy() bool       { return o.kind == KindProxy }

func (o *Object) String() string {
	if o.kind == KindFunction {
		if fd, ok := o.internal.(*functionData); ok && fd.name != "" {
			return "function " + fd.name
		}
		return "function"
	}
	return "[object " + o.class + "]"
}

// GetPrototypeOf returns nil for a null prototype.
func (o *Object) GetPrototypeOf() (*Object, error) {
	return o.methods.getPrototypeOf(o)
}

func (o *Object) SetPrototypeOf(proto *Object) (bool, error) {
	return o.methods.setPrototypeOf(o, proto)
}

func (o *Object) IsExtensible() (bool, error) {
	return o.methods.isExtensible(o)
}

func (o *Object) PreventExtensions() (bool, error) {
	return o.methods.preventExtensions(o)
}

// GetOwnProperty returns a complete descriptor and true, or false if the
// property does not exist.
func (o *Object) GetOwnProperty(key PropertyKey) (PropertyDescriptor, bool, error) {
	return o.methods.getOwnProperty(o, key)
}

func (o *Object) DefineOwnProperty(key PropertyKey, desc PropertyDescriptor) (bool, error) {
	return o.methods.defineOwnProperty(o, key, desc)
}

func (o *Object) HasProperty(key PropertyKey) (bool, error) {
	return o.methods.hasProperty(o, key)
}

func (o *Object) Get(key PropertyKey, receiver Value) (Value, error) {
	return o.methods.get(o, key, receiver)
}

func (o *Object) Set(key PropertyKey, v Value, receiver Value) (bool, error) {
	return o.methods.set(o, key, v, receiver)
}

func (o *Object) Delete(key PropertyKey) (bool, error) {
	return o.methods.delete(o, key)
}

func (o *Object) OwnPropertyKeys() ([]PropertyKey, error) {
	return o.methods.ownPropertyKeys(o)
}

// Call invokes [[Call]]. Callers must check IsCallable first or accept a
// TypeError.
func (o *Object) Call(this Value, args []Value) (Value, error) {
	if o.methods.call == nil {
		return Undefined, o.realm.NewTypeError(MsgNotAFunction, o.String())
	}
	if err := o.realm.enter(); err != nil {
		return Undefined, err
	}
	defer o.realm.leave()
	return o.methods.call(o, this, args)
}

// Construct invokes [[Construct]]. A nil newTarget means o itself.
func (o *Object) Construct(args []Value, newTarget *Object) (*Object, error) {
	if o.methods.construct == nil {
		return nil, o.realm.NewTypeError(MsgNotAConstructor, o.String())
	}
	if newTarget == nil {
		newTarget = o
	}
	if err := o.realm.enter(); err != nil {
		return nil, err
	}
	defer o.realm.leave()
	res, err := o.methods.construct(o, args, newTarget)
	if err != nil {
		return nil, err
	}
	obj := res.AsObject()
	if obj == nil {
		return nil, o.realm.NewTypeError(MsgConstructResultNotObject)
	}
	return obj, nil
}

// SetOwn creates or overwrites a writable, enumerable, configurable data
// property directly in the table. It is meant for building intrinsics and
// bypasses exotic behaviour.
func (o *Object) SetOwn(name string, v Value) {
	o.props.set(NewStringKey(name), &property{value: v, writable: true, enumerable: true, configurable: true})
}

// SetOwnNonEnumerable is SetOwn for builtin methods and data.
func (o *Object) SetOwnNonEnumerable(name string, v Value) {
	o.props.set(NewStringKey(name), &property{value: v, writable: true, configurable: true})
}

// DefineOwnPropertyByKey stores a data property with explicit attributes,
// bypassing validation.
func (o *Object) DefineOwnPropertyByKey(key PropertyKey, v Value, writable, enumerable, configurable bool) {
	o.props.set(key, &property{value: v, writable: writable, enumerable: enumerable, configurable: configurable})
}

// DefineAccessorByKey stores an accessor property, bypassing validation.
func (o *Object) DefineAccessorByKey(key PropertyKey, getter, setter Value, enumerable, configurable bool) {
	o.props.set(key, &property{getter: getter, setter: setter, accessor: true, enumerable: enumerable, configurable: configurable})
}

// SetPrototypeDirect replaces the prototype without any checks. Used while
// wiring intrinsics.
func (o *Object) SetPrototypeDirect(proto *Object) {
	o.prototype = proto
}
