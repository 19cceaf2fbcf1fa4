package vm

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultMaxCallDepth bounds nested calls and proxy dispatch per realm.
const DefaultMaxCallDepth = 10000

// Options configure a new realm.
type Options struct {
	// MaxCallDepth limits nesting of [[Call]], [[Construct]] and proxy
	// traps. Zero means DefaultMaxCallDepth.
	MaxCallDepth int
	// Logger receives debug entries; nil discards them.
	Logger logrus.FieldLogger
	// TraceTraps logs every proxy trap dispatch at debug level.
	TraceTraps bool
}

// Realm owns the intrinsic objects, the global object and the symbol
// registry. A realm is not safe for concurrent use.
type Realm struct {
	ObjectPrototype      *Object
	FunctionPrototype    *Object
	ArrayPrototype       *Object
	StringPrototype      *Object
	NumberPrototype      *Object
	BooleanPrototype     *Object
	SymbolPrototype      *Object
	ErrorPrototype       *Object
	TypeErrorPrototype   *Object
	RangeErrorPrototype  *Object
	ArrayBufferPrototype *Object
	TypedArrayPrototype  *Object

	typedArrayPrototypes [typedArrayKindCount]*Object

	// ThrowTypeError is %ThrowTypeError%, the callee accessor of unmapped
	// arguments objects.
	ThrowTypeError *Object
	GlobalObject   *Object
	Symbols        *SymbolRegistry

	logger       logrus.FieldLogger
	traceTraps   bool
	maxCallDepth int
	callDepth    int
}

func NewRealm(opts Options) *Realm {
	r := &Realm{
		Symbols:      NewSymbolRegistry(),
		logger:       opts.Logger,
		traceTraps:   opts.TraceTraps,
		maxCallDepth: opts.MaxCallDepth,
	}
	if r.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.logger = l
	}
	if r.maxCallDepth <= 0 {
		r.maxCallDepth = DefaultMaxCallDepth
	}

	r.ObjectPrototype = newObject(r, KindOrdinary, "Object", nil, immutablePrototypeMethods)

	r.FunctionPrototype = r.newFunctionObject(r.ObjectPrototype, functionMethods, &functionData{
		call: func(FunctionCall) (Value, error) { return Undefined, nil },
	})
	r.FunctionPrototype.DefineOwnPropertyByKey(NewStringKey("length"), IntValue(0), false, false, true)
	r.FunctionPrototype.DefineOwnPropertyByKey(NewStringKey("name"), NewString(""), false, false, true)

	r.ArrayPrototype = newObject(r, KindArray, "Array", r.ObjectPrototype, arrayMethods)
	r.ArrayPrototype.DefineOwnPropertyByKey(lengthKey, IntValue(0), true, false, false)

	r.StringPrototype = r.newStringObject("", r.ObjectPrototype)
	r.NumberPrototype = newObject(r, KindOrdinary, "Number", r.ObjectPrototype, ordinaryMethods)
	r.NumberPrototype.internal = NumberValue(0)
	r.BooleanPrototype = newObject(r, KindOrdinary, "Boolean", r.ObjectPrototype, ordinaryMethods)
	r.BooleanPrototype.internal = False
	r.SymbolPrototype = r.NewPlainObject()

	r.ErrorPrototype = r.NewPlainObject()
	r.TypeErrorPrototype = r.NewObjectWithPrototype(r.ErrorPrototype)
	r.RangeErrorPrototype = r.NewObjectWithPrototype(r.ErrorPrototype)

	r.ArrayBufferPrototype = r.NewPlainObject()
	r.TypedArrayPrototype = r.NewPlainObject()
	for k := TypedArrayKind(0); k < typedArrayKindCount; k++ {
		r.typedArrayPrototypes[k] = r.NewObjectWithPrototype(r.TypedArrayPrototype)
	}

	r.ThrowTypeError = r.NewNativeFunction(0, "", func(FunctionCall) (Value, error) {
		return Undefined, r.NewTypeError(MsgRestrictedProperty)
	})
	r.ThrowTypeError.DefineOwnPropertyByKey(NewStringKey("length"), IntValue(0), false, false, false)
	r.ThrowTypeError.DefineOwnPropertyByKey(NewStringKey("name"), NewString(""), false, false, false)
	r.ThrowTypeError.extensible = false

	r.GlobalObject = r.NewPlainObject()
	return r
}

func (r *Realm) Logger() logrus.FieldLogger { return r.logger }

// TypedArrayPrototypeFor returns the prototype of the given view kind.
func (r *Realm) TypedArrayPrototypeFor(kind TypedArrayKind) *Object {
	return r.typedArrayPrototypes[kind]
}

// CallDepth reports the current nesting of calls and proxy traps.
func (r *Realm) CallDepth() int { return r.callDepth }

func (r *Realm) enter() error {
	if r.callDepth >= r.maxCallDepth {
		return r.NewRangeError(MsgCallStackSizeExceeded)
	}
	r.callDepth++
	return nil
}

func (r *Realm) leave() {
	r.callDepth--
}

// NewPlainObject creates an ordinary object inheriting from Object.prototype.
func (r *Realm) NewPlainObject() *Object {
	return newObject(r, KindOrdinary, "Object", r.ObjectPrototype, ordinaryMethods)
}

// NewObjectWithPrototype creates an ordinary object; a nil proto gives a
// null prototype.
func (r *Realm) NewObjectWithPrototype(proto *Object) *Object {
	return newObject(r, KindOrdinary, "Object", proto, ordinaryMethods)
}

// NewErrorObject allocates an error instance with no own message, as the
// error constructors do before looking at their arguments.
func (r *Realm) NewErrorObject(proto *Object) *Object {
	return newObject(r, KindOrdinary, "Error", proto, ordinaryMethods)
}

// classifyError finds the nearest intrinsic error prototype of o.
func (r *Realm) classifyError(o *Object) ErrorKind {
	for p := o.prototype; p != nil; p = p.prototype {
		switch p {
		case r.TypeErrorPrototype:
			return ErrorKindTypeError
		case r.RangeErrorPrototype:
			return ErrorKindRangeError
		case r.ErrorPrototype:
			return ErrorKindError
		}
		if p.kind == KindProxy {
			break
		}
	}
	return ErrorKindError
}
