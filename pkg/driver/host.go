package driver

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"metaobj/pkg/vm"
)

const maxSafeInteger = 1<<53 - 1

var (
	valueType    = reflect.TypeOf(vm.Value{})
	objectType   = reflect.TypeOf((*vm.Object)(nil))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	nativeFnType = reflect.TypeOf(vm.NativeFunction(nil))
)

// HostBuilder declares a host object: constants, Go functions and nested
// namespaces exposed to the object model.
type HostBuilder struct {
	rt    *Runtime
	obj   *vm.Object
	names []string
	err   error
}

// DefineHost builds a host object with build and installs it as the
// global name.
func (rt *Runtime) DefineHost(name string, build func(h *HostBuilder)) (*vm.Object, error) {
	h := &HostBuilder{rt: rt, obj: rt.realm.NewPlainObject()}
	build(h)
	if h.err != nil {
		return nil, fmt.Errorf("host object %s: %w", name, h.err)
	}
	if err := rt.Set(name, h.obj.Value()); err != nil {
		return nil, err
	}
	rt.logger.WithField("host", name).WithField("members", strings.Join(h.names, ",")).Debug("host object installed")
	return h.obj, nil
}

// Const adds an enumerable, read-only data property.
func (h *HostBuilder) Const(name string, value any) *HostBuilder {
	v, err := h.rt.ToValue(value)
	if err != nil {
		h.fail(name, err)
		return h
	}
	h.obj.DefineOwnPropertyByKey(vm.NewStringKey(name), v, false, true, false)
	h.names = append(h.names, name)
	return h
}

// Function adds a method backed by a Go function. See Runtime.WrapFunc
// for the accepted signatures.
func (h *HostBuilder) Function(name string, fn any) *HostBuilder {
	f, err := h.rt.WrapFunc(name, fn)
	if err != nil {
		h.fail(name, err)
		return h
	}
	h.obj.SetOwnNonEnumerable(name, f.Value())
	h.names = append(h.names, name)
	return h
}

// Namespace adds a nested host object.
func (h *HostBuilder) Namespace(name string, build func(ns *HostBuilder)) *HostBuilder {
	ns := &HostBuilder{rt: h.rt, obj: h.rt.realm.NewPlainObject()}
	build(ns)
	if ns.err != nil {
		h.fail(name, ns.err)
		return h
	}
	h.obj.SetOwn(name, ns.obj.Value())
	h.names = append(h.names, name)
	return h
}

func (h *HostBuilder) fail(name string, err error) {
	if h.err == nil {
		h.err = fmt.Errorf("%s: %w", name, err)
	}
}

// ToValue converts a Go value into a language value. Slices become
// arrays; maps with string keys and structs become plain objects (struct
// fields honour json tags); functions are wrapped with WrapFunc.
func (rt *Runtime) ToValue(value any) (vm.Value, error) {
	switch v := value.(type) {
	case nil:
		return vm.Null, nil
	case vm.Value:
		return v, nil
	case *vm.Object:
		return v.Value(), nil
	case string:
		return vm.NewString(v), nil
	case bool:
		return vm.BooleanValue(v), nil
	}
	return rt.reflectToValue(reflect.ValueOf(value))
}

func (rt *Runtime) reflectToValue(rv reflect.Value) (vm.Value, error) {
	if !rv.IsValid() {
		return vm.Undefined, nil
	}
	if rv.Type() == valueType {
		return rv.Interface().(vm.Value), nil
	}
	switch rv.Kind() {
	case reflect.String:
		return vm.NewString(rv.String()), nil
	case reflect.Bool:
		return vm.BooleanValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return vm.NumberValue(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return vm.NumberValue(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return vm.NumberValue(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return vm.Null, nil
		}
		elems := make([]vm.Value, rv.Len())
		for i := range elems {
			e, err := rt.reflectToValue(rv.Index(i))
			if err != nil {
				return vm.Undefined, err
			}
			elems[i] = e
		}
		return rt.realm.NewArray(elems...).Value(), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return vm.Undefined, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		if rv.IsNil() {
			return vm.Null, nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		// map iteration order is random; sort for a stable key order
		sort.Strings(keys)
		obj := rt.realm.NewPlainObject()
		for _, k := range keys {
			e, err := rt.reflectToValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
			if err != nil {
				return vm.Undefined, err
			}
			obj.SetOwn(k, e)
		}
		return obj.Value(), nil
	case reflect.Struct:
		return rt.structToValue(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return vm.Null, nil
		}
		if rv.Type() == objectType {
			return rv.Interface().(*vm.Object).Value(), nil
		}
		return rt.reflectToValue(rv.Elem())
	case reflect.Func:
		f, err := rt.WrapFunc("", rv.Interface())
		if err != nil {
			return vm.Undefined, err
		}
		return f.Value(), nil
	}
	return vm.Undefined, fmt.Errorf("unsupported Go type %s", rv.Type())
}

func (rt *Runtime) structToValue(rv reflect.Value) (vm.Value, error) {
	obj := rt.realm.NewPlainObject()
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, ok := propertyName(field)
		if !ok {
			continue
		}
		v, err := rt.reflectToValue(rv.Field(i))
		if err != nil {
			return vm.Undefined, fmt.Errorf("field %s: %w", field.Name, err)
		}
		obj.SetOwn(name, v)
	}
	return obj.Value(), nil
}

// propertyName maps an exported struct field to a property name using
// its json tag, falling back to a lower-cased first letter.
func propertyName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			return "", false
		case "":
		default:
			return name, true
		}
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:], true
}

// WrapFunc turns a Go function into a callable. A vm.NativeFunction (or a
// func with its signature) is used as is. Any other function has its
// arguments converted from language values; it may return nothing, one
// value, an error, or a value and an error. Missing arguments are zero
// values.
func (rt *Runtime) WrapFunc(name string, fn any) (*vm.Object, error) {
	switch f := fn.(type) {
	case vm.NativeFunction:
		return rt.realm.NewNativeFunction(0, name, f), nil
	case func(vm.FunctionCall) (vm.Value, error):
		return rt.realm.NewNativeFunction(0, name, f), nil
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", ft)
	}
	if ft.ConvertibleTo(nativeFnType) {
		return rt.realm.NewNativeFunction(0, name, fv.Convert(nativeFnType).Interface().(vm.NativeFunction)), nil
	}
	if ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return nil, fmt.Errorf("unsupported result list of %s", ft)
	}

	arity := ft.NumIn()
	if ft.IsVariadic() {
		arity--
	}
	return rt.realm.NewNativeFunction(arity, name, func(call vm.FunctionCall) (vm.Value, error) {
		in := make([]reflect.Value, 0, max(arity, len(call.Arguments)))
		for i := 0; i < arity; i++ {
			arg, err := rt.fromValue(call.Argument(i), ft.In(i))
			if err != nil {
				return vm.Undefined, err
			}
			in = append(in, arg)
		}
		if ft.IsVariadic() {
			elem := ft.In(arity).Elem()
			for i := arity; i < len(call.Arguments); i++ {
				arg, err := rt.fromValue(call.Arguments[i], elem)
				if err != nil {
					return vm.Undefined, err
				}
				in = append(in, arg)
			}
		}
		return rt.results(fv.Call(in))
	}), nil
}

func (rt *Runtime) results(out []reflect.Value) (vm.Value, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if errVal := out[n-1]; !errVal.IsNil() {
			err := errVal.Interface().(error)
			if _, ok := vm.AsException(err); ok {
				return vm.Undefined, err
			}
			return vm.Undefined, rt.realm.NewError("%s", err.Error())
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return vm.Undefined, nil
	}
	v, err := rt.reflectToValue(out[0])
	if err != nil {
		return vm.Undefined, rt.realm.NewTypeError("%s", err.Error())
	}
	return v, nil
}

// fromValue converts an argument to the Go parameter type using the
// language's own conversions, so user valueOf/toString hooks run.
func (rt *Runtime) fromValue(v vm.Value, t reflect.Type) (reflect.Value, error) {
	r := rt.realm
	switch t {
	case valueType:
		return reflect.ValueOf(v), nil
	case objectType:
		return reflect.ValueOf(v.AsObject()), nil
	}
	switch t.Kind() {
	case reflect.String:
		s, err := r.ToString(v)
		return reflect.ValueOf(s).Convert(t), err
	case reflect.Bool:
		return reflect.ValueOf(v.ToBoolean()).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := r.ToIntegerOrInfinity(v)
		if err != nil {
			return reflect.Value{}, err
		}
		n = max(min(n, maxSafeInteger), -maxSafeInteger)
		out := reflect.New(t).Elem()
		if t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uint64 {
			out.SetUint(uint64(max(n, 0)))
		} else {
			out.SetInt(int64(n))
		}
		return out, nil
	case reflect.Float32, reflect.Float64:
		n, err := r.ToNumber(v)
		return reflect.ValueOf(n).Convert(t), err
	case reflect.Slice:
		if v.IsNullish() {
			return reflect.Zero(t), nil
		}
		list, err := r.CreateListFromArrayLike(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(t, len(list), len(list))
		for i, e := range list {
			ev, err := rt.fromValue(e, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return reflect.ValueOf(&v).Elem().Convert(t), nil
		}
	}
	return reflect.Value{}, r.NewTypeError("cannot convert %s to Go %s", v.Inspect(), t)
}
