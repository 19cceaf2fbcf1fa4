package conformance

import (
	"errors"
	"fmt"
	"strings"

	"metaobj/pkg/driver"
	"metaobj/pkg/vm"
)

// halt unwinds a scenario after a fatal check. It never escapes Execute.
type halt struct{ err error }

// Case is the per-scenario context. Check and Expect* record failures and
// keep going; Must and the value helpers stop the scenario on error.
type Case struct {
	rt       *driver.Runtime
	failures []string
}

func newCase(rt *driver.Runtime) *Case {
	return &Case{rt: rt}
}

func (c *Case) Runtime() *driver.Runtime { return c.rt }

func (c *Case) Realm() *vm.Realm { return c.rt.Realm() }

// Errorf records a failure.
func (c *Case) Errorf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

// Check records a failure when ok is false.
func (c *Case) Check(ok bool, format string, args ...any) {
	if !ok {
		c.Errorf(format, args...)
	}
}

// Fatalf records a failure and stops the scenario.
func (c *Case) Fatalf(format string, args ...any) {
	panic(halt{fmt.Errorf(format, args...)})
}

// NoError stops the scenario on a non-nil err.
func (c *Case) NoError(err error) {
	if err != nil {
		panic(halt{err})
	}
}

// Must returns v or stops the scenario on err.
func (c *Case) Must(v vm.Value, err error) vm.Value {
	c.NoError(err)
	return v
}

func (c *Case) MustBool(ok bool, err error) bool {
	c.NoError(err)
	return ok
}

// Lookup resolves a dotted global path.
func (c *Case) Lookup(path string) vm.Value {
	return c.Must(c.rt.Lookup(path))
}

// Call calls the function at path.
func (c *Case) Call(path string, args ...vm.Value) vm.Value {
	return c.Must(c.rt.Call(path, args...))
}

// Try calls the function at path and returns whatever it throws.
func (c *Case) Try(path string, args ...vm.Value) error {
	_, err := c.rt.Call(path, args...)
	return err
}

// CallOn calls the function at path with this bound to this.
func (c *Case) CallOn(this vm.Value, path string, args ...vm.Value) vm.Value {
	return c.Must(c.Realm().Call(c.Lookup(path), this, args))
}

func (c *Case) TryOn(this vm.Value, path string, args ...vm.Value) error {
	_, err := c.Realm().Call(c.Lookup(path), this, args)
	return err
}

func (c *Case) New(path string, args ...vm.Value) *vm.Object {
	obj, err := c.rt.Construct(path, args...)
	c.NoError(err)
	return obj
}

// Get reads o[name] via [[Get]].
func (c *Case) Get(o vm.Value, name string) vm.Value {
	return c.Must(c.Realm().GetV(o, vm.NewStringKey(name)))
}

// Object builds a plain object from name/value pairs.
func (c *Case) Object(pairs ...any) vm.Value {
	if len(pairs)%2 != 0 {
		c.Fatalf("Object: odd number of arguments")
	}
	obj := c.Realm().NewPlainObject()
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			c.Fatalf("Object: key %v is not a string", pairs[i])
		}
		v, err := c.rt.ToValue(pairs[i+1])
		c.NoError(err)
		c.NoError(c.Realm().CreateDataPropertyOrThrow(obj, vm.NewStringKey(name), v))
	}
	return obj.Value()
}

// Array builds an array of the given values.
func (c *Case) Array(values ...vm.Value) vm.Value {
	return c.Realm().NewArray(values...).Value()
}

// Func creates a non-constructor native function.
func (c *Case) Func(name string, length int, fn vm.NativeFunction) vm.Value {
	return c.Realm().NewNativeFunction(length, name, fn).Value()
}

// Returning is a function that ignores its arguments and returns v.
func (c *Case) Returning(v vm.Value) vm.Value {
	return c.Func("", 0, func(vm.FunctionCall) (vm.Value, error) { return v, nil })
}

// Proxy is new Proxy(target, handler).
func (c *Case) Proxy(target, handler vm.Value) vm.Value {
	return c.New("Proxy", target, handler).Value()
}

// Equal records a failure unless got and want are the same value.
func (c *Case) Equal(got, want vm.Value, what string) {
	c.Check(vm.SameValue(got, want), "%s: got %s, want %s", what, got.Inspect(), want.Inspect())
}

// Keys renders the own keys of o, in order, comma separated.
func (c *Case) Keys(o vm.Value) string {
	obj := o.AsObject()
	if obj == nil {
		c.Fatalf("Keys: %s is not an object", o.Inspect())
	}
	keys, err := obj.OwnPropertyKeys()
	c.NoError(err)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

// ExpectTypeError checks that err is a TypeError whose message is msg.
// An empty msg accepts any message.
func (c *Case) ExpectTypeError(err error, msg string) {
	c.expectKind(err, vm.ErrorKindTypeError, msg)
}

func (c *Case) ExpectRangeError(err error, msg string) {
	c.expectKind(err, vm.ErrorKindRangeError, msg)
}

func (c *Case) expectKind(err error, kind vm.ErrorKind, msg string) {
	if err == nil {
		c.Errorf("expected %s, got no error", kind)
		return
	}
	ex, ok := vm.AsException(err)
	if !ok {
		c.Errorf("expected %s, got Go error %v", kind, err)
		return
	}
	if ex.Kind() != kind {
		c.Errorf("expected %s, got %v", kind, err)
		return
	}
	if msg != "" && ex.Message() != msg {
		c.Errorf("expected %s %q, got %q", kind, msg, ex.Message())
	}
}

func (c *Case) err() error {
	if len(c.failures) == 0 {
		return nil
	}
	errs := make([]error, len(c.failures))
	for i, f := range c.failures {
		errs[i] = errors.New(f)
	}
	return errors.Join(errs...)
}
