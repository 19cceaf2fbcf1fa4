package builtins

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func newRuntime(t *testing.T) *vm.Realm {
	t.Helper()
	r := vm.NewRealm(vm.Options{})
	require.NoError(t, Install(r, nil))
	return r
}

// lookup resolves a dotted path such as "Reflect.construct" from the
// global object.
func lookup(t *testing.T, r *vm.Realm, path string) vm.Value {
	t.Helper()
	v := r.GlobalObject.Value()
	for _, part := range strings.Split(path, ".") {
		obj := v.AsObject()
		require.NotNil(t, obj, "%s: cannot read %q", path, part)
		var err error
		v, err = r.Get(obj, vm.NewStringKey(part))
		require.NoError(t, err)
	}
	return v
}

func callPath(t *testing.T, r *vm.Realm, path string, args ...vm.Value) (vm.Value, error) {
	t.Helper()
	return r.Call(lookup(t, r, path), vm.Undefined, args)
}

func newPath(t *testing.T, r *vm.Realm, path string, args ...vm.Value) (*vm.Object, error) {
	t.Helper()
	return r.Construct(lookup(t, r, path), args, vm.Undefined)
}

func get(t *testing.T, r *vm.Realm, v vm.Value, name string) vm.Value {
	t.Helper()
	res, err := r.GetV(v, vm.NewStringKey(name))
	require.NoError(t, err)
	return res
}

func str(s string) vm.Value { return vm.NewString(s) }

func num(n float64) vm.Value { return vm.NumberValue(n) }

func assertTypeError(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, vm.IsTypeError(err), "expected TypeError, got %v", err)
	if msg != "" {
		ex, _ := vm.AsException(err)
		assert.Equal(t, msg, ex.Message())
	}
}

func assertRangeError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, vm.IsRangeError(err), "expected RangeError, got %v", err)
}

func TestStandardInitializersAreSorted(t *testing.T) {
	t.Parallel()

	inits := GetStandardInitializers()
	require.NotEmpty(t, inits)
	assert.Equal(t, "Object", inits[0].Name())
	for i := 1; i < len(inits); i++ {
		assert.LessOrEqual(t, inits[i-1].Priority(), inits[i].Priority(), "%s before %s", inits[i-1].Name(), inits[i].Name())
	}
}

func TestInstallDefinesGlobals(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for _, name := range []string{
		"Object", "Array", "Error", "TypeError", "RangeError", "String", "Number",
		"Boolean", "Symbol", "ArrayBuffer", "Uint8Array", "Float64Array", "Proxy", "Reflect",
	} {
		desc, has, err := r.GlobalObject.GetOwnProperty(vm.NewStringKey(name))
		require.NoError(t, err)
		require.True(t, has, name)
		assert.Equal(t, vm.FlagTrue, desc.Writable, name)
		assert.Equal(t, vm.FlagFalse, desc.Enumerable, name)
		assert.Equal(t, vm.FlagTrue, desc.Configurable, name)
	}
}

func TestInstallLogsEachInitializer(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := vm.NewRealm(vm.Options{})
	require.NoError(t, Install(r, logger, &ObjectInitializer{}, &ReflectInitializer{}))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "initializing builtin", entries[0].Message)
	assert.Equal(t, "Object", entries[0].Data["builtin"])
	assert.Equal(t, "Reflect", entries[1].Data["builtin"])
	assert.Equal(t, PriorityReflect, entries[1].Data["priority"])
}

type failingInitializer struct{}

func (failingInitializer) Name() string  { return "Broken" }
func (failingInitializer) Priority() int { return 0 }
func (failingInitializer) InitRuntime(ctx *RuntimeContext) error {
	return ctx.Realm.NewTypeError("boom")
}

func TestInstallWrapsInitializerErrors(t *testing.T) {
	t.Parallel()

	err := Install(vm.NewRealm(vm.Options{}), nil, failingInitializer{})
	require.Error(t, err)
	assert.Equal(t, "initializing Broken: TypeError: boom", err.Error())
	assert.True(t, vm.IsTypeError(err), "the cause stays reachable through wrapping")
}

func TestFunctionLengthAndName(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for path, want := range map[string]float64{
		"Object.defineProperty":           3,
		"Object.prototype.hasOwnProperty": 1,
		"Array.prototype.push":            1,
		"Array.isArray":                   1,
		"Proxy":                           2,
		"Proxy.revocable":                 2,
		"ArrayBuffer":                     1,
		"Uint8Array":                      3,
	} {
		fn := lookup(t, r, path)
		assert.Equal(t, want, get(t, r, fn, "length").AsNumber(), path)
	}
	assert.Equal(t, "defineProperty", get(t, r, lookup(t, r, "Object.defineProperty"), "name").AsString())
}
