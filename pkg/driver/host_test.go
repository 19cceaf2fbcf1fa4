package driver

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

type hostPoint struct {
	X      int    `json:"x"`
	Label  string `json:"label,omitempty"`
	Hidden bool   `json:"-"`
	Scale  float64
	secret int
}

func newHostRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt := newRuntime(t)
	_, err := rt.DefineHost("host", func(h *HostBuilder) {
		h.Const("version", "1.2").
			Function("add", func(a, b int) int { return a + b }).
			Function("join", func(sep string, parts ...string) string { return strings.Join(parts, sep) }).
			Function("fail", func() error { return errors.New("no luck") }).
			Function("reject", func() (int, error) { return 0, rt.Realm().NewRangeError("too far") }).
			Function("receiver", func(call vm.FunctionCall) (vm.Value, error) {
				return vm.NewString(call.This.Inspect()), nil
			}).
			Function("point", func() hostPoint { return hostPoint{X: 3, Scale: 0.5, secret: 9} }).
			Function("sum", func(xs []float64) float64 {
				var s float64
				for _, x := range xs {
					s += x
				}
				return s
			}).
			Namespace("consts", func(ns *HostBuilder) {
				ns.Const("two", 2).Const("tags", map[string]any{"b": true, "a": []int{1, 2}})
			})
	})
	require.NoError(t, err)
	return rt
}

func TestHostConst(t *testing.T) {
	t.Parallel()

	rt := newHostRuntime(t)
	v, err := rt.Lookup("host.version")
	require.NoError(t, err)
	assert.Equal(t, "1.2", v.AsString())

	host, err := rt.Global("host")
	require.NoError(t, err)
	desc, ok, err := host.AsObject().GetOwnProperty(vm.NewStringKey("version"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vm.FlagFalse, desc.Writable)
	assert.Equal(t, vm.FlagTrue, desc.Enumerable)
	assert.Equal(t, vm.FlagFalse, desc.Configurable)

	two, err := rt.Lookup("host.consts.two")
	require.NoError(t, err)
	assert.Equal(t, 2.0, two.AsNumber())

	tags, err := rt.Lookup("host.consts.tags")
	require.NoError(t, err)
	keys, err := tags.AsObject().OwnPropertyKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "a", keys[0].String(), "map keys are sorted")
	isArray, err := rt.Call("Array.isArray", mustLookup(t, rt, "host.consts.tags.a"))
	require.NoError(t, err)
	assert.True(t, isArray.AsBoolean())
}

func TestHostFunctions(t *testing.T) {
	t.Parallel()

	rt := newHostRuntime(t)
	sum, err := rt.Call("host.add", vm.IntValue(2), vm.NewString("5"))
	require.NoError(t, err)
	assert.Equal(t, 7.0, sum.AsNumber())

	length, err := rt.Lookup("host.add.length")
	require.NoError(t, err)
	assert.Equal(t, 2.0, length.AsNumber())

	missing, err := rt.Call("host.add", vm.IntValue(4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, missing.AsNumber(), "missing arguments are zero")

	joined, err := rt.Call("host.join", vm.NewString("-"), vm.NewString("a"), vm.IntValue(1), vm.True)
	require.NoError(t, err)
	assert.Equal(t, "a-1-true", joined.AsString())

	total, err := rt.Call("host.sum", rt.Realm().NewArray(vm.IntValue(1), vm.NumberValue(2.5)).Value())
	require.NoError(t, err)
	assert.Equal(t, 3.5, total.AsNumber())

	recv, err := rt.Call("host.receiver")
	require.NoError(t, err)
	assert.Equal(t, "undefined", recv.AsString())

	p, err := rt.Call("host.point")
	require.NoError(t, err)
	keys, err := p.AsObject().OwnPropertyKeys()
	require.NoError(t, err)
	var names []string
	for _, k := range keys {
		names = append(names, k.String())
	}
	assert.Equal(t, []string{"x", "label", "scale"}, names)
}

func TestHostErrors(t *testing.T) {
	t.Parallel()

	rt := newHostRuntime(t)
	_, err := rt.Call("host.fail")
	require.Error(t, err)
	ex, ok := vm.AsException(err)
	require.True(t, ok)
	assert.Equal(t, "no luck", ex.Message())
	assert.False(t, vm.IsTypeError(err))

	_, err = rt.Call("host.reject")
	assert.True(t, vm.IsRangeError(err), "exceptions pass through unchanged")

	_, err = rt.Call("host.sum", vm.IntValue(1))
	assert.True(t, vm.IsTypeError(err))
}

func TestDefineHostInvalid(t *testing.T) {
	t.Parallel()

	rt := newRuntime(t)
	_, err := rt.DefineHost("bad", func(h *HostBuilder) {
		h.Const("ch", make(chan int)).Function("two", func() (int, int) { return 1, 2 })
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "host object bad: ch: unsupported Go type chan int")

	_, err = rt.DefineHost("bad", func(h *HostBuilder) {
		h.Function("two", func() (int, int) { return 1, 2 })
	})
	assert.ErrorContains(t, err, "unsupported result list")

	v, err := rt.Global("bad")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined(), "a failed build installs nothing")
}

func mustLookup(t *testing.T, rt *Runtime, path string) vm.Value {
	t.Helper()
	v, err := rt.Lookup(path)
	require.NoError(t, err)
	return v
}
