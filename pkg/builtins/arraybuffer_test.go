package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func newBuffer(t *testing.T, r *vm.Realm, length float64, maxLength ...float64) *vm.Object {
	t.Helper()
	args := []vm.Value{num(length)}
	if len(maxLength) > 0 {
		opts := r.NewPlainObject()
		opts.SetOwn("maxByteLength", num(maxLength[0]))
		args = append(args, opts.Value())
	}
	buf, err := newPath(t, r, "ArrayBuffer", args...)
	require.NoError(t, err)
	return buf
}

func TestArrayBufferConstructor(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	buf := newBuffer(t, r, 8)
	assert.Equal(t, 8.0, get(t, r, buf.Value(), "byteLength").AsNumber())
	assert.Equal(t, 8.0, get(t, r, buf.Value(), "maxByteLength").AsNumber())
	assert.False(t, get(t, r, buf.Value(), "resizable").AsBoolean())
	assert.False(t, get(t, r, buf.Value(), "detached").AsBoolean())

	_, err := callPath(t, r, "ArrayBuffer", num(8))
	assertTypeError(t, err, "ArrayBuffer constructor requires 'new'")

	_, err = newPath(t, r, "ArrayBuffer", num(-1))
	assertRangeError(t, err)

	opts := r.NewPlainObject()
	opts.SetOwn("maxByteLength", num(4))
	_, err = newPath(t, r, "ArrayBuffer", num(8), opts.Value())
	assertRangeError(t, err)

	byteLength := lookup(t, r, "ArrayBuffer.prototype").AsObject()
	desc, _, err := byteLength.GetOwnProperty(vm.NewStringKey("byteLength"))
	require.NoError(t, err)
	_, err = r.Call(desc.Getter, r.NewPlainObject().Value(), nil)
	assertTypeError(t, err, "ArrayBuffer.prototype.byteLength called on incompatible receiver [object Object]")
}

func TestArrayBufferResize(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	buf := newBuffer(t, r, 2, 8)
	assert.True(t, get(t, r, buf.Value(), "resizable").AsBoolean())

	_, err := r.Invoke(buf.Value(), vm.NewStringKey("resize"), num(6))
	require.NoError(t, err)
	assert.Equal(t, 6.0, get(t, r, buf.Value(), "byteLength").AsNumber())

	_, err = r.Invoke(buf.Value(), vm.NewStringKey("resize"), num(9))
	assertRangeError(t, err)

	fixed := newBuffer(t, r, 2)
	_, err = r.Invoke(fixed.Value(), vm.NewStringKey("resize"), num(1))
	assertTypeError(t, err, vm.MsgArrayBufferNotResizable)
}

func TestArrayBufferSlice(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	buf := newBuffer(t, r, 4)
	data, _ := vm.ArrayBufferOf(buf)
	copy(data.Bytes(), []byte{1, 2, 3, 4})

	s, err := r.Invoke(buf.Value(), vm.NewStringKey("slice"), num(1), num(-1))
	require.NoError(t, err)
	sliced, ok := vm.ArrayBufferOf(s.AsObject())
	require.True(t, ok)
	assert.Equal(t, []byte{2, 3}, sliced.Bytes())

	s, err = r.Invoke(buf.Value(), vm.NewStringKey("slice"), num(3), num(1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, get(t, r, s, "byteLength").AsNumber())
}

func TestArrayBufferTransferDetachesSource(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	src := newBuffer(t, r, 4, 16)
	srcData, _ := vm.ArrayBufferOf(src)
	copy(srcData.Bytes(), []byte{9, 8, 7, 6})
	view, err := newPath(t, r, "Uint8Array", src.Value())
	require.NoError(t, err)

	moved, err := r.Invoke(src.Value(), vm.NewStringKey("transfer"))
	require.NoError(t, err)
	assert.True(t, get(t, r, src.Value(), "detached").AsBoolean())
	assert.Equal(t, 0.0, get(t, r, src.Value(), "byteLength").AsNumber())
	assert.Equal(t, 0.0, get(t, r, src.Value(), "maxByteLength").AsNumber())
	assert.True(t, get(t, r, moved, "resizable").AsBoolean(), "transfer keeps resizability")
	assert.Equal(t, 16.0, get(t, r, moved, "maxByteLength").AsNumber())
	movedData, _ := vm.ArrayBufferOf(moved.AsObject())
	assert.Equal(t, []byte{9, 8, 7, 6}, movedData.Bytes())

	assert.Equal(t, 0.0, get(t, r, view.Value(), "length").AsNumber(), "views of a detached buffer are empty")
	assert.True(t, get(t, r, view.Value(), "0").IsUndefined())

	_, err = r.Invoke(src.Value(), vm.NewStringKey("transfer"))
	assertTypeError(t, err, vm.MsgArrayBufferDetached)
	_, err = r.Invoke(src.Value(), vm.NewStringKey("slice"))
	assertTypeError(t, err, vm.MsgArrayBufferDetached)

	fixed, err := r.Invoke(moved, vm.NewStringKey("transferToFixedLength"), num(2))
	require.NoError(t, err)
	assert.False(t, get(t, r, fixed, "resizable").AsBoolean())
	fixedData, _ := vm.ArrayBufferOf(fixed.AsObject())
	assert.Equal(t, []byte{9, 8}, fixedData.Bytes())
}

func TestArrayBufferIsView(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	buf := newBuffer(t, r, 4)
	view, err := newPath(t, r, "Int16Array", buf.Value())
	require.NoError(t, err)

	for v, want := range map[*vm.Object]bool{view: true, buf: false, r.NewArray(): false} {
		got, err := callPath(t, r, "ArrayBuffer.isView", v.Value())
		require.NoError(t, err)
		assert.Equal(t, want, got.AsBoolean())
	}
}
