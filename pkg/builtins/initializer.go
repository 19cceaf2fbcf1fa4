package builtins

import (
	"github.com/sirupsen/logrus"

	"metaobj/pkg/vm"
)

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the global the module installs (e.g. "Array", "Reflect")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitRuntime creates the runtime values in the realm
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	Realm  *vm.Realm
	Logger logrus.FieldLogger

	// DefineGlobal installs a writable, non-enumerable, configurable
	// property on the global object.
	DefineGlobal func(name string, value vm.Value) error
}

// Priority constants for initialization order
const (
	PriorityObject      = 0 // Object.prototype methods are needed by everything
	PriorityFunction    = 1
	PriorityArray       = 3
	PriorityError       = 5 // error constructors before anything that throws from script
	PriorityString      = 10
	PriorityNumber      = 11
	PriorityBoolean     = 12
	PrioritySymbol      = 13
	PriorityArrayBuffer = 410
	PriorityTypedArray  = 420 // after ArrayBuffer, views need the buffer constructor
	PriorityProxy       = 500
	PriorityReflect     = 501
)
