package builtins

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"metaobj/pkg/vm"
)

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	initializers := []BuiltinInitializer{
		&ObjectInitializer{},
		&FunctionInitializer{},
		&ArrayInitializer{},
		&ErrorInitializer{},
		&StringInitializer{},
		&NumberInitializer{},
		&BooleanInitializer{},
		&SymbolInitializer{},
		&ArrayBufferInitializer{},
		&TypedArrayInitializer{},
		&ProxyInitializer{},
		&ReflectInitializer{},
	}

	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}

// Install runs the initializers against the realm's global object.
// A nil logger discards output.
func Install(r *vm.Realm, logger logrus.FieldLogger, initializers ...BuiltinInitializer) error {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if len(initializers) == 0 {
		initializers = GetStandardInitializers()
	}

	global := r.GlobalObject
	ctx := &RuntimeContext{
		Realm:  r,
		Logger: logger,
		DefineGlobal: func(name string, value vm.Value) error {
			return r.DefinePropertyOrThrow(global, vm.NewStringKey(name), vm.DataDescriptor(value, true, false, true))
		},
	}

	for _, bi := range initializers {
		logger.WithFields(logrus.Fields{
			"builtin":  bi.Name(),
			"priority": bi.Priority(),
		}).Debug("initializing builtin")
		if err := bi.InitRuntime(ctx); err != nil {
			return fmt.Errorf("initializing %s: %w", bi.Name(), err)
		}
	}
	return nil
}
