package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"metaobj/pkg/builtins"
	"metaobj/pkg/vm"
)

// Runtime is a realm with the standard builtins installed. Values created
// in one call stay visible to later ones. A Runtime is not safe for
// concurrent use; run one per goroutine.
type Runtime struct {
	realm  *vm.Realm
	logger logrus.FieldLogger
	config Config
}

// NewRuntime creates a realm configured by conf and installs the builtins.
// A nil logger discards output.
func NewRuntime(conf Config, logger logrus.FieldLogger) (*Runtime, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	realm := vm.NewRealm(conf.RealmOptions(logger))
	if err := builtins.Install(realm, logger); err != nil {
		return nil, fmt.Errorf("installing builtins: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"maxCallDepth": conf.MaxCallDepth.Int64,
		"traceTraps":   conf.TraceTraps.Bool,
	}).Debug("runtime ready")
	return &Runtime{realm: realm, logger: logger, config: conf}, nil
}

// NewDefaultRuntime is NewRuntime with the default config.
func NewDefaultRuntime() (*Runtime, error) {
	return NewRuntime(NewConfig(), nil)
}

func (rt *Runtime) Realm() *vm.Realm { return rt.realm }

func (rt *Runtime) Logger() logrus.FieldLogger { return rt.logger }

func (rt *Runtime) Config() Config { return rt.config }

// Global returns the global named name, or undefined.
func (rt *Runtime) Global(name string) (vm.Value, error) {
	return rt.realm.Get(rt.realm.GlobalObject, vm.NewStringKey(name))
}

// Lookup resolves a dotted path such as "Reflect.ownKeys" against the
// global object. Each step is an ordinary [[Get]], so accessors and proxy
// traps run.
func (rt *Runtime) Lookup(path string) (vm.Value, error) {
	v := rt.realm.GlobalObject.Value()
	for _, part := range strings.Split(path, ".") {
		if v.IsNullish() {
			return vm.Undefined, rt.realm.NewTypeError("Cannot read property %q of %s", part, v.String())
		}
		var err error
		if v, err = rt.realm.GetV(v, vm.NewStringKey(part)); err != nil {
			return vm.Undefined, err
		}
	}
	return v, nil
}

// Call invokes the function at path with an undefined this.
func (rt *Runtime) Call(path string, args ...vm.Value) (vm.Value, error) {
	fn, err := rt.Lookup(path)
	if err != nil {
		return vm.Undefined, err
	}
	return rt.realm.CallExpr(path, fn, vm.Undefined, args)
}

// Construct is new path(...args).
func (rt *Runtime) Construct(path string, args ...vm.Value) (*vm.Object, error) {
	fn, err := rt.Lookup(path)
	if err != nil {
		return nil, err
	}
	return rt.realm.ConstructExpr(path, fn, args, vm.Undefined)
}

// Set defines or replaces a global binding.
func (rt *Runtime) Set(name string, v vm.Value) error {
	return rt.realm.DefinePropertyOrThrow(rt.realm.GlobalObject, vm.NewStringKey(name), vm.DataDescriptor(v, true, false, true))
}
