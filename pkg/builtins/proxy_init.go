package builtins

import (
	"metaobj/pkg/vm"
)

// ProxyInitializer installs the Proxy constructor and Proxy.revocable.
type ProxyInitializer struct{}

func (p *ProxyInitializer) Name() string {
	return "Proxy"
}

func (p *ProxyInitializer) Priority() int {
	return PriorityProxy
}

func (p *ProxyInitializer) InitRuntime(ctx *RuntimeContext) error {
	r := ctx.Realm

	// Proxy has no prototype property; proxies are never ordinary instances.
	ctor := r.NewNativeConstructor(2, "Proxy", func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.NewTypeError(vm.MsgProxyCallWithNew)
	}, func(call vm.FunctionCall) (vm.Value, error) {
		if len(call.Arguments) < 2 {
			return vm.Undefined, r.NewTypeError(vm.MsgProxyTwoArguments)
		}
		proxy, err := r.ProxyCreate(call.Arguments[0], call.Arguments[1])
		if err != nil {
			return vm.Undefined, err
		}
		return proxy.Value(), nil
	})

	method(r, ctor, "revocable", 2, func(call vm.FunctionCall) (vm.Value, error) {
		proxy, err := r.ProxyCreate(call.Argument(0), call.Argument(1))
		if err != nil {
			return vm.Undefined, err
		}
		revoke := r.NewNativeFunction(0, "", func(vm.FunctionCall) (vm.Value, error) {
			if proxy != nil {
				proxy.RevokeProxy()
				ctx.Logger.Debug("revocable proxy revoked")
				proxy = nil
			}
			return vm.Undefined, nil
		})

		result := r.NewPlainObject()
		if err := r.CreateDataPropertyOrThrow(result, vm.NewStringKey("proxy"), proxy.Value()); err != nil {
			return vm.Undefined, err
		}
		if err := r.CreateDataPropertyOrThrow(result, vm.NewStringKey("revoke"), revoke.Value()); err != nil {
			return vm.Undefined, err
		}
		return result.Value(), nil
	})

	return ctx.DefineGlobal("Proxy", ctor.Value())
}
