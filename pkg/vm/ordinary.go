package vm

func ordinaryGetPrototypeOf(o *Object) (*Object, error) {
	return o.prototype, nil
}

func ordinarySetPrototypeOf(o *Object, proto *Object) (bool, error) {
	if proto == o.prototype {
		return true, nil
	}
	if !o.extensible {
		return false, nil
	}
	// A proxy in the chain ends the cycle check; its [[GetPrototypeOf]]
	// may run user code.
	for p := proto; p != nil; p = p.prototype {
		if p == o {
			return false, nil
		}
		if p.kind == KindProxy {
			break
		}
	}
	o.prototype = proto
	return true, nil
}

// immutableSetPrototypeOf backs %Object.prototype%, whose prototype can
// never change.
func immutableSetPrototypeOf(o *Object, proto *Object) (bool, error) {
	current, err := o.GetPrototypeOf()
	if err != nil {
		return false, err
	}
	return proto == current, nil
}

func ordinaryIsExtensible(o *Object) (bool, error) {
	return o.extensible, nil
}

func ordinaryPreventExtensions(o *Object) (bool, error) {
	o.extensible = false
	return true, nil
}

func ordinaryGetOwnProperty(o *Object, key PropertyKey) (PropertyDescriptor, bool, error) {
	if p, ok := o.props.get(key); ok {
		return p.descriptor(), true, nil
	}
	return PropertyDescriptor{}, false, nil
}

func ordinaryDefineOwnProperty(o *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	current, hasCurrent, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	extensible, err := o.IsExtensible()
	if err != nil {
		return false, err
	}
	return validateAndApplyPropertyDescriptor(o, key, extensible, desc, current, hasCurrent), nil
}

// IsCompatiblePropertyDescriptor reports whether desc could be applied to
// a property currently described by current.
func IsCompatiblePropertyDescriptor(extensible bool, desc PropertyDescriptor, current PropertyDescriptor, hasCurrent bool) bool {
	return validateAndApplyPropertyDescriptor(nil, PropertyKey{}, extensible, desc, current, hasCurrent)
}

// validateAndApplyPropertyDescriptor validates desc against the complete
// descriptor current and, if o is non-nil and validation passes, writes the
// result into o's table. Nothing is mutated on failure.
func validateAndApplyPropertyDescriptor(o *Object, key PropertyKey, extensible bool, desc PropertyDescriptor, current PropertyDescriptor, hasCurrent bool) bool {
	if !hasCurrent {
		if !extensible {
			return false
		}
		if o != nil {
			o.props.set(key, propertyFromDescriptor(desc))
		}
		return true
	}

	if desc.IsEmpty() {
		return true
	}

	if current.Configurable == FlagFalse {
		if desc.Configurable == FlagTrue {
			return false
		}
		if desc.Enumerable != FlagNotSet && desc.Enumerable != current.Enumerable {
			return false
		}
		if !desc.IsGeneric() && desc.IsAccessor() != current.IsAccessor() {
			return false
		}
		if current.IsAccessor() {
			if desc.HasGetter && !SameValue(desc.Getter, current.Getter) {
				return false
			}
			if desc.HasSetter && !SameValue(desc.Setter, current.Setter) {
				return false
			}
		} else if current.Writable == FlagFalse {
			if desc.Writable == FlagTrue {
				return false
			}
			if desc.HasValue && !SameValue(desc.Value, current.Value) {
				return false
			}
		}
	}

	if o == nil {
		return true
	}

	enumerable := current.Enumerable.Bool()
	if desc.Enumerable != FlagNotSet {
		enumerable = desc.Enumerable.Bool()
	}
	configurable := current.Configurable.Bool()
	if desc.Configurable != FlagNotSet {
		configurable = desc.Configurable.Bool()
	}

	var p *property
	switch {
	case current.IsData() && desc.IsAccessor():
		p = &property{getter: Undefined, setter: Undefined, accessor: true}
		if desc.HasGetter {
			p.getter = desc.Getter
		}
		if desc.HasSetter {
			p.setter = desc.Setter
		}
	case current.IsAccessor() && desc.IsData():
		p = &property{value: Undefined}
		if desc.HasValue {
			p.value = desc.Value
		}
		p.writable = desc.Writable.Bool()
	case current.IsAccessor():
		p = &property{getter: current.Getter, setter: current.Setter, accessor: true}
		if desc.HasGetter {
			p.getter = desc.Getter
		}
		if desc.HasSetter {
			p.setter = desc.Setter
		}
	default:
		p = &property{value: current.Value, writable: current.Writable.Bool()}
		if desc.HasValue {
			p.value = desc.Value
		}
		if desc.Writable != FlagNotSet {
			p.writable = desc.Writable.Bool()
		}
	}
	p.enumerable = enumerable
	p.configurable = configurable
	o.props.set(key, p)
	return true
}

func ordinaryHasProperty(o *Object, key PropertyKey) (bool, error) {
	_, has, err := o.GetOwnProperty(key)
	if err != nil || has {
		return has, err
	}
	parent, err := o.GetPrototypeOf()
	if err != nil || parent == nil {
		return false, err
	}
	return parent.HasProperty(key)
}

func ordinaryGet(o *Object, key PropertyKey, receiver Value) (Value, error) {
	desc, has, err := o.GetOwnProperty(key)
	if err != nil {
		return Undefined, err
	}
	if !has {
		parent, err := o.GetPrototypeOf()
		if err != nil || parent == nil {
			return Undefined, err
		}
		return parent.Get(key, receiver)
	}
	if desc.IsData() {
		return desc.Value, nil
	}
	getter := desc.Getter.AsObject()
	if getter == nil {
		return Undefined, nil
	}
	return getter.Call(receiver, nil)
}

func ordinarySet(o *Object, key PropertyKey, v Value, receiver Value) (bool, error) {
	ownDesc, has, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	return ordinarySetWithOwnDescriptor(o, key, v, receiver, ownDesc, has)
}

func ordinarySetWithOwnDescriptor(o *Object, key PropertyKey, v Value, receiver Value, ownDesc PropertyDescriptor, has bool) (bool, error) {
	if !has {
		parent, err := o.GetPrototypeOf()
		if err != nil {
			return false, err
		}
		if parent != nil {
			return parent.Set(key, v, receiver)
		}
		ownDesc = DataDescriptor(Undefined, true, true, true)
	}

	if ownDesc.IsData() {
		if ownDesc.Writable != FlagTrue {
			return false, nil
		}
		recv := receiver.AsObject()
		if recv == nil {
			return false, nil
		}
		existing, exists, err := recv.GetOwnProperty(key)
		if err != nil {
			return false, err
		}
		if exists {
			if existing.IsAccessor() || existing.Writable != FlagTrue {
				return false, nil
			}
			return recv.DefineOwnProperty(key, PropertyDescriptor{Value: v, HasValue: true})
		}
		return recv.DefineOwnProperty(key, DataDescriptor(v, true, true, true))
	}

	setter := ownDesc.Setter.AsObject()
	if setter == nil {
		return false, nil
	}
	if _, err := setter.Call(receiver, []Value{v}); err != nil {
		return false, err
	}
	return true, nil
}

func ordinaryDelete(o *Object, key PropertyKey) (bool, error) {
	desc, has, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !has {
		return true, nil
	}
	if desc.Configurable == FlagTrue {
		o.props.remove(key)
		return true, nil
	}
	return false, nil
}

func ordinaryOwnPropertyKeys(o *Object) ([]PropertyKey, error) {
	return o.props.keys(), nil
}
