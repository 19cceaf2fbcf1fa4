package vm

// IntegrityLevel is the target of Object.seal and Object.freeze.
type IntegrityLevel uint8

const (
	IntegritySealed IntegrityLevel = iota
	IntegrityFrozen
)

// SetIntegrityLevel prevents extensions and then redefines every own
// property. It runs entirely through internal methods, so a proxy sees each
// step.
func (r *Realm) SetIntegrityLevel(o *Object, level IntegrityLevel) (bool, error) {
	ok, err := o.PreventExtensions()
	if err != nil || !ok {
		return false, err
	}
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		desc := PropertyDescriptor{Configurable: FlagFalse}
		if level == IntegrityFrozen {
			current, has, err := o.GetOwnProperty(key)
			if err != nil {
				return false, err
			}
			if !has {
				continue
			}
			if !current.IsAccessor() {
				desc.Writable = FlagFalse
			}
		}
		if err := r.DefinePropertyOrThrow(o, key, desc); err != nil {
			return false, err
		}
	}
	return true, nil
}

// TestIntegrityLevel backs Object.isSealed and Object.isFrozen.
func (r *Realm) TestIntegrityLevel(o *Object, level IntegrityLevel) (bool, error) {
	extensible, err := o.IsExtensible()
	if err != nil || extensible {
		return false, err
	}
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		desc, has, err := o.GetOwnProperty(key)
		if err != nil {
			return false, err
		}
		if !has {
			continue
		}
		if desc.Configurable == FlagTrue {
			return false, nil
		}
		if level == IntegrityFrozen && desc.IsData() && desc.Writable == FlagTrue {
			return false, nil
		}
	}
	return true, nil
}
