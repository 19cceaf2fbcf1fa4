package vm

// Flag is a tri-state descriptor attribute: absent, false or true.
type Flag uint8

const (
	FlagNotSet Flag = iota
	FlagFalse
	FlagTrue
)

func ToFlag(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

func (f Flag) Bool() bool { return f == FlagTrue }

// PropertyDescriptor is a possibly partial property description. Value,
// Getter and Setter are present only when the matching Has field is set.
type PropertyDescriptor struct {
	Value  Value
	Getter Value
	Setter Value

	HasValue  bool
	HasGetter bool
	HasSetter bool

	Writable     Flag
	Enumerable   Flag
	Configurable Flag
}

func (d PropertyDescriptor) IsAccessor() bool {
	return d.HasGetter || d.HasSetter
}

func (d PropertyDescriptor) IsData() bool {
	return d.HasValue || d.Writable != FlagNotSet
}

func (d PropertyDescriptor) IsGeneric() bool {
	return !d.IsAccessor() && !d.IsData()
}

// IsEmpty reports whether no field is present.
func (d PropertyDescriptor) IsEmpty() bool {
	return d.IsGeneric() && d.Enumerable == FlagNotSet && d.Configurable == FlagNotSet
}

// CompletePropertyDescriptor fills every absent field with its default.
func CompletePropertyDescriptor(d PropertyDescriptor) PropertyDescriptor {
	if d.IsGeneric() || d.IsData() {
		if !d.HasValue {
			d.Value = Undefined
			d.HasValue = true
		}
		if d.Writable == FlagNotSet {
			d.Writable = FlagFalse
		}
	} else {
		if !d.HasGetter {
			d.Getter = Undefined
			d.HasGetter = true
		}
		if !d.HasSetter {
			d.Setter = Undefined
			d.HasSetter = true
		}
	}
	if d.Enumerable == FlagNotSet {
		d.Enumerable = FlagFalse
	}
	if d.Configurable == FlagNotSet {
		d.Configurable = FlagFalse
	}
	return d
}

// DataDescriptor is shorthand for a complete data descriptor.
func DataDescriptor(v Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        v,
		HasValue:     true,
		Writable:     ToFlag(writable),
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

// AccessorDescriptor is shorthand for a complete accessor descriptor.
func AccessorDescriptor(get, set Value, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Getter:       get,
		Setter:       set,
		HasGetter:    true,
		HasSetter:    true,
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

// property is a stored own property; it is always complete.
type property struct {
	value        Value
	getter       Value
	setter       Value
	accessor     bool
	writable     bool
	enumerable   bool
	configurable bool
}

func (p *property) descriptor() PropertyDescriptor {
	if p.accessor {
		return AccessorDescriptor(p.getter, p.setter, p.enumerable, p.configurable)
	}
	return DataDescriptor(p.value, p.writable, p.enumerable, p.configurable)
}

func propertyFromDescriptor(d PropertyDescriptor) *property {
	d = CompletePropertyDescriptor(d)
	if d.IsAccessor() {
		return &property{
			getter:       d.Getter,
			setter:       d.Setter,
			accessor:     true,
			enumerable:   d.Enumerable.Bool(),
			configurable: d.Configurable.Bool(),
		}
	}
	return &property{
		value:        d.Value,
		writable:     d.Writable.Bool(),
		enumerable:   d.Enumerable.Bool(),
		configurable: d.Configurable.Bool(),
	}
}
