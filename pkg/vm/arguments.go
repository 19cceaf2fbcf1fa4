package vm

// argumentsData holds the parameter map of a mapped arguments object.
// An index stays mapped until it is deleted, redefined as an accessor or
// made non-writable.
type argumentsData struct {
	mapped map[uint32]*Value
}

func (d *argumentsData) cell(key PropertyKey) (*Value, bool) {
	if d == nil || key.kind != KeyKindIndex {
		return nil, false
	}
	c, ok := d.mapped[key.index]
	return c, ok
}

var calleeKey = NewStringKey("callee")

// NewUnmappedArguments creates a strict-mode arguments object. Its callee
// property throws on access.
func (r *Realm) NewUnmappedArguments(args []Value) *Object {
	obj := newObject(r, KindArguments, "Arguments", r.ObjectPrototype, ordinaryMethods)
	obj.DefineOwnPropertyByKey(lengthKey, IntValue(len(args)), true, false, true)
	for i, v := range args {
		obj.DefineOwnPropertyByKey(NewIndexKey(uint32(i)), v, true, true, true)
	}
	thrower := r.ThrowTypeError.Value()
	obj.DefineAccessorByKey(calleeKey, thrower, thrower, false, false)
	return obj
}

// NewMappedArguments creates a sloppy-mode arguments object for callee.
// bindings[i] is the variable cell of the i-th formal parameter; a nil
// entry means the formal is shadowed by a later duplicate. Indices below
// both len(args) and len(bindings) alias their cell: writes through the
// arguments object update the binding and the other way round. Cells are
// initialised from args.
func (r *Realm) NewMappedArguments(callee *Object, args []Value, bindings []*Value) *Object {
	data := &argumentsData{mapped: make(map[uint32]*Value)}
	obj := newObject(r, KindArguments, "Arguments", r.ObjectPrototype, mappedArgumentsMethods)
	obj.internal = data
	for i, v := range args {
		obj.DefineOwnPropertyByKey(NewIndexKey(uint32(i)), v, true, true, true)
	}
	obj.DefineOwnPropertyByKey(lengthKey, IntValue(len(args)), true, false, true)
	for i := len(bindings) - 1; i >= 0; i-- {
		if i >= len(args) || bindings[i] == nil {
			continue
		}
		*bindings[i] = args[i]
		data.mapped[uint32(i)] = bindings[i]
	}
	obj.DefineOwnPropertyByKey(calleeKey, callee.Value(), true, false, true)
	return obj
}

func mappedArgs(o *Object) *argumentsData {
	d, _ := o.internal.(*argumentsData)
	return d
}

func argumentsGetOwnProperty(o *Object, key PropertyKey) (PropertyDescriptor, bool, error) {
	desc, has, err := ordinaryGetOwnProperty(o, key)
	if err != nil || !has {
		return desc, has, err
	}
	if c, ok := mappedArgs(o).cell(key); ok {
		desc.Value = *c
	}
	return desc, true, nil
}

func argumentsDefineOwnProperty(o *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	data := mappedArgs(o)
	c, isMapped := data.cell(key)
	newDesc := desc
	if isMapped && desc.IsData() && !desc.HasValue && desc.Writable == FlagFalse {
		newDesc.Value = *c
		newDesc.HasValue = true
	}
	ok, err := ordinaryDefineOwnProperty(o, key, newDesc)
	if err != nil || !ok {
		return false, err
	}
	if isMapped {
		if desc.IsAccessor() {
			delete(data.mapped, key.index)
		} else {
			if desc.HasValue {
				*c = desc.Value
			}
			if desc.Writable == FlagFalse {
				delete(data.mapped, key.index)
			}
		}
	}
	return true, nil
}

func argumentsGet(o *Object, key PropertyKey, receiver Value) (Value, error) {
	if c, ok := mappedArgs(o).cell(key); ok {
		return *c, nil
	}
	return ordinaryGet(o, key, receiver)
}

func argumentsSet(o *Object, key PropertyKey, v Value, receiver Value) (bool, error) {
	if recv := receiver.AsObject(); recv == o {
		if c, ok := mappedArgs(o).cell(key); ok {
			*c = v
		}
	}
	return ordinarySet(o, key, v, receiver)
}

func argumentsDelete(o *Object, key PropertyKey) (bool, error) {
	data := mappedArgs(o)
	_, isMapped := data.cell(key)
	ok, err := ordinaryDelete(o, key)
	if err != nil || !ok {
		return ok, err
	}
	if isMapped {
		delete(data.mapped, key.index)
	}
	return true, nil
}
