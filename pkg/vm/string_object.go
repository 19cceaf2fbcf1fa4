package vm

import "unicode/utf16"

type stringData struct {
	value string
	units []uint16
}

func (r *Realm) newStringObject(value string, proto *Object) *Object {
	s := newObject(r, KindString, "String", proto, stringMethods)
	sd := &stringData{value: value, units: utf16.Encode([]rune(value))}
	s.internal = sd
	s.DefineOwnPropertyByKey(lengthKey, IntValue(len(sd.units)), false, false, false)
	return s
}

// NewStringObject creates a String wrapper for value. An optional proto
// replaces String.prototype.
func (r *Realm) NewStringObject(value string, proto ...*Object) *Object {
	if len(proto) > 0 && proto[0] != nil {
		return r.newStringObject(value, proto[0])
	}
	return r.newStringObject(value, r.StringPrototype)
}

// StringData returns the wrapped primitive of a String wrapper.
func (o *Object) StringData() (string, bool) {
	if sd, ok := o.internal.(*stringData); ok {
		return sd.value, true
	}
	return "", false
}

// codeUnitString renders one UTF-16 code unit. Lone surrogates have no
// UTF-8 form and come out as U+FFFD.
func codeUnitString(u uint16) string {
	return string(utf16.Decode([]uint16{u}))
}

func stringIndexProperty(s *Object, key PropertyKey) (PropertyDescriptor, bool) {
	sd := s.internal.(*stringData)
	if key.kind != KeyKindIndex || int(key.index) >= len(sd.units) {
		return PropertyDescriptor{}, false
	}
	return DataDescriptor(NewString(codeUnitString(sd.units[key.index])), false, true, false), true
}

func stringGetOwnProperty(s *Object, key PropertyKey) (PropertyDescriptor, bool, error) {
	if p, ok := s.props.get(key); ok {
		return p.descriptor(), true, nil
	}
	desc, ok := stringIndexProperty(s, key)
	return desc, ok, nil
}

func stringDefineOwnProperty(s *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	if current, ok := stringIndexProperty(s, key); ok {
		return IsCompatiblePropertyDescriptor(s.extensible, desc, current, true), nil
	}
	return ordinaryDefineOwnProperty(s, key, desc)
}

func stringOwnPropertyKeys(s *Object) ([]PropertyKey, error) {
	sd := s.internal.(*stringData)
	keys := make([]PropertyKey, 0, len(sd.units)+s.props.len())
	for i := range sd.units {
		keys = append(keys, NewIndexKey(uint32(i)))
	}
	for _, idx := range s.props.indexKeys() {
		if int(idx) >= len(sd.units) {
			keys = append(keys, NewIndexKey(idx))
		}
	}
	return append(keys, s.props.nonIndexKeys()...), nil
}
