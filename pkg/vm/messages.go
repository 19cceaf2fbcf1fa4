package vm

// Diagnostic texts. They are part of the observable behaviour and tests
// compare them verbatim.
const (
	MsgNotAFunction             = "%s is not a function"
	MsgNotAConstructor          = "%s is not a constructor"
	MsgNotAnObject              = "%s is not an object"
	MsgNotAnObjectOrNull        = "%s is neither an object nor null"
	MsgNotAnObjectOrString      = "%s is neither an object nor a string"
	MsgConstructResultNotObject = "Constructor did not return an object"
	MsgToObjectNullOrUndefined  = "ToObject on null or undefined"
	MsgConvertToPrimitive       = "Cannot convert object to primitive value"
	MsgSymbolToNumber           = "Cannot convert symbol to number"
	MsgSymbolToString           = "Cannot convert symbol to string"
	MsgCallStackSizeExceeded    = "Maximum call stack size exceeded"
	MsgRestrictedProperty       = "Restricted function properties like 'callee', 'caller' and 'arguments' may not be accessed in strict mode"

	MsgInvalidArrayLength       = "Invalid array length"
	MsgInvalidArrayBufferLength = "Invalid array buffer length"
	MsgInvalidTypedArrayLength  = "Invalid typed array length: %s"
	MsgInvalidTypedArrayOffset  = "Start offset of %s should be a multiple of %d"
	MsgTypedArrayOutOfBounds    = "Typed array view is out of bounds of its buffer"
	MsgArrayBufferDetached      = "ArrayBuffer is detached"
	MsgInvalidIndex             = "Index must be a non-negative integer no greater than 2^53 - 1"
	MsgArrayBufferNotResizable  = "ArrayBuffer is not resizable"
	MsgArrayBufferMaxLength     = "ArrayBuffer length exceeds maxByteLength"

	MsgDefineOwnPropertyFalse  = "Object's [[DefineOwnProperty]] method returned false"
	MsgDeleteFalse             = "Object's [[Delete]] method returned false"
	MsgSetFalse                = "Object's [[Set]] method returned false"
	MsgSetPrototypeOfFalse     = "Object's [[SetPrototypeOf]] method returned false"
	MsgPreventExtensionsFalse  = "Object's [[PreventExtensions]] method returned false"
	MsgAccessorBadField        = "Accessor property descriptor's %s field must be a function or undefined"
	MsgAccessorValueOrWritable = "Accessor property descriptor cannot specify a value or writable key"
	MsgListElementType         = "%s is not a valid property key"
	MsgObjectFreezeFailed      = "Could not freeze object"
	MsgObjectSealFailed        = "Could not seal object"
	MsgIncompatibleReceiver    = "%s called on incompatible receiver %s"
	MsgConstructorWithoutNew   = "%s constructor requires 'new'"
	MsgAbstractTypedArray      = "Abstract class TypedArray not directly constructable"
	MsgArrayMaxSize            = "Maximum array size exceeded"
	MsgRadixOutOfRange         = "toString() radix must be between 2 and 36"
	MsgNotASymbol              = "%s is not a symbol"

	MsgProxyTwoArguments       = "Proxy constructor requires at least two arguments"
	MsgProxyConstructorBadType = "Expected %s argument of Proxy constructor to be object, got %s"
	MsgProxyCallWithNew        = "Proxy must be called with the 'new' operator"
	MsgProxyRevoked            = "An operation was performed on a revoked Proxy object"
	MsgProxyInvalidTrap        = "Proxy handler's %s trap wasn't undefined, null, or callable"

	MsgProxyGetPrototypeOfReturn        = "Proxy handler's getPrototypeOf trap violates invariant: must return an object or null"
	MsgProxyGetPrototypeOfNonExtensible = "Proxy handler's getPrototypeOf trap violates invariant: cannot return a different prototype object for a non-extensible target"
	MsgProxySetPrototypeOfNonExtensible = "Proxy handler's setPrototypeOf trap violates invariant: the argument must match the prototype of the target if the target is non-extensible"
	MsgProxyIsExtensibleReturn          = "Proxy handler's isExtensible trap violates invariant: return value must match the target's extensibility"
	MsgProxyPreventExtensionsReturn     = "Proxy handler's preventExtensions trap violates invariant: cannot return true if the target object is extensible"

	MsgProxyGetOwnDescriptorReturn               = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: must return an object or undefined"
	MsgProxyGetOwnDescriptorNonConfigurable      = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: cannot return undefined for a property on the target which is a non-configurable property"
	MsgProxyGetOwnDescriptorNonExtensible        = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: cannot report a property as being undefined if it exists as an own property of the target and the target is non-extensible"
	MsgProxyGetOwnDescriptorInvalidDescriptor    = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: invalid property descriptor for existing property on the target"
	MsgProxyGetOwnDescriptorInvalidNonConfig     = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: cannot report target's property as non-configurable if the property does not exist, or if it is configurable"
	MsgProxyGetOwnDescriptorNonConfigNonWritable = "Proxy handler's getOwnPropertyDescriptor trap violates invariant: cannot report a target's property as non-configurable and non-writable, unless it is non-configurable and non-writable on the target"

	MsgProxyDefinePropNonExtensible              = "Proxy handler's defineProperty trap violates invariant: a property cannot be reported as being defined if the property does not exist on the target and the target is non-extensible"
	MsgProxyDefinePropNonConfigurableNonExisting = "Proxy handler's defineProperty trap violates invariant: a property cannot be defined as non-configurable if it does not already exist on the target object"
	MsgProxyDefinePropIncompatibleDescriptor     = "Proxy handler's defineProperty trap violates invariant: the new descriptor is not compatible with the existing descriptor of the property on the target"
	MsgProxyDefinePropExistingConfigurable       = "Proxy handler's defineProperty trap violates invariant: a property cannot be defined as non-configurable if it already exists on the target object as a configurable property"
	MsgProxyDefinePropNonWritable                = "Proxy handler's defineProperty trap violates invariant: a non-configurable property cannot be non-writable, unless it is non-writable on the target"

	MsgProxyHasExistingNonConfigurable = "Proxy handler's has trap violates invariant: a property cannot be reported as non-existent if it exists on the target as a non-configurable property"
	MsgProxyHasExistingNonExtensible   = "Proxy handler's has trap violates invariant: a property cannot be reported as non-existent if it exists on the target and the target is non-extensible"

	MsgProxyGetImmutableDataProperty   = "Proxy handler's get trap violates invariant: the returned value must match the value on the target if the property exists on the target as a non-writable, non-configurable own data property"
	MsgProxyGetNonConfigurableAccessor = "Proxy handler's get trap violates invariant: the returned value must be undefined if the property exists on the target as a non-configurable accessor property with an undefined get attribute"

	MsgProxySetImmutableDataProperty   = "Proxy handler's set trap violates invariant: cannot return true for a property on the target which is a non-configurable, non-writable own data property"
	MsgProxySetNonConfigurableAccessor = "Proxy handler's set trap violates invariant: cannot return true for a property on the target which is a non-configurable own accessor property with an undefined set attribute"

	MsgProxyDeleteNonConfigurable = "Proxy handler's deleteProperty trap violates invariant: cannot report a non-configurable own property of the target as deleted"
	MsgProxyDeleteNonExtensible   = "Proxy handler's deleteProperty trap violates invariant: a property cannot be reported as deleted, if it exists as an own property of the target object and the target object is non-extensible"

	MsgProxyOwnKeysNotStringOrSymbol    = "Proxy handler's ownKeys trap violates invariant: the type of each result list element is either String or Symbol"
	MsgProxyOwnKeysDuplicates           = "Proxy handler's ownKeys trap violates invariant: the result list may not contain duplicate elements"
	MsgProxyOwnKeysSkippedNonConfig     = "Proxy handler's ownKeys trap violates invariant: cannot skip non-configurable property '%s'"
	MsgProxyOwnKeysNonExtensibleSkipped = "Proxy handler's ownKeys trap violates invariant: cannot skip property '%s' of non-extensible object"
	MsgProxyOwnKeysNonExtensibleNew     = "Proxy handler's ownKeys trap violates invariant: cannot report new property '%s' of non-extensible object"

	MsgProxyConstructBadReturnType = "Proxy handler's construct trap violates invariant: must return an object"
)
