package cell

import "reflect"

// Kind is the semantic type of a cell's value.
type Kind uint8

const (
	// KindReference is a pointer field (*V), compared by identity.
	KindReference Kind = iota + 1
	// KindInt32 is an int32 field.
	KindInt32
	// KindInt64 is an int64 field. It must sit at an 8-byte aligned offset.
	KindInt64
	// KindBool is a uint32 field holding 0 or 1. Go has no byte-wide atomics.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// storage is the reflect kind a field of this Kind must have.
func (k Kind) storage() reflect.Kind {
	switch k {
	case KindReference:
		return reflect.Pointer
	case KindInt32:
		return reflect.Int32
	case KindInt64:
		return reflect.Int64
	case KindBool:
		return reflect.Uint32
	default:
		return reflect.Invalid
	}
}

// align is the offset alignment the atomic instructions need.
func (k Kind) align() uintptr {
	switch k {
	case KindInt64:
		return 8
	case KindInt32, KindBool:
		return 4
	default:
		return reflect.TypeFor[uintptr]().Size()
	}
}
