package cell

import (
	"fmt"
	"reflect"
	"strings"
)

// Descriptor names one cell: a field of an owner struct type and the kind of
// value stored there. Descriptors are plain values and immutable once built.
type Descriptor struct {
	// Owner is the struct type that holds the cell.
	Owner reflect.Type
	// Field is a field name, a promoted field name, or a dotted path through
	// nested struct values ("stats.hits").
	Field string
	// Kind is the value kind the cell holds.
	Kind Kind
	// Elem optionally pins the pointee type of a KindReference cell.
	Elem reflect.Type
}

// NewDescriptor builds a Descriptor.
func NewDescriptor(owner reflect.Type, field string, kind Kind) Descriptor {
	return Descriptor{Owner: owner, Field: field, Kind: kind}
}

// DescriptorOf builds a Descriptor for a field of O.
func DescriptorOf[O any](field string, kind Kind) Descriptor {
	return NewDescriptor(reflect.TypeFor[O](), field, kind)
}

func (d Descriptor) String() string {
	owner := "<nil>"
	if d.Owner != nil {
		owner = d.Owner.String()
	}
	return fmt.Sprintf("%s.%s (%s)", owner, d.Field, d.Kind)
}

// location is a Descriptor resolved against its owner type.
type location struct {
	desc   Descriptor
	offset uintptr
	index  []int
	typ    reflect.Type
}

// resolve validates d and computes the cell's offset and index path. It does
// not depend on the strategy; strategies only add their own preconditions.
func (d Descriptor) resolve() (location, error) {
	f := location{desc: d}
	if d.Owner == nil || d.Owner.Kind() != reflect.Struct {
		return f, ErrNotStruct
	}
	if d.Field == "" {
		return f, ErrUnknownField
	}

	cur := d.Owner
	for _, name := range strings.Split(d.Field, ".") {
		switch cur.Kind() {
		case reflect.Struct:
		case reflect.Pointer:
			return f, fmt.Errorf("%w: %q", ErrIndirectPath, name)
		default:
			return f, fmt.Errorf("%w: %s has no field %q", ErrNotStruct, cur, name)
		}
		sf, ok := cur.FieldByName(name)
		if !ok {
			return f, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, cur, name)
		}
		// walk the promotion chain so embedded pointers are caught
		t := cur
		for i, idx := range sf.Index {
			step := t.Field(idx)
			f.offset += step.Offset
			f.index = append(f.index, idx)
			t = step.Type
			if i < len(sf.Index)-1 && t.Kind() == reflect.Pointer {
				return f, fmt.Errorf("%w: %q is promoted through %s", ErrIndirectPath, name, t)
			}
		}
		cur = t
	}
	f.typ = cur

	if cur.Kind() != d.Kind.storage() {
		return f, fmt.Errorf("%w: %s is %s, want %s storage", ErrKindMismatch, d.Field, cur, d.Kind)
	}
	if d.Kind == KindReference && d.Elem != nil && cur.Elem() != d.Elem {
		return f, fmt.Errorf("%w: %s is %s, want *%s", ErrKindMismatch, d.Field, cur, d.Elem)
	}
	if a := d.Kind.align(); f.offset%a != 0 {
		return f, fmt.Errorf("%w: %s at offset %d, need %d-byte alignment", ErrMisaligned, d.Field, f.offset, a)
	}
	if d.Kind == KindInt64 && !int64OwnerAligned(d.Owner, int64Align) {
		return f, fmt.Errorf("%w: %s is only %d-byte aligned; add a leading `_ [0]atomic.Int64` field",
			ErrMisaligned, d.Owner, d.Owner.Align())
	}
	return f, nil
}

// int64Align is the platform's natural int64 alignment.
var int64Align = reflect.TypeFor[int64]().Align()

// int64OwnerAligned reports whether every value of owner is placed at an
// 8-byte boundary. Where int64 is naturally 8-aligned that holds for any
// owner with an int64 field; elsewhere an owner embedded at a 4-byte offset
// would pass the field-offset check and fault on first use.
func int64OwnerAligned(owner reflect.Type, nativeAlign int) bool {
	return nativeAlign >= 8 || owner.Align()%8 == 0
}
