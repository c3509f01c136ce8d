package cell

import (
	"reflect"
	"unsafe"
)

// bind resolves d and hands the result to the strategy's per-kind binder.
// Every failure comes back as a *BindError, at construction time.
func bind[T any](s Strategy, d Descriptor, fn func(Strategy, location) (T, error)) (T, error) {
	var zero T
	if s == nil {
		return zero, &BindError{Descriptor: d, Strategy: "<nil>", Err: ErrUnsupported}
	}
	f, err := d.resolve()
	if err != nil {
		return zero, &BindError{Descriptor: d, Strategy: s.Name(), Err: err}
	}
	ops, err := fn(s, f)
	if err != nil {
		return zero, &BindError{Descriptor: d, Strategy: s.Name(), Err: err}
	}
	return ops, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// ─────────────────────────────── Reference ────────────────────────────────

// Reference is a bound accessor for a *V field of O. Comparison is by
// pointer identity.
type Reference[O, V any] struct {
	desc     Descriptor
	strategy string
	ops      pointerOps
}

// BindReference binds field of O, which must have type *V, through s.
func BindReference[O, V any](s Strategy, field string) (*Reference[O, V], error) {
	d := DescriptorOf[O](field, KindReference)
	d.Elem = reflect.TypeFor[V]()
	ops, err := bind(s, d, Strategy.bindPointer)
	if err != nil {
		return nil, err
	}
	return &Reference[O, V]{desc: d, strategy: s.Name(), ops: ops}, nil
}

// NewReference binds field of O through the process strategy.
func NewReference[O, V any](field string) (*Reference[O, V], error) {
	return BindReference[O, V](Lookup(), field)
}

// MustReference is NewReference, panicking on error. Intended for
// package-level accessor variables.
func MustReference[O, V any](field string) *Reference[O, V] {
	return must(NewReference[O, V](field))
}

// Get is a sequentially consistent load.
func (r *Reference[O, V]) Get(owner *O) *V {
	return (*V)(r.ops.load(unsafe.Pointer(owner)))
}

// Set is a sequentially consistent store.
func (r *Reference[O, V]) Set(owner *O, v *V) {
	r.ops.store(unsafe.Pointer(owner), unsafe.Pointer(v))
}

// SetOrdered is a release store.
func (r *Reference[O, V]) SetOrdered(owner *O, v *V) {
	r.ops.storeRelease(unsafe.Pointer(owner), unsafe.Pointer(v))
}

// CAS stores swap if the cell currently holds expected, reporting whether it
// did.
func (r *Reference[O, V]) CAS(owner *O, expected, swap *V) bool {
	return r.ops.cas(unsafe.Pointer(owner), unsafe.Pointer(expected), unsafe.Pointer(swap))
}

// Descriptor returns the bound descriptor.
func (r *Reference[O, V]) Descriptor() Descriptor { return r.desc }

// Strategy names the strategy the accessor was bound through.
func (r *Reference[O, V]) Strategy() string { return r.strategy }

// ───────────────────────────────── Int32 ──────────────────────────────────

// Int32 is a bound accessor for an int32 field of O.
type Int32[O any] struct {
	desc     Descriptor
	strategy string
	ops      int32Ops
}

// BindInt32 binds field of O through s.
func BindInt32[O any](s Strategy, field string) (*Int32[O], error) {
	d := DescriptorOf[O](field, KindInt32)
	ops, err := bind(s, d, Strategy.bindInt32)
	if err != nil {
		return nil, err
	}
	return &Int32[O]{desc: d, strategy: s.Name(), ops: ops}, nil
}

// NewInt32 binds field of O through the process strategy.
func NewInt32[O any](field string) (*Int32[O], error) {
	return BindInt32[O](Lookup(), field)
}

// MustInt32 is NewInt32, panicking on error.
func MustInt32[O any](field string) *Int32[O] {
	return must(NewInt32[O](field))
}

func (a *Int32[O]) Get(owner *O) int32 { return a.ops.load(unsafe.Pointer(owner)) }

func (a *Int32[O]) Set(owner *O, v int32) { a.ops.store(unsafe.Pointer(owner), v) }

func (a *Int32[O]) SetOrdered(owner *O, v int32) { a.ops.storeRelease(unsafe.Pointer(owner), v) }

func (a *Int32[O]) CAS(owner *O, expected, swap int32) bool {
	return a.ops.cas(unsafe.Pointer(owner), expected, swap)
}

func (a *Int32[O]) Descriptor() Descriptor { return a.desc }

func (a *Int32[O]) Strategy() string { return a.strategy }

// ───────────────────────────────── Int64 ──────────────────────────────────

// Int64 is a bound accessor for an int64 field of O. The field must be at an
// 8-byte aligned offset and, on 32-bit platforms, O itself must be 8-byte
// aligned: start O with a `_ [0]atomic.Int64` field and place the cell first
// or pad before it.
type Int64[O any] struct {
	desc     Descriptor
	strategy string
	ops      int64Ops
}

// BindInt64 binds field of O through s.
func BindInt64[O any](s Strategy, field string) (*Int64[O], error) {
	d := DescriptorOf[O](field, KindInt64)
	ops, err := bind(s, d, Strategy.bindInt64)
	if err != nil {
		return nil, err
	}
	return &Int64[O]{desc: d, strategy: s.Name(), ops: ops}, nil
}

// NewInt64 binds field of O through the process strategy.
func NewInt64[O any](field string) (*Int64[O], error) {
	return BindInt64[O](Lookup(), field)
}

// MustInt64 is NewInt64, panicking on error.
func MustInt64[O any](field string) *Int64[O] {
	return must(NewInt64[O](field))
}

func (a *Int64[O]) Get(owner *O) int64 { return a.ops.load(unsafe.Pointer(owner)) }

func (a *Int64[O]) Set(owner *O, v int64) { a.ops.store(unsafe.Pointer(owner), v) }

func (a *Int64[O]) SetOrdered(owner *O, v int64) { a.ops.storeRelease(unsafe.Pointer(owner), v) }

func (a *Int64[O]) CAS(owner *O, expected, swap int64) bool {
	return a.ops.cas(unsafe.Pointer(owner), expected, swap)
}

func (a *Int64[O]) Descriptor() Descriptor { return a.desc }

func (a *Int64[O]) Strategy() string { return a.strategy }

// ───────────────────────────────── Bool ───────────────────────────────────

// Bool is a bound accessor for a uint32 field of O used as a flag. The field
// must only be written through Bool (or hold 0/1), since CAS compares the
// exact word.
type Bool[O any] struct {
	desc     Descriptor
	strategy string
	ops      int32Ops
}

// BindBool binds field of O through s.
func BindBool[O any](s Strategy, field string) (*Bool[O], error) {
	d := DescriptorOf[O](field, KindBool)
	ops, err := bind(s, d, Strategy.bindInt32)
	if err != nil {
		return nil, err
	}
	return &Bool[O]{desc: d, strategy: s.Name(), ops: ops}, nil
}

// NewBool binds field of O through the process strategy.
func NewBool[O any](field string) (*Bool[O], error) {
	return BindBool[O](Lookup(), field)
}

// MustBool is NewBool, panicking on error.
func MustBool[O any](field string) *Bool[O] {
	return must(NewBool[O](field))
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (a *Bool[O]) Get(owner *O) bool { return a.ops.load(unsafe.Pointer(owner)) != 0 }

func (a *Bool[O]) Set(owner *O, v bool) { a.ops.store(unsafe.Pointer(owner), b2i(v)) }

func (a *Bool[O]) SetOrdered(owner *O, v bool) { a.ops.storeRelease(unsafe.Pointer(owner), b2i(v)) }

func (a *Bool[O]) CAS(owner *O, expected, swap bool) bool {
	return a.ops.cas(unsafe.Pointer(owner), b2i(expected), b2i(swap))
}

func (a *Bool[O]) Descriptor() Descriptor { return a.desc }

func (a *Bool[O]) Strategy() string { return a.strategy }
