package cell

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"atomiccell/constants"
	"atomiccell/spin"
)

// handleStrategy keeps a reflect handle (owner type + field index path) and
// materialises the field address on every operation. It needs nothing from
// the platform beyond reflect and sync/atomic, so it is the last resort.
type handleStrategy struct{}

func newHandle() (Strategy, error) {
	s := handleStrategy{}
	if err := selfTest(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (handleStrategy) Name() string { return constants.StrategyHandle }

func (handleStrategy) SpinHint() { spin.Yield() }

func (handleStrategy) bindPointer(f location) (pointerOps, error) {
	return handlePointer{newHandleCell(f)}, nil
}

func (handleStrategy) bindInt32(f location) (int32Ops, error) {
	return handleInt32{newHandleCell(f)}, nil
}

func (handleStrategy) bindInt64(f location) (int64Ops, error) {
	return handleInt64{newHandleCell(f)}, nil
}

type handleCell struct {
	owner reflect.Type
	index []int
}

func newHandleCell(f location) handleCell {
	return handleCell{owner: f.desc.Owner, index: append([]int(nil), f.index...)}
}

// addr resolves the field through reflect. Unexported fields are fine: only
// the address is taken, never the value.
func (c handleCell) addr(owner unsafe.Pointer) unsafe.Pointer {
	return reflect.NewAt(c.owner, owner).Elem().FieldByIndex(c.index).Addr().UnsafePointer()
}

type handlePointer struct{ handleCell }

func (c handlePointer) load(owner unsafe.Pointer) unsafe.Pointer {
	return atomic.LoadPointer((*unsafe.Pointer)(c.addr(owner)))
}

func (c handlePointer) store(owner, v unsafe.Pointer) {
	atomic.StorePointer((*unsafe.Pointer)(c.addr(owner)), v)
}

func (c handlePointer) storeRelease(owner, v unsafe.Pointer) {
	atomic.StorePointer((*unsafe.Pointer)(c.addr(owner)), v)
}

func (c handlePointer) cas(owner, old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer((*unsafe.Pointer)(c.addr(owner)), old, new)
}

type handleInt32 struct{ handleCell }

func (c handleInt32) load(owner unsafe.Pointer) int32 {
	return atomic.LoadInt32((*int32)(c.addr(owner)))
}

func (c handleInt32) store(owner unsafe.Pointer, v int32) {
	atomic.StoreInt32((*int32)(c.addr(owner)), v)
}

func (c handleInt32) storeRelease(owner unsafe.Pointer, v int32) {
	atomic.StoreInt32((*int32)(c.addr(owner)), v)
}

func (c handleInt32) cas(owner unsafe.Pointer, old, new int32) bool {
	return atomic.CompareAndSwapInt32((*int32)(c.addr(owner)), old, new)
}

type handleInt64 struct{ handleCell }

func (c handleInt64) load(owner unsafe.Pointer) int64 {
	return atomic.LoadInt64((*int64)(c.addr(owner)))
}

func (c handleInt64) store(owner unsafe.Pointer, v int64) {
	atomic.StoreInt64((*int64)(c.addr(owner)), v)
}

func (c handleInt64) storeRelease(owner unsafe.Pointer, v int64) {
	atomic.StoreInt64((*int64)(c.addr(owner)), v)
}

func (c handleInt64) cas(owner unsafe.Pointer, old, new int64) bool {
	return atomic.CompareAndSwapInt64((*int64)(c.addr(owner)), old, new)
}
