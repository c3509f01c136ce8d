package cell

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"atomiccell/constants"
	"atomiccell/spin"
)

// offsetStrategy addresses a cell as owner+offset and uses sync/atomic for
// every operation. The release store is a sequentially consistent store,
// which is a conservative superset of the required ordering.
type offsetStrategy struct{}

func newOffset() (Strategy, error) {
	if puregoBuild {
		return nil, fmt.Errorf("%w: built with purego", ErrUnsupported)
	}
	s := offsetStrategy{}
	if err := selfTest(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (offsetStrategy) Name() string { return constants.StrategyOffset }

func (offsetStrategy) SpinHint() {
	if spin.Hardware {
		spin.Relax()
	} else {
		spin.Yield()
	}
}

func (offsetStrategy) bindPointer(f location) (pointerOps, error) {
	return offsetPointer{f.offset}, nil
}

func (offsetStrategy) bindInt32(f location) (int32Ops, error) {
	return offsetInt32{f.offset}, nil
}

func (offsetStrategy) bindInt64(f location) (int64Ops, error) {
	return offsetInt64{f.offset}, nil
}

type offsetPointer struct{ off uintptr }

func (c offsetPointer) addr(owner unsafe.Pointer) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Add(owner, c.off))
}

func (c offsetPointer) load(owner unsafe.Pointer) unsafe.Pointer {
	return atomic.LoadPointer(c.addr(owner))
}

func (c offsetPointer) store(owner, v unsafe.Pointer) {
	atomic.StorePointer(c.addr(owner), v)
}

// storeRelease keeps the GC write barrier, so pointers never bypass it.
func (c offsetPointer) storeRelease(owner, v unsafe.Pointer) {
	atomic.StorePointer(c.addr(owner), v)
}

func (c offsetPointer) cas(owner, old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer(c.addr(owner), old, new)
}

type offsetInt32 struct{ off uintptr }

func (c offsetInt32) addr(owner unsafe.Pointer) *int32 {
	return (*int32)(unsafe.Add(owner, c.off))
}

func (c offsetInt32) load(owner unsafe.Pointer) int32 {
	return atomic.LoadInt32(c.addr(owner))
}

func (c offsetInt32) store(owner unsafe.Pointer, v int32) {
	atomic.StoreInt32(c.addr(owner), v)
}

func (c offsetInt32) storeRelease(owner unsafe.Pointer, v int32) {
	atomic.StoreInt32(c.addr(owner), v)
}

func (c offsetInt32) cas(owner unsafe.Pointer, old, new int32) bool {
	return atomic.CompareAndSwapInt32(c.addr(owner), old, new)
}

type offsetInt64 struct{ off uintptr }

func (c offsetInt64) addr(owner unsafe.Pointer) *int64 {
	return (*int64)(unsafe.Add(owner, c.off))
}

func (c offsetInt64) load(owner unsafe.Pointer) int64 {
	return atomic.LoadInt64(c.addr(owner))
}

func (c offsetInt64) store(owner unsafe.Pointer, v int64) {
	atomic.StoreInt64(c.addr(owner), v)
}

func (c offsetInt64) storeRelease(owner unsafe.Pointer, v int64) {
	atomic.StoreInt64(c.addr(owner), v)
}

func (c offsetInt64) cas(owner unsafe.Pointer, old, new int64) bool {
	return atomic.CompareAndSwapInt64(c.addr(owner), old, new)
}
