package cell

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"

	"atomiccell/constants"
	"atomiccell/spin"
)

// nativeStrategy is offsetStrategy with the release store done by a single
// architecture instruction (a plain MOV under x86-64 TSO, STLR on arm64)
// instead of a full-fence store, and the hardware spin instruction as its
// hint. Pointer cells keep sync/atomic stores for the GC write barrier.
type nativeStrategy struct{ offsetStrategy }

func newNative() (Strategy, error) {
	switch {
	case !releaseAsm:
		return nil, fmt.Errorf("%w: no release-store assembly for %s", ErrUnsupported, runtime.GOARCH)
	case raceEnabled:
		return nil, fmt.Errorf("%w: release-store assembly is invisible to the race detector", ErrUnsupported)
	case !cpu.Initialized:
		return nil, fmt.Errorf("%w: cpu feature detection unavailable on %s", ErrUnsupported, runtime.GOARCH)
	}
	if err := nativeFeatures(); err != nil {
		return nil, err
	}
	s := nativeStrategy{}
	if err := selfTest(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (nativeStrategy) Name() string { return constants.StrategyNative }

func (nativeStrategy) SpinHint() { spin.Relax() }

func (nativeStrategy) bindInt32(f location) (int32Ops, error) {
	return nativeInt32{offsetInt32{f.offset}}, nil
}

func (nativeStrategy) bindInt64(f location) (int64Ops, error) {
	return nativeInt64{offsetInt64{f.offset}}, nil
}

type nativeInt32 struct{ offsetInt32 }

func (c nativeInt32) storeRelease(owner unsafe.Pointer, v int32) {
	storeRelease32(c.addr(owner), v)
}

type nativeInt64 struct{ offsetInt64 }

func (c nativeInt64) storeRelease(owner unsafe.Pointer, v int64) {
	storeRelease64(c.addr(owner), v)
}
