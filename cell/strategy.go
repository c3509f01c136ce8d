package cell

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"atomiccell/constants"
)

// Strategy is one mechanism for atomic field access. The set of strategies
// is closed: the bind methods are unexported, and every variant satisfies the
// same contract so only performance differs between them.
type Strategy interface {
	// Name identifies the strategy ("native", "offset", "handle").
	Name() string
	// SpinHint is a best-effort hint for busy-wait loops. It never fails.
	SpinHint()

	bindPointer(f location) (pointerOps, error)
	bindInt32(f location) (int32Ops, error)
	bindInt64(f location) (int64Ops, error)
}

// pointerOps, int32Ops and int64Ops are the resolved per-kind operations.
// owner is the address of the owning struct.
type pointerOps interface {
	load(owner unsafe.Pointer) unsafe.Pointer
	store(owner, v unsafe.Pointer)
	storeRelease(owner, v unsafe.Pointer)
	cas(owner, old, new unsafe.Pointer) bool
}

type int32Ops interface {
	load(owner unsafe.Pointer) int32
	store(owner unsafe.Pointer, v int32)
	storeRelease(owner unsafe.Pointer, v int32)
	cas(owner unsafe.Pointer, old, new int32) bool
}

type int64Ops interface {
	load(owner unsafe.Pointer) int64
	store(owner unsafe.Pointer, v int64)
	storeRelease(owner unsafe.Pointer, v int64)
	cas(owner unsafe.Pointer, old, new int64) bool
}

// Candidate is a named, fallible strategy constructor.
type Candidate struct {
	Name string
	New  func() (Strategy, error)
}

// Candidates returns the strategy constructors in preference order, fastest
// and most direct first, most portable last.
func Candidates() []Candidate {
	return []Candidate{
		{Name: constants.StrategyNative, New: newNative},
		{Name: constants.StrategyOffset, New: newOffset},
		{Name: constants.StrategyHandle, New: newHandle},
	}
}

// probe is the struct a strategy binds during its self-test.
type probe struct {
	_    [0]atomic.Int64
	_    int32
	i32  int32
	i64  int64
	flag uint32
	ref  *probe
}

// selfTest binds every kind of cell on probe through s and checks a few
// rounds of set/get/cas. A mechanism that faults is reported, not crashed on.
func selfTest(s Strategy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s self-test panicked: %v", ErrUnsupported, s.Name(), r)
		}
	}()

	i32, err := BindInt32[probe](s, "i32")
	if err != nil {
		return err
	}
	i64, err := BindInt64[probe](s, "i64")
	if err != nil {
		return err
	}
	flag, err := BindBool[probe](s, "flag")
	if err != nil {
		return err
	}
	ref, err := BindReference[probe, probe](s, "ref")
	if err != nil {
		return err
	}

	fail := func(what string) error {
		return fmt.Errorf("%w: %s self-test: %s", ErrUnsupported, s.Name(), what)
	}

	var p, other probe
	for n := int32(1); n <= constants.ProbeRounds; n++ {
		i32.Set(&p, n)
		if i32.Get(&p) != n || !i32.CAS(&p, n, -n) || i32.CAS(&p, n, n) || i32.Get(&p) != -n {
			return fail("int32")
		}
		i32.SetOrdered(&p, n)
		if i32.Get(&p) != n {
			return fail("int32 ordered store")
		}

		w := int64(n) << 33
		i64.Set(&p, w)
		if i64.Get(&p) != w || !i64.CAS(&p, w, w+1) || i64.CAS(&p, w, w) || i64.Get(&p) != w+1 {
			return fail("int64")
		}
		i64.SetOrdered(&p, -w)
		if i64.Get(&p) != -w {
			return fail("int64 ordered store")
		}

		b := n%2 == 0
		flag.Set(&p, b)
		if flag.Get(&p) != b || !flag.CAS(&p, b, !b) || flag.Get(&p) == b {
			return fail("bool")
		}

		ref.Set(&p, &other)
		if ref.Get(&p) != &other || !ref.CAS(&p, &other, &p) || ref.CAS(&p, &other, nil) || ref.Get(&p) != &p {
			return fail("reference")
		}
		ref.SetOrdered(&p, nil)
		if ref.Get(&p) != nil {
			return fail("reference ordered store")
		}
	}
	return nil
}
