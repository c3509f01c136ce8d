//go:build amd64 && !noasm

// release_amd64.go
//
// Function stubs whose bodies live in release_amd64.s.  They wrap a plain
// MOV to provide release semantics without the cost of the locked XCHG that
// a sequentially consistent store needs on x86-64.

package cell

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

const releaseAsm = true

// nativeFeatures checks the CPU features native relies on. PAUSE is part of
// SSE2.
func nativeFeatures() error {
	if !cpu.X86.HasSSE2 {
		return fmt.Errorf("%w: amd64 without SSE2", ErrUnsupported)
	}
	return nil
}

// storeRelease32 performs *addr = val with release ordering.
//
//go:noescape
func storeRelease32(addr *int32, val int32)

// storeRelease64 performs *addr = val with release ordering.
//
//go:noescape
func storeRelease64(addr *int64, val int64)
