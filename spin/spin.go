// spin.go
//
// Spin-wait hints for busy-wait loops.  Relax emits the CPU's spin-loop
// instruction where the build has one (PAUSE on amd64, YIELD on arm64) and
// is an empty function elsewhere.  Yield hands the P back to the Go
// scheduler, which is the only portable hint Go offers.

// Package spin provides the platform hints used inside busy-wait loops.
package spin

import "runtime"

// Yield lets other runnable goroutines use the current P.
func Yield() {
	runtime.Gosched()
}
