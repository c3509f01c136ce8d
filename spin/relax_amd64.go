//go:build amd64 && !noasm

// relax_amd64.go
//
// Go declaration for Relax on amd64.  The implementation lives in
// relax_amd64.s and emits a single PAUSE instruction so busy-wait loops
// back-off politely while remaining in userspace.

package spin

// Hardware reports whether Relax executes a real spin-loop instruction.
const Hardware = true

// Instruction names the instruction Relax executes.
const Instruction = "PAUSE"

// Relax executes the x86_64 PAUSE instruction.
//
//go:noescape
func Relax()
