//go:build arm64 && !noasm

// relax_arm64.go
//
// ARM64 spin-loop hint.  relax_arm64.s emits YIELD, which tells the core the
// thread is spinning so SMT siblings and power management can react.

package spin

// Hardware reports whether Relax executes a real spin-loop instruction.
const Hardware = true

// Instruction names the instruction Relax executes.
const Instruction = "YIELD"

// Relax executes the ARM64 YIELD instruction.
//
//go:noescape
func Relax()
