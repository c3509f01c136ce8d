//go:build !(amd64 || arm64) || noasm

// relax_stub.go
//
// Portable fall-back for other architectures or when assembly stubs are
// disabled.  Declares Relax as an empty function so spin loops compile
// unchanged on every target.

package spin

// Hardware reports whether Relax executes a real spin-loop instruction.
const Hardware = false

// Instruction names the instruction Relax executes.
const Instruction = ""

// Relax is a no-op on unsupported targets.
//
//go:nosplit
func Relax() {}
