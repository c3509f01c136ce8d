//go:build linux

// setaffinity_linux.go
//
// Linux binding for `sched_setaffinity(2)` that pins **this** OS thread to a
// single logical CPU.  Negative indices skip pinning; the caller logs any
// error (EPERM/EINVAL in containers) and runs unpinned.

package ring

import "golang.org/x/sys/unix"

// setAffinity pins the *current thread* to `cpu` (0-based).
func setAffinity(cpu int) error {
	if cpu < 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set) // pid 0 → current thread
}
