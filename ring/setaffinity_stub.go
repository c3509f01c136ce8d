//go:build !linux

// setaffinity_stub.go
//
// Thread pinning is Linux-only; elsewhere consumers run wherever the
// scheduler puts them.

package ring

func setAffinity(int) error { return nil }
