//go:build arm64 && !noasm

// release_arm64.go
//
// Stubs for release_arm64.s, which stores through STLRW / STLR: store-release
// without the trailing barrier a sequentially consistent store carries.

package cell

const releaseAsm = true

// nativeFeatures has nothing to check: STLR and YIELD are baseline ARMv8.
func nativeFeatures() error { return nil }

// storeRelease32 performs *addr = val with release ordering.
//
//go:noescape
func storeRelease32(addr *int32, val int32)

// storeRelease64 performs *addr = val with release ordering.
//
//go:noescape
func storeRelease64(addr *int64, val int64)
