//go:build !(amd64 || arm64) || noasm

// release_fallback.go
//
// Portable build: there is no release-store assembly, so the native
// strategy refuses to construct and selection falls through to offset.

package cell

import "sync/atomic"

const releaseAsm = false

func nativeFeatures() error { return nil }

func storeRelease32(addr *int32, val int32) { atomic.StoreInt32(addr, val) }

func storeRelease64(addr *int64, val int64) { atomic.StoreInt64(addr, val) }
