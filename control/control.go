// control.go - Activity and shutdown flags for spinning consumers
// ============================================================================
// CONSUMER COORDINATION
// ============================================================================
//
// A Flags value is the small piece of shared state a producer and its
// spinning consumers coordinate through:
//   • hot  : producer activity; consumers stay in the tight loop while set
//   • stop : shutdown request; consumers exit when they observe it
//   • lastHot: nanosecond timestamp of the last SignalActivity
//
// Every field is a cell bound once at package init, so the flags go through
// whichever atomic strategy the process selected. Shutdown publishes with a
// release store; the consumers' loads observe it on their next poll.
//
// Threading model:
//   • Producers call SignalActivity() from any goroutine
//   • Consumers poll Stopped()/Hot() and call PollCooldown() while idle
//   • Shutdown() may be called from anywhere, any number of times

package control

import (
	"sync/atomic"
	"time"

	"atomiccell/cell"
	"atomiccell/constants"
)

// Flags holds one producer/consumer group's coordination state. The int64
// cells come first, behind the aligner, to keep them 8-byte aligned on 32-bit
// platforms.
type Flags struct {
	_        [0]atomic.Int64
	lastHot  int64
	cooldown int64
	hot      uint32
	stop     uint32
}

var (
	flagLastHot = cell.MustInt64[Flags]("lastHot")
	flagHot     = cell.MustBool[Flags]("hot")
	flagStop    = cell.MustBool[Flags]("stop")
)

// New returns idle, running Flags that cool down after cooldown without
// activity.
func New(cooldown time.Duration) *Flags {
	return &Flags{cooldown: int64(cooldown)}
}

// now is the flags' clock, in Unix nanoseconds.
var now = func() int64 { return time.Now().UnixNano() }

// SignalActivity marks the group hot and records the time.
func (f *Flags) SignalActivity() {
	flagLastHot.Set(f, now())
	flagHot.Set(f, true)
}

// PollCooldown clears the hot flag once the cooldown has elapsed since the
// last activity. A SignalActivity that lands between the timestamp read and
// the clear wins: the timestamp is re-read after the CAS and hot restored if
// it moved.
func (f *Flags) PollCooldown() {
	if !flagHot.Get(f) {
		return
	}
	last := flagLastHot.Get(f)
	if now()-last <= f.cooldown {
		return
	}
	if flagHot.CAS(f, true, false) && flagLastHot.Get(f) != last {
		flagHot.Set(f, true)
	}
}

// Hot reports whether the producer is active.
func (f *Flags) Hot() bool { return flagHot.Get(f) }

// Shutdown requests every consumer on f to stop.
func (f *Flags) Shutdown() { flagStop.SetOrdered(f, true) }

// Stopped reports whether Shutdown was called.
func (f *Flags) Stopped() bool { return flagStop.Get(f) }

// ============================================================================
// PROCESS-WIDE FLAGS
// ============================================================================

var global = New(constants.Cooldown)

// Default returns the process-wide Flags.
func Default() *Flags { return global }

// SignalActivity marks the process-wide flags hot.
func SignalActivity() { global.SignalActivity() }

// PollCooldown cools the process-wide flags.
func PollCooldown() { global.PollCooldown() }

// Shutdown stops every consumer polling the process-wide flags.
func Shutdown() { global.Shutdown() }
