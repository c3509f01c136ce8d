// pinned_consumer.go
//
// Low-latency SPSC consumer.
//
//   • Dedicated OS thread pinned to cfg.Core (best effort).
//   • Stays in **hot-spin** (tight loop, no relax) while
//       – new work has arrived within HotTimeout, OR
//       – the producer keeps flags hot.
//   • After the grace window *and* once flags cool it drops to the
//     **cold-spin** path: a CPU spin hint every iteration, and a scheduler
//     yield after SpinBudget misses.
//   • Exits only once flags are stopped and closes `done` exactly once.
//
// hot flag contract:
//     Producer                   Consumer
//     --------                   ------------------------------
//     SignalActivity()  ──────▶  Hot() (wake / stay hot-spin)
//     ...push items…
//                                PollCooldown() clears hot when idle

package ring

import (
	"runtime"
	"time"

	"atomiccell/cell"
	"atomiccell/constants"
	"atomiccell/control"
	"atomiccell/debug"
	"atomiccell/spin"
)

// ConsumerConfig tunes PinnedConsumer.  Zero values take the package
// defaults.
type ConsumerConfig struct {
	// Core is the logical CPU to pin to; negative disables pinning.
	Core int
	// HotTimeout is the hot-spin grace after the last delivered item.
	HotTimeout time.Duration
	// SpinBudget is the number of cold polls between scheduler yields.
	SpinBudget int
}

func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.HotTimeout <= 0 {
		c.HotTimeout = constants.HotTimeout
	}
	if c.SpinBudget <= 0 {
		c.SpinBudget = constants.SpinBudget
	}
	return c
}

// PinnedConsumer drains r on its own goroutine until flags are stopped.
func PinnedConsumer[T any](
	cfg ConsumerConfig,
	r *Ring[T],
	flags *control.Flags,
	fn func(*T),
	done chan<- struct{},
) {
	cfg = cfg.withDefaults()
	go func() {
		// ── thread & affinity ─────────────────────────────
		runtime.LockOSThread()
		if err := setAffinity(cfg.Core); err != nil {
			debug.DropError("ring.affinity", err)
		}
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now() // last time Pop delivered
		miss := 0

		// ── main loop ─────────────────────────────────────
		for {
			if p := r.Pop(); p != nil {
				fn(p)
				last, miss = time.Now(), 0
				continue
			}

			if flags.Stopped() {
				return
			}

			if flags.Hot() || time.Since(last) <= cfg.HotTimeout {
				flags.PollCooldown()
				continue
			}

			// cold-spin path: power-friendlier
			if miss++; miss >= cfg.SpinBudget {
				miss = 0
				spin.Yield()
				continue
			}
			cell.OnSpinWait()
		}
	}()
}
