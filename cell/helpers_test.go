package cell

import (
	"sync/atomic"
	"testing"
)

// forEachStrategy runs fn once per candidate that constructs on this host.
// Candidates whose preconditions fail are skipped with the reason.
func forEachStrategy(t *testing.T, fn func(t *testing.T, s Strategy)) {
	t.Helper()
	for _, c := range Candidates() {
		t.Run(c.Name, func(t *testing.T) {
			s, err := c.New()
			if err != nil {
				t.Skipf("%s unavailable: %v", c.Name, err)
			}
			fn(t, s)
		})
	}
}

type (
	stats struct {
		_      [0]atomic.Int64
		hits   int64
		misses int32
	}

	// holder mirrors a typical long-lived owner: unexported cells, a nested
	// struct and an embedded one.
	holder struct {
		_     [0]atomic.Int64
		total int64
		stats stats
		meta
		name  string
		value *string
		count int32
		ready uint32
		link  *stats
	}

	meta struct {
		version int32
	}

	ptrEmbed struct {
		*meta
	}
)

func strp(s string) *string { return &s }
