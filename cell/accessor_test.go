package cell

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_Scenarios(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		ref, err := BindReference[holder, string](s, "value")
		require.NoError(t, err)
		assert.Equal(t, s.Name(), ref.Strategy())
		assert.Equal(t, KindReference, ref.Descriptor().Kind)

		var h holder

		// A: unset cell reads the zero value
		assert.Nil(t, ref.Get(&h))

		// B: set then cas from the same reference
		x, y := strp("x"), strp("y")
		ref.Set(&h, x)
		require.Same(t, x, ref.Get(&h))
		assert.True(t, ref.CAS(&h, x, y))
		assert.Equal(t, "y", *ref.Get(&h))

		// C: cas with a stale expectation leaves the value alone
		assert.False(t, ref.CAS(&h, strp("z"), strp("w")))
		assert.Same(t, y, ref.Get(&h))

		// identity, not equality: an equal string at another address loses
		assert.False(t, ref.CAS(&h, strp("y"), x))
		assert.Same(t, y, ref.Get(&h))

		// D: two goroutines race from y
		a, b := strp("a"), strp("b")
		var wins atomic.Int32
		var wg sync.WaitGroup
		for _, v := range []*string{a, b} {
			wg.Add(1)
			go func(v *string) {
				defer wg.Done()
				if ref.CAS(&h, y, v) {
					wins.Add(1)
				}
			}(v)
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())
		got := ref.Get(&h)
		assert.True(t, got == a || got == b)

		ref.SetOrdered(&h, nil)
		assert.Nil(t, ref.Get(&h))
	})
}

func TestInt32_Operations(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindInt32[holder](s, "count")
		require.NoError(t, err)

		var h holder
		assert.Equal(t, int32(0), c.Get(&h))
		c.Set(&h, 7)
		assert.Equal(t, int32(7), c.Get(&h))
		assert.Equal(t, int32(7), h.count)
		assert.False(t, c.CAS(&h, 6, 9))
		assert.Equal(t, int32(7), c.Get(&h))
		assert.True(t, c.CAS(&h, 7, -1))
		assert.Equal(t, int32(-1), c.Get(&h))
		c.SetOrdered(&h, 42)
		assert.Equal(t, int32(42), c.Get(&h))
	})
}

func TestInt64_Operations(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindInt64[holder](s, "total")
		require.NoError(t, err)

		var h holder
		const big = int64(1) << 40
		c.Set(&h, big)
		assert.Equal(t, big, c.Get(&h))
		assert.False(t, c.CAS(&h, big+1, 0))
		assert.True(t, c.CAS(&h, big, big+1))
		assert.Equal(t, big+1, h.total)
		c.SetOrdered(&h, -big)
		assert.Equal(t, -big, c.Get(&h))
	})
}

func TestBool_Operations(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindBool[holder](s, "ready")
		require.NoError(t, err)

		var h holder
		assert.False(t, c.Get(&h))
		assert.False(t, c.CAS(&h, true, false))
		assert.True(t, c.CAS(&h, false, true))
		assert.True(t, c.Get(&h))
		assert.Equal(t, uint32(1), h.ready)
		c.SetOrdered(&h, false)
		assert.False(t, c.Get(&h))
		c.Set(&h, true)
		assert.True(t, c.Get(&h))
	})
}

func TestAccessor_NestedAndPromoted(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		hits, err := BindInt64[holder](s, "stats.hits")
		require.NoError(t, err)
		version, err := BindInt32[holder](s, "version")
		require.NoError(t, err)

		var h holder
		hits.Set(&h, 3)
		version.Set(&h, 9)
		assert.Equal(t, int64(3), h.stats.hits)
		assert.Equal(t, int32(9), h.meta.version)
	})
}

// TestAccessor_OwnersAreIndependent checks one accessor serving many owners.
func TestAccessor_OwnersAreIndependent(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindInt32[holder](s, "count")
		require.NoError(t, err)

		owners := make([]holder, 16)
		for i := range owners {
			c.Set(&owners[i], int32(i))
		}
		for i := range owners {
			assert.Equal(t, int32(i), c.Get(&owners[i]))
		}
	})
}

func TestAccessor_BindErrors(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		_, err := BindInt32[holder](s, "missing")
		var be *BindError
		require.ErrorAs(t, err, &be)
		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Equal(t, s.Name(), be.Strategy)
		assert.Contains(t, be.Error(), "cell.holder.missing")

		_, err = BindReference[holder, int](s, "value")
		assert.ErrorIs(t, err, ErrKindMismatch)

		_, err = BindBool[holder](s, "count")
		assert.ErrorIs(t, err, ErrKindMismatch)

		_, err = BindInt64[holder](s, "link.hits")
		assert.ErrorIs(t, err, ErrIndirectPath)
	})

	_, err := BindInt32[holder](nil, "count")
	assert.ErrorIs(t, err, ErrUnsupported)
}

// TestCAS_RaceHasOneWinner races N goroutines from the same initial value.
func TestCAS_RaceHasOneWinner(t *testing.T) {
	const goroutines = 16
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindInt64[holder](s, "total")
		require.NoError(t, err)

		for round := 0; round < 50; round++ {
			var h holder
			start := make(chan struct{})
			winners := make(chan int64, goroutines)
			var wg sync.WaitGroup
			for i := 1; i <= goroutines; i++ {
				wg.Add(1)
				go func(v int64) {
					defer wg.Done()
					<-start
					if c.CAS(&h, 0, v) {
						winners <- v
					} else if c.Get(&h) == 0 {
						t.Error("loser observed the initial value")
					}
				}(int64(i))
			}
			close(start)
			wg.Wait()
			close(winners)

			require.Len(t, winners, 1)
			assert.Equal(t, <-winners, c.Get(&h))
		}
	})
}

// TestCAS_CounterIsLinearizable builds an increment loop from CAS and
// OnSpinWait-style hints and checks no update is lost.
func TestCAS_CounterIsLinearizable(t *testing.T) {
	const (
		goroutines = 8
		perG       = 2000
	)
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		c, err := BindInt32[holder](s, "count")
		require.NoError(t, err)

		var h holder
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perG; i++ {
					for {
						v := c.Get(&h)
						if c.CAS(&h, v, v+1) {
							break
						}
						s.SpinHint()
					}
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(goroutines*perG), c.Get(&h))
	})
}

// TestSetOrdered_PublishesPriorWrites publishes a payload through a release
// store of a flag and checks the reader sees the payload once it sees the
// flag.
func TestSetOrdered_PublishesPriorWrites(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, s Strategy) {
		ready, err := BindBool[holder](s, "ready")
		require.NoError(t, err)
		total, err := BindInt64[holder](s, "total")
		require.NoError(t, err)
		value, err := BindReference[holder, string](s, "value")
		require.NoError(t, err)

		for round := 0; round < 100; round++ {
			var h holder
			want := strp("payload")
			done := make(chan struct{})
			go func() {
				defer close(done)
				deadline := time.Now().Add(5 * time.Second)
				for !ready.Get(&h) {
					if time.Now().After(deadline) {
						t.Error("release store never observed")
						return
					}
					s.SpinHint()
				}
				if total.Get(&h) != int64(round) || value.Get(&h) != want {
					t.Error("writes before the release store were not visible")
				}
			}()
			total.SetOrdered(&h, int64(round))
			value.SetOrdered(&h, want)
			ready.SetOrdered(&h, true)
			<-done
		}
	})
}

func TestStrategies_AreBehaviourallyEquivalent(t *testing.T) {
	type trace struct {
		gets []int32
		cas  []bool
	}
	run := func(s Strategy) trace {
		c, err := BindInt32[holder](s, "count")
		require.NoError(t, err)
		var h holder
		var tr trace
		ops := []struct{ old, new int32 }{{0, 1}, {0, 2}, {1, 3}, {3, 3}, {2, 4}, {3, -3}}
		for _, op := range ops {
			tr.cas = append(tr.cas, c.CAS(&h, op.old, op.new))
			tr.gets = append(tr.gets, c.Get(&h))
		}
		return tr
	}

	var (
		first trace
		name  string
	)
	for _, cand := range Candidates() {
		s, err := cand.New()
		if err != nil {
			continue
		}
		tr := run(s)
		if name == "" {
			first, name = tr, s.Name()
			continue
		}
		assert.Equal(t, first, tr, "%s diverges from %s", s.Name(), name)
	}
	require.NotEmpty(t, name, "no strategy constructs on this host")
}
