package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"atomiccell/cell"
	"atomiccell/constants"
	"atomiccell/ring"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	Goroutines int
	Rounds     int
}

// VerifyResult is the outcome of stress-verifying one strategy.
type VerifyResult struct {
	Strategy  string `json:"strategy"`
	Available bool   `json:"available"`
	Passed    bool   `json:"passed"`
	Error     string `json:"error,omitempty"`
	Elapsed   string `json:"elapsed,omitempty"`
}

// errVerifyFailed is returned when any available strategy misbehaves.
var errVerifyFailed = errors.New("verify: strategy failed")

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Stress every available strategy under contention",
		Long: `Construct every strategy candidate and, for each one that is available
here, run concurrent CAS counters, a single-winner claim race and an SPSC
ring transfer through it. Unavailable candidates are reported, not failed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Goroutines, "goroutines", constants.VerifyGoroutines, "concurrent writers per check")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", constants.VerifyRounds, "operations per writer")

	return cmd
}

func runVerify(rootOpts *RootOptions, opts *VerifyOptions, cmd *cobra.Command) error {
	if opts.Goroutines < 1 || opts.Rounds < 1 {
		return fmt.Errorf("verify: --goroutines and --rounds must be positive")
	}
	log := rootOpts.logger(cmd)

	var results []VerifyResult
	failed := 0
	for _, c := range cell.Candidates() {
		res := VerifyResult{Strategy: c.Name}
		s, err := c.New()
		if err != nil {
			res.Error = err.Error()
			log.Debug().Str("strategy", c.Name).Err(err).Log("strategy unavailable")
			results = append(results, res)
			continue
		}
		res.Available = true

		start := time.Now()
		err = verifyStrategy(s, opts.Goroutines, opts.Rounds)
		res.Elapsed = time.Since(start).String()
		if err != nil {
			res.Error = err.Error()
			failed++
			log.Err().Str("strategy", c.Name).Err(err).Log("strategy failed verification")
		} else {
			res.Passed = true
			log.Info().Str("strategy", c.Name).Str("elapsed", res.Elapsed).Log("strategy verified")
		}
		results = append(results, res)
	}

	if err := writeResults(cmd.OutOrStdout(), rootOpts.Format, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errVerifyFailed, failed, len(results))
	}
	return nil
}

// tally is the shared owner the contention checks hammer.
type tally struct {
	_       [0]atomic.Int64
	hits    int64
	claimed uint32
	winner  *int
}

// verifyStrategy runs the contention checks through s.
func verifyStrategy(s cell.Strategy, goroutines, rounds int) error {
	hits, err := cell.BindInt64[tally](s, "hits")
	if err != nil {
		return err
	}
	claimed, err := cell.BindBool[tally](s, "claimed")
	if err != nil {
		return err
	}
	winner, err := cell.BindReference[tally, int](s, "winner")
	if err != nil {
		return err
	}

	var (
		t      tally
		wg     sync.WaitGroup
		claims = make([]int, goroutines)
		ids    = make([]int, goroutines)
	)
	for g := 0; g < goroutines; g++ {
		ids[g] = g
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				for {
					v := hits.Get(&t)
					if hits.CAS(&t, v, v+1) {
						break
					}
					s.SpinHint()
				}
			}
			if claimed.CAS(&t, false, true) {
				claims[g]++
			}
			winner.CAS(&t, nil, &ids[g])
		}(g)
	}
	wg.Wait()

	if want := int64(goroutines) * int64(rounds); hits.Get(&t) != want {
		return fmt.Errorf("counter lost updates: got %d, want %d", hits.Get(&t), want)
	}
	total := 0
	for _, n := range claims {
		total += n
	}
	if total != 1 || !claimed.Get(&t) {
		return fmt.Errorf("claim race produced %d winners, want 1", total)
	}
	if winner.Get(&t) == nil {
		return errors.New("reference CAS never published a winner")
	}
	return verifyRing(s, goroutines*rounds)
}

// verifyRing streams n items through a ring bound on s and checks order.
func verifyRing(s cell.Strategy, n int) error {
	r, err := ring.Bind[int](s, 64)
	if err != nil {
		return err
	}
	return streamRing(r, s, n, func(pos, v int) error {
		if v != pos {
			return fmt.Errorf("ring delivered %d at position %d", v, pos)
		}
		return nil
	})
}

// streamRing pushes 0..n-1 through r from a producer goroutine and hands each
// popped value to check. It returns on the first check error, and never
// before the producer has exited.
func streamRing(r *ring.Ring[int], s cell.Strategy, n int, check func(pos, v int) error) error {
	var (
		items = make([]int, n)
		stop  = make(chan struct{})
		wg    sync.WaitGroup
	)
	defer wg.Wait()
	defer close(stop)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range items {
			items[i] = i
			for !r.Push(&items[i]) {
				select {
				case <-stop:
					return
				default:
				}
				s.SpinHint()
			}
		}
	}()
	for i := 0; i < n; i++ {
		if err := check(i, *r.PopWait()); err != nil {
			return err
		}
	}
	return nil
}

func writeResults(w io.Writer, format string, results []VerifyResult) error {
	if format == "json" {
		b, err := sonnet.Marshal(results)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		status := "ok"
		switch {
		case !r.Available:
			status = "unavailable: " + r.Error
		case !r.Passed:
			status = "FAILED: " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Strategy, status, r.Elapsed)
	}
	return tw.Flush()
}
