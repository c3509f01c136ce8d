package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"atomiccell/cell"
	"atomiccell/constants"
	"atomiccell/ring"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "probe", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestProbe_Text(t *testing.T) {
	out, _, err := execute(t, "probe")
	require.NoError(t, err)

	want, perr := cell.Selection()
	require.NoError(t, perr)
	assert.Contains(t, out, "arch:")
	assert.Contains(t, out, "selected:")
	assert.Contains(t, out, want.Selected)
}

func TestProbe_JSON(t *testing.T) {
	out, _, err := execute(t, "probe", "--format", "json")
	require.NoError(t, err)

	var report cell.Report
	require.NoError(t, sonnet.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.Selected)
	require.NotEmpty(t, report.Attempts)
	last := report.Attempts[len(report.Attempts)-1]
	assert.True(t, last.Selected)
	assert.Equal(t, report.Selected, last.Name)
}

func TestProbe_DenyListIsReported(t *testing.T) {
	t.Setenv(constants.EnvDeny, constants.StrategyNative+","+constants.StrategyOffset)
	out, _, err := execute(t, "probe", "--format", "json")
	require.NoError(t, err)

	var report cell.Report
	require.NoError(t, sonnet.Unmarshal([]byte(out), &report))
	assert.Equal(t, constants.StrategyHandle, report.Selected)
	require.Len(t, report.Attempts, 3)
	assert.Contains(t, report.Attempts[0].Error, "denied")
}

func TestProbe_DenyAllFails(t *testing.T) {
	t.Setenv(constants.EnvDeny, "native,offset,handle")
	out, _, err := execute(t, "probe")
	require.Error(t, err)
	var initErr *cell.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Len(t, initErr.Attempts, 3)
	assert.Contains(t, out, "(none)")
}

func TestProbe_VerboseLogsToStderr(t *testing.T) {
	_, stderr, err := execute(t, "probe", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "atomic strategy selected")
}

func TestVerify_Text(t *testing.T) {
	out, _, err := execute(t, "verify", "--goroutines", "4", "--rounds", "50")
	require.NoError(t, err)
	for _, c := range cell.Candidates() {
		assert.Contains(t, out, c.Name)
	}
}

func TestVerify_JSON(t *testing.T) {
	out, _, err := execute(t, "verify", "--format", "json", "--goroutines", "2", "--rounds", "20")
	require.NoError(t, err)

	var results []VerifyResult
	require.NoError(t, sonnet.Unmarshal([]byte(out), &results))
	require.Len(t, results, len(cell.Candidates()))
	available := 0
	for _, r := range results {
		if r.Available {
			available++
			assert.True(t, r.Passed, "%s: %s", r.Strategy, r.Error)
		}
	}
	assert.Positive(t, available)
}

func TestVerify_RejectsBadFlags(t *testing.T) {
	_, _, err := execute(t, "verify", "--rounds", "0")
	require.Error(t, err)
}

func TestStreamRing_StopsProducerOnMismatch(t *testing.T) {
	s := cell.Lookup()
	r, err := ring.Bind[int](s, 4)
	require.NoError(t, err)

	errBad := errors.New("bad item")
	done := make(chan error, 1)
	go func() {
		// the producer has far more items than the ring holds, so it is
		// blocked on a full ring when the check gives up
		done <- streamRing(r, s, 1000, func(pos, v int) error {
			if pos == 3 {
				return errBad
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errBad)
	case <-time.After(5 * time.Second):
		t.Fatal("streamRing did not return; producer still running")
	}
}

func TestStreamRing_DeliversInOrder(t *testing.T) {
	s := cell.Lookup()
	r, err := ring.Bind[int](s, 8)
	require.NoError(t, err)

	var seen []int
	require.NoError(t, streamRing(r, s, 100, func(pos, v int) error {
		seen = append(seen, v)
		return nil
	}))
	require.Len(t, seen, 100)
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}
