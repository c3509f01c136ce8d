// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go - Strategy names, probe tunables & env config
//
// Purpose:
//   - Names the atomic-access strategies in preference order.
//   - Holds the tunables used by the selection self-test and by ring consumers.
//   - Loads the small amount of environment configuration the library honours.
//
// Notes:
//   - Everything except Load is compile-time resolvable.
//   - Load is called once, by the strategy selection; it never fails, unknown
//     values fall back to defaults.
// ─────────────────────────────────────────────────────────────────────────────

package constants

import (
	"os"
	"strings"
	"time"
)

// ───────────────────────────── Strategy names ──────────────────────────────

const (
	// StrategyNative is direct offset access plus architecture release-store
	// assembly and the hardware spin instruction.
	StrategyNative = "native"

	// StrategyOffset is direct offset access through sync/atomic only.
	StrategyOffset = "offset"

	// StrategyHandle materialises the field through a reflect handle on every
	// operation. Always available.
	StrategyHandle = "handle"
)

// ─────────────────────────────── Self-test ─────────────────────────────────

const (
	// ProbeRounds is how many set/get/cas rounds a strategy self-test runs
	// before the strategy is accepted.
	ProbeRounds = 64

	// VerifyGoroutines is the default CAS race width used by cellprobe verify.
	VerifyGoroutines = 8

	// VerifyRounds is the default number of races cellprobe verify runs.
	VerifyRounds = 256
)

// ─────────────────────────── Consumer tunables ─────────────────────────────

const (
	// SpinBudget is the number of empty polls before a cold consumer backs off.
	SpinBudget = 256

	// HotTimeout is the grace window a consumer keeps hot-spinning after the
	// last delivered item.
	HotTimeout = 15 * time.Second

	// Cooldown is how long control.Flags stays hot after SignalActivity.
	Cooldown = 1 * time.Second
)

// ─────────────────────────── Environment config ────────────────────────────

const (
	// EnvDeny lists strategy names (comma separated) to skip during selection.
	EnvDeny = "ATOMICCELL_DENY"

	// EnvLogLevel is the logiface level name for the default logger.
	EnvLogLevel = "ATOMICCELL_LOG_LEVEL"

	// DefaultLogLevel is used when EnvLogLevel is unset.
	DefaultLogLevel = "warning"
)

// Config is the environment-derived configuration.
type Config struct {
	Deny     map[string]bool
	LogLevel string
}

// Denied reports whether the named strategy was disabled.
func (c Config) Denied(name string) bool {
	return c.Deny[name]
}

// Load reads Config from the process environment.
func Load() Config {
	return Parse(os.Getenv(EnvDeny), os.Getenv(EnvLogLevel))
}

// Parse builds a Config from raw environment values.
func Parse(deny, level string) Config {
	c := Config{
		Deny:     make(map[string]bool),
		LogLevel: DefaultLogLevel,
	}
	for _, name := range strings.Split(deny, ",") {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			c.Deny[name] = true
		}
	}
	if level = strings.ToLower(strings.TrimSpace(level)); level != "" {
		c.LogLevel = level
	}
	return c
}
