// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go - Cold-path structured logging
//
// Purpose:
//   - Logs infrequent events: strategy selection, rejected candidates,
//     consumer start/stop, affinity failures.
//   - One process-wide logiface logger, JSON encoded by stumpy.
//
// Notes:
//   - DropError / DropMessage remain the cheap entry points for call sites
//     that only have a tag and a message.
//   - Never invoke in hot loops.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"atomiccell/constants"
)

var current atomic.Pointer[logiface.Logger[logiface.Event]]

// New builds a stumpy-backed logger writing JSON lines to w.
func New(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// Logger returns the process logger, creating the default one (stderr, level
// from the environment) on first use.
func Logger() *logiface.Logger[logiface.Event] {
	if l := current.Load(); l != nil {
		return l
	}
	l := New(os.Stderr, ParseLevel(constants.Load().LogLevel))
	if current.CompareAndSwap(nil, l) {
		return l
	}
	return current.Load()
}

// SetLogger replaces the process logger. A nil logger disables output.
func SetLogger(l *logiface.Logger[logiface.Event]) {
	if l == nil {
		l = New(io.Discard, logiface.LevelDisabled)
	}
	current.Store(l)
}

// ParseLevel maps a level name to a logiface level. Unknown names yield
// LevelWarning.
func ParseLevel(name string) logiface.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disabled", "off", "none":
		return logiface.LevelDisabled
	case "emerg", "emergency":
		return logiface.LevelEmergency
	case "alert":
		return logiface.LevelAlert
	case "crit", "critical":
		return logiface.LevelCritical
	case "err", "error":
		return logiface.LevelError
	case "notice":
		return logiface.LevelNotice
	case "info", "informational":
		return logiface.LevelInformational
	case "debug":
		return logiface.LevelDebug
	case "trace":
		return logiface.LevelTrace
	default:
		return logiface.LevelWarning
	}
}

// DropError logs err at error level, tagged with prefix. A nil err logs the
// bare prefix at warning level.
func DropError(prefix string, err error) {
	if err != nil {
		Logger().Err().Str("tag", prefix).Err(err).Log(prefix)
		return
	}
	Logger().Warning().Str("tag", prefix).Log(prefix)
}

// DropMessage logs an informational message tagged with prefix.
func DropMessage(prefix, message string) {
	Logger().Info().Str("tag", prefix).Log(message)
}
