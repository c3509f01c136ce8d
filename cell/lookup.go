package cell

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/joeycumines/logiface"

	"atomiccell/constants"
	"atomiccell/debug"
	"atomiccell/spin"
)

// Report describes how the process strategy was chosen.
type Report struct {
	Selected        string    `json:"selected,omitempty"`
	Arch            string    `json:"arch"`
	SpinInstruction string    `json:"spin_instruction,omitempty"`
	Attempts        []Attempt `json:"attempts"`
}

// Option configures Select.
type Option func(*selectConfig)

type selectConfig struct {
	config constants.Config
	logger *logiface.Logger[logiface.Event]
}

// WithConfig supplies the configuration (deny list) for Select.
func WithConfig(c constants.Config) Option {
	return func(s *selectConfig) { s.config = c }
}

// WithLogger supplies the logger Select reports attempts to.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(s *selectConfig) { s.logger = l }
}

// Select constructs candidates in order and returns the first that succeeds.
// Every failure, including candidates denied by configuration, is recorded in
// the report. If none succeed the error is an *InitError carrying all causes.
// Select has no global side effects; Lookup is the process-wide entry point.
func Select(candidates []Candidate, opts ...Option) (Strategy, *Report, error) {
	var cfg selectConfig
	for _, o := range opts {
		o(&cfg)
	}
	log := cfg.logger

	report := &Report{
		Arch:            runtime.GOARCH,
		SpinInstruction: spin.Instruction,
		Attempts:        make([]Attempt, 0, len(candidates)),
	}

	for _, c := range candidates {
		var (
			s   Strategy
			err error
		)
		if cfg.config.Denied(c.Name) {
			err = fmt.Errorf("%w (%s)", ErrDenied, constants.EnvDeny)
		} else {
			s, err = c.New()
			if err == nil && s == nil {
				err = fmt.Errorf("%w: %s constructor returned nil", ErrUnsupported, c.Name)
			}
		}

		if err != nil {
			report.Attempts = append(report.Attempts, Attempt{Name: c.Name, Error: err.Error(), Err: err})
			log.Debug().Str("strategy", c.Name).Err(err).Log("atomic strategy rejected")
			continue
		}

		report.Attempts = append(report.Attempts, Attempt{Name: c.Name, Selected: true})
		report.Selected = s.Name()
		log.Info().
			Str("strategy", s.Name()).
			Str("arch", report.Arch).
			Int("rejected", len(report.Attempts)-1).
			Log("atomic strategy selected")
		return s, report, nil
	}

	err := &InitError{Attempts: report.Attempts}
	log.Crit().Err(err).Log("no atomic strategy available")
	return nil, report, err
}

type processState struct {
	strategy Strategy
	report   *Report
	err      error
}

// process runs selection exactly once; concurrent first callers wait for the
// single winner.
var process = sync.OnceValue(func() processState {
	s, r, err := Select(Candidates(),
		WithConfig(constants.Load()),
		WithLogger(debug.Logger()),
	)
	return processState{strategy: s, report: r, err: err}
})

// Lookup returns the process-wide strategy, selecting it on first use. It
// panics with an *InitError if the platform offers no usable mechanism.
func Lookup() Strategy {
	st := process()
	if st.err != nil {
		panic(st.err)
	}
	return st.strategy
}

// Selection returns the process selection report and error without
// panicking, for diagnostics.
func Selection() (*Report, error) {
	st := process()
	return st.report, st.err
}

// OnSpinWait hints that the caller is busy-waiting. It delegates to the
// process strategy.
func OnSpinWait() {
	Lookup().SpinHint()
}
