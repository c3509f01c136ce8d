// ════════════════════════════════════════════════════════════════════════════════════════════════
// Atomic Cell Probe - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Command-line diagnostics for atomic cell strategies
//
// Description:
//   Reports which atomic access strategy the process would select on this machine and why the
//   others were rejected, and stress-verifies every available strategy under contention.
//
// Commands:
//   - probe:  run strategy selection and print the report (text or JSON)
//   - verify: hammer each available strategy with concurrent CAS and ring traffic
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/joeycumines/logiface"
	"github.com/spf13/cobra"

	"atomiccell/constants"
	"atomiccell/debug"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the probe CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cellprobe",
		Short: "Inspect and verify atomic cell strategies",
		Long: `Inspect which atomic access strategy this process selects and verify
every available strategy under concurrent load.

The ` + constants.EnvDeny + ` and ` + constants.EnvLogLevel + ` environment variables
are honoured exactly as they are by the library.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log selection details to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))

	return cmd
}

// logger returns the logger commands report through: debug level on the
// command's stderr when verbose, otherwise the process default.
func (o *RootOptions) logger(cmd *cobra.Command) *logiface.Logger[logiface.Event] {
	if o.Verbose {
		return debug.New(cmd.ErrOrStderr(), logiface.LevelDebug)
	}
	return debug.Logger()
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
