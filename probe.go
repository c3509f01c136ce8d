package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"atomiccell/cell"
	"atomiccell/constants"
)

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Run strategy selection and print the report",
		Long: `Run strategy selection exactly as the library does at first use and
print which strategy won, along with every rejected candidate and its cause.

Exits non-zero when no strategy is usable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(rootOpts, cmd)
		},
	}
}

func runProbe(opts *RootOptions, cmd *cobra.Command) error {
	_, report, err := cell.Select(cell.Candidates(),
		cell.WithConfig(constants.Load()),
		cell.WithLogger(opts.logger(cmd)),
	)
	if werr := writeReport(cmd.OutOrStdout(), opts.Format, report); werr != nil {
		return werr
	}
	return err
}

func writeReport(w io.Writer, format string, report *cell.Report) error {
	if format == "json" {
		b, err := sonnet.Marshal(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	spinInsn := report.SpinInstruction
	if spinInsn == "" {
		spinInsn = "(scheduler yield)"
	}
	selected := report.Selected
	if selected == "" {
		selected = "(none)"
	}
	fmt.Fprintf(tw, "arch:\t%s\n", report.Arch)
	fmt.Fprintf(tw, "spin:\t%s\n", spinInsn)
	fmt.Fprintf(tw, "selected:\t%s\n", selected)
	for _, a := range report.Attempts {
		status := "selected"
		if !a.Selected {
			status = "rejected: " + a.Error
		}
		fmt.Fprintf(tw, "  %s\t%s\n", a.Name, status)
	}
	return tw.Flush()
}
