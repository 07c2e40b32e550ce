package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type statusFunc func(format string, args ...any)

type options struct {
	output    string
	overwrite bool
	dryRun    bool
	quiet     bool
	pattern   string
	extDefs   string
	postCmd   string

	status statusFunc
}

func (o *options) createStatus(w io.Writer) {
	if o.quiet {
		o.status = func(string, ...any) {}

		return
	}

	o.status = func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}
}

// Execute runs the CLI and returns the process exit code. The exit code is
// non-zero iff a command failed or the extraction run counted errors.
func Execute(args []string, stdout, stderr io.Writer) int {
	opts := &options{} //nolint:exhaustruct

	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdunpack",
		Short:         "Unpack fenced code blocks from markdown documents into files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(extractCmd(opts))
	root.AddCommand(listCmd())

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		return 1
	}

	return 0
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status output")
}
