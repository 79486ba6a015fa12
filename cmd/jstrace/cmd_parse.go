package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yousuf/jstrace/internal/metrics"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var parseFrame bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a stack trace and print it as JSON",
		Long: `Parse a stack trace and print it as JSON.

If no file is provided, reads the trace from stdin.

Use --frame to parse a single "at ..." line instead of a whole trace.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			platform, err := opts.cfg.Platform()
			if err != nil {
				return err
			}

			var result any
			if parseFrame {
				frame, _, err := platform.ParseFrame(input)
				metrics.RecordParse("frame", err)
				if err != nil {
					return fmt.Errorf("parse frame: %w", err)
				}
				result = frame
			} else {
				trace, err := platform.ParseStacktrace(input)
				metrics.RecordParse("stacktrace", err)
				if err != nil {
					return fmt.Errorf("parse stack trace: %w", err)
				}
				result = trace
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&parseFrame, "frame", false, "parse a single frame line")

	return cmd
}
