package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yousuf/jstrace/internal/fingerprint"
	"github.com/yousuf/jstrace/internal/metrics"
)

func newHashCmd(opts *globalOptions) *cobra.Command {
	var (
		hashFrames int
		hashPrefix string
		hashPlain  bool
	)

	cmd := &cobra.Command{
		Use:   "hash [file]",
		Short: "Print the bthash and duphash of a stack trace",
		Long: `Print the crash fingerprints of a stack trace.

The bthash covers every frame and identifies the exact backtrace. The duphash
covers the file locations of the innermost frames and groups duplicate crashes.

If no file is provided, reads the trace from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hashFrames < 0 {
				return fmt.Errorf("--frames must not be negative")
			}

			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			platform, err := opts.cfg.Platform()
			if err != nil {
				return err
			}
			trace, err := platform.ParseStacktrace(input)
			metrics.RecordParse("stacktrace", err)
			if err != nil {
				return fmt.Errorf("parse stack trace: %w", err)
			}

			dupOpts := fingerprint.Options{
				Frames: opts.cfg.DuphashFrames,
				Prefix: hashPrefix,
				NoHash: hashPlain,
			}
			if cmd.Flags().Changed("frames") {
				dupOpts.Frames = hashFrames
			}

			out := cmd.OutOrStdout()
			if hashPlain {
				fmt.Fprintf(out, "bthash:\n%s\nduphash:\n%s", fingerprint.BthashText(trace), fingerprint.Duphash(trace, dupOpts))
			} else {
				fmt.Fprintf(out, "bthash:  %s\nduphash: %s\n", fingerprint.Bthash(trace), fingerprint.Duphash(trace, dupOpts))
			}
			fmt.Fprintf(out, "reason:  %s\n", trace.Reason())
			metrics.RecordFingerprint()
			return nil
		},
	}

	cmd.Flags().IntVarP(&hashFrames, "frames", "n", 0, "innermost frames in the duphash, 0 for all (default from config)")
	cmd.Flags().StringVar(&hashPrefix, "prefix", "", "line prepended to the duphash text")
	cmd.Flags().BoolVar(&hashPlain, "plain", false, "print the text that would be hashed")

	return cmd
}
