package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yousuf/jstrace/internal/metrics"
	"github.com/yousuf/jstrace/internal/sourcemap"
)

func newRemapCmd(opts *globalOptions) *cobra.Command {
	var (
		remapSourceMap string
		remapDebug     bool
	)

	cmd := &cobra.Command{
		Use:   "remap [file]",
		Short: "Rewrite stack frames to original sources using source maps",
		Long: `Rewrite the frames of a stack trace to their original source positions.

With --source-map every frame is resolved through that one map. Otherwise each
frame uses the map configured for its file under source_maps.

If no file is provided, reads the trace from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			if remapSourceMap != "" {
				data, err := os.ReadFile(remapSourceMap)
				if err != nil {
					return fmt.Errorf("read source map: %w", err)
				}
				output, err := sourcemap.Map(string(data), input, remapDebug)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}

			store := sourcemap.NewStore()
			for fileName, path := range opts.cfg.SourceMaps {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read source map for %q: %w", fileName, err)
				}
				if err := store.Add(fileName, data); err != nil {
					return err
				}
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

			remapped, unmapped := sourcemap.RemapWith(store, trace)
			metrics.RecordRemap(len(trace.Frames)-len(unmapped), len(unmapped))

			fmt.Fprintln(cmd.OutOrStdout(), remapped.String())
			if remapDebug {
				for _, frame := range unmapped {
					fmt.Fprintf(cmd.ErrOrStderr(), "unmapped: %s\n", frame.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&remapSourceMap, "source-map", "m", "", "source map applied to every frame")
	cmd.Flags().BoolVar(&remapDebug, "debug", false, "show which frames were mapped")

	return cmd
}
