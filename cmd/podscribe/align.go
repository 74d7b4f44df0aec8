package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/podscribe/podcast"
	"github.com/kbukum/podscribe/storage"
)

func newAlignCmd(root *rootFlags) *cobra.Command {
	var (
		outDir  string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "align <transcript.srt> <turns.json>",
		Short: "Label an existing SRT transcript with diarization turns",
		Long: `align attributes every caption in an SRT file to the speaker turn it
overlaps most and writes <name>.txt and <name>_diarized.txt. The turns file
is a JSON array of {"start","end","speaker"} objects or a diarization
response with a "segments" array.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Output.Storage.Provider = storage.ProviderLocal
				cfg.Output.Storage.BasePath = outDir
				cfg.Output.Storage.Prefix = ""
			}

			ctx := cmd.Context()
			svc, err := newServices(ctx, cfg, wiring{})
			if err != nil {
				return err
			}
			proc, err := svc.processor(podcast.Deps{})
			if err != nil {
				return err
			}
			return svc.app.RunTask(ctx, func(ctx context.Context) error {
				res, err := proc.AlignFiles(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res, jsonOut)
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write into this local directory instead of the configured storage")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	return cmd
}
