package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/media"
	"github.com/kbukum/podscribe/podcast"
	"github.com/kbukum/podscribe/source"
	"github.com/kbukum/podscribe/util"
)

type runFlags struct {
	name      string
	trim      float64
	jsonOut   bool
	noDiarize bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Download, transcribe and label one episode",
		Example: `  podscribe run "https://www.xiaoyuzhoufm.com/episode/6543" --name ep42
  podscribe run "https://www.bilibili.com/video/BV1xx" --name talk --trim 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if flags.noDiarize {
				cfg.Diarization.Enabled = util.Ptr(false)
			}
			if flags.trim < 0 {
				return apperrors.InvalidInput("trim", "must not be negative")
			}

			ctx := cmd.Context()
			svc, err := newServices(ctx, cfg, wiring{transcriber: true, diarizer: true})
			if err != nil {
				return err
			}
			locator, err := source.NewLocator(cfg.Download)
			if err != nil {
				return err
			}
			converter := media.NewConverter(cfg.Media)
			svc.app.OnStart(func(context.Context) error {
				if !converter.Available() {
					return apperrors.ServiceUnavailable(cfg.Media.FFmpeg)
				}
				return nil
			})

			proc, err := svc.processor(podcast.Deps{Locator: locator, Converter: converter})
			if err != nil {
				return err
			}
			req := podcast.Request{
				URL:  args[0],
				Name: flags.name,
				Trim: time.Duration(flags.trim * float64(time.Second)),
			}
			return svc.app.RunTask(ctx, func(ctx context.Context) error {
				res, err := proc.Process(ctx, req)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res, flags.jsonOut)
			})
		},
	}
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "output base name for audio and transcripts (required)")
	cmd.Flags().Float64Var(&flags.trim, "trim", 0, "seconds to drop from the start of the audio")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.noDiarize, "no-diarize", false, "skip speaker diarization")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func printResult(w io.Writer, res *podcast.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(w, "run %s: %d segments", res.RunID, len(res.Segments))
	if res.Diarized {
		fmt.Fprintf(w, ", %d speakers\n", res.Speakers)
	} else {
		fmt.Fprintf(w, ", unlabeled (%s)\n", res.Fallback)
	}
	for _, loc := range []string{res.Outputs.SRT, res.Outputs.Text, res.Outputs.Diarized} {
		if loc != "" {
			fmt.Fprintf(w, "  %s\n", loc)
		}
	}
	return nil
}
