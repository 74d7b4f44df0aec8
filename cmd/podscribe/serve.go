package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/podscribe/server"
	"github.com/kbukum/podscribe/server/endpoint"
	"github.com/kbukum/podscribe/version"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the alignment HTTP API",
		Long: `serve exposes POST /v1/align for labeling transcript segments with
diarization turns, plus GET /health and GET /info. Health reports the
configured transcription and diarization sidecars.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			svc, err := newServices(ctx, cfg, wiring{transcriber: true, diarizer: true})
			if err != nil {
				return err
			}

			var checks []endpoint.Check
			if svc.transcriber != nil {
				checks = append(checks, endpoint.Check{Checker: endpoint.ProviderChecker(svc.transcriber), Required: true})
			}
			if svc.diarizer != nil {
				checks = append(checks, endpoint.Check{Checker: endpoint.ProviderChecker(svc.diarizer)})
			}

			srv := server.New(cfg.Server)
			srv.RegisterRoutes(server.Routes{
				Service: cfg.Base.Name,
				Version: version.Get().Version,
				Checks:  checks,
				Align: server.AlignDefaults{
					LabelFormat:  cfg.Output.LabelFormat,
					UnknownLabel: cfg.Output.UnknownLabel,
				},
				Metrics: svc.metrics,
			})
			for _, r := range srv.Engine().Routes() {
				svc.app.Summary.TrackRoute(r.Method, r.Path)
			}
			return svc.app.Run(ctx, srv.Run)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}
