package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/launchdash/internal/probe"
	"github.com/spf13/cobra"
)

// Default probe settings.
const (
	defaultProbeURL      = "http://localhost:8050"
	defaultProbeRequests = 200
	defaultProbeWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultProbeTimeout  = 30 * time.Second
	defaultProbeDeadline = 10 * time.Minute
)

func newProbeCmd() *cobra.Command {
	cfg := &probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send concurrent chart updates to a running dashboard and check the figures",
		Long: "Probe discovers the selector options, slider and callback wiring of a running\n" +
			"dashboard, sends random update requests from a pool of workers, and checks\n" +
			"every returned figure against /api/summary.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultProbeDeadline)
			defer cancel()

			stats, err := probe.Run(ctx, cfg)
			if stats != nil && stats.RequestsSent > 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"sent %d, ok %d, failed %d, mismatched %d in %s (avg %s, max %s)\n",
					stats.RequestsSent, stats.RequestsOK, stats.RequestsFailed, stats.FiguresMismatched,
					stats.Duration.Round(time.Millisecond),
					stats.AverageLatency().Round(time.Microsecond),
					stats.MaxLatency.Round(time.Microsecond))
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfg.BaseURL, "url", defaultProbeURL, "base URL of the dashboard")
	fl.IntVar(&cfg.Requests, "requests", defaultProbeRequests, "number of update requests")
	fl.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultProbeWorkers, "number of concurrent workers")
	fl.DurationVar(&cfg.Timeout, "timeout", defaultProbeTimeout, "HTTP request timeout")
	fl.Uint64Var(&cfg.Seed, "seed", 0, "request generator seed (default: from the clock)")
	fl.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every failed or mismatched request")
	return cmd
}
