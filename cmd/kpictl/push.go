package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/loadgen"
	"github.com/okian/stationkpi/pkg/logger"
)

// Defaults of the push command.
const (
	defaultSamples = 1000
	defaultTimeout = 10 * time.Second
)

func newPushCmd(root *rootOptions) *cobra.Command {
	cfg := loadgen.Config{}
	var month, logLevel string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Feed synthetic samples to a running server",
		Long: `Push reads the participants of a running stationkpi server, posts
generated samples for every metric concurrently and prints the outcome
together with the month's competition.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Samples < 1 {
				return errors.New("--samples must be positive")
			}
			if month != "" {
				m, err := model.ParseMonth(month)
				if err != nil {
					return err
				}
				cfg.Month = m
			}
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithLevel(logLevel)); err != nil {
				return err
			}

			report, err := loadgen.Run(cmd.Context(), cfg, logger.Get().Named("push"))
			if err != nil {
				return err
			}
			if root.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printPush(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the server")
	cmd.Flags().IntVarP(&cfg.Samples, "samples", "s", defaultSamples, "Number of samples to post")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Concurrent submitters")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().IntVarP(&cfg.Limit, "limit", "n", 0, "Standings to show afterwards (0 uses the server default)")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "Value generator seed (0 picks one)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to stamp samples in, YYYY-MM (defaults to the server's active month)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	return cmd
}

func printPush(w io.Writer, r loadgen.Report) {
	s := newPrintStyles(w)
	st := r.Stats
	s.title(w, "Pushed samples for %s", r.Month)
	fmt.Fprintf(w, "%-10s %d\n", "submitted", st.Submitted)
	fmt.Fprintf(w, "%-10s %s\n", "accepted", s.high.Render(fmt.Sprint(st.Accepted)))
	fmt.Fprintf(w, "%-10s %d\n", "duplicate", st.Duplicate)
	fmt.Fprintf(w, "%-10s %s\n", "rejected", s.mid.Render(fmt.Sprint(st.Rejected)))
	fmt.Fprintf(w, "%-10s %s\n", "throttled", s.mid.Render(fmt.Sprint(st.Throttled)))
	fmt.Fprintf(w, "%-10s %s\n", "failed", s.low.Render(fmt.Sprint(st.Failed)))
	fmt.Fprintf(w, "%s\n", s.dim.Render(fmt.Sprintf("%s, %.0f samples/s", st.Duration.Round(time.Millisecond), st.Throughput)))
	printRanking(w, r.Ranking)
}
