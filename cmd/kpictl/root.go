package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/adapters/dataset"
	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
)

// Output formats.
const (
	formatConsole = "console"
	formatJSON    = "json"
)

var errNoMonth = errors.New("no month given and the dataset has no samples")

type rootOptions struct {
	dataset string
	format  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "kpictl",
		Short: "Score, rank and forecast station KPI datasets",
		Long: `kpictl works on a YAML dataset of participants and their monthly metric
history. It prints composite scores, competition rankings and linear
forecasts, validates role templates, and can push synthetic samples to a
running stationkpi server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.format {
			case formatConsole, formatJSON:
				return nil
			}
			return fmt.Errorf("unknown format %q (console|json)", opts.format)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.dataset, "dataset", "d", "", "YAML dataset of participants")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", formatConsole, "Output format (console|json)")

	cmd.AddCommand(
		newScoreCmd(opts),
		newRankCmd(opts),
		newForecastCmd(opts),
		newValidateCmd(opts),
		newPushCmd(opts),
	)
	return cmd
}

// load reads the dataset named by --dataset.
func (o *rootOptions) load() (dataset.Document, error) {
	if o.dataset == "" {
		return dataset.Document{}, errors.New("--dataset is required")
	}
	return dataset.LoadFile(o.dataset)
}

// resolveMonth picks the month flag, then the dataset's active month, then
// the latest month with a sample.
func resolveMonth(flag string, doc dataset.Document) (model.Month, error) {
	raw := flag
	if raw == "" {
		raw = doc.ActiveMonth
	}
	if raw != "" {
		return model.ParseMonth(raw)
	}
	latest, ok := history.LatestMonth(doc.Participants)
	if !ok {
		return "", errNoMonth
	}
	return latest, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
