package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/domain/forecast"
	"github.com/okian/stationkpi/internal/domain/state"
)

type forecastReport struct {
	ParticipantID string           `json:"participant_id,omitempty"`
	MetricID      string           `json:"metric_id,omitempty"`
	Series        []float64        `json:"series"`
	Available     bool             `json:"available"`
	Result        *forecast.Result `json:"result,omitempty"`
	Points        []forecast.Point `json:"points,omitempty"`
}

func newForecastCmd(root *rootOptions) *cobra.Command {
	var participant, metric string
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the next value of a metric or of the network score",
		Long: `Without flags forecast projects the network-wide composite score. With
--participant and --metric it projects that metric's next monthly value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (participant == "") != (metric == "") {
				return errors.New("--participant and --metric go together")
			}
			doc, err := root.load()
			if err != nil {
				return err
			}

			var report forecastReport
			if participant == "" {
				report.Series = forecast.NetworkSeries(doc.Participants)
			} else {
				st := state.New(doc.Participants, "", "")
				p, ok := st.Participant(participant)
				if !ok {
					return fmt.Errorf("%w: %s", state.ErrUnknownParticipant, participant)
				}
				m, ok := p.Metric(metric)
				if !ok {
					return fmt.Errorf("%w: %s/%s", state.ErrUnknownMetric, participant, metric)
				}
				report.ParticipantID, report.MetricID = participant, metric
				report.Series = m.Values()
			}
			if res, ok := forecast.Next(report.Series); ok {
				report.Available, report.Result = true, &res
				report.Points, _ = forecast.Points(report.Series)
			}

			if root.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printForecast(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&participant, "participant", "p", "", "Participant id")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric id")
	return cmd
}

func printForecast(w io.Writer, r forecastReport) {
	s := newPrintStyles(w)
	if r.MetricID == "" {
		s.title(w, "Network forecast")
	} else {
		s.title(w, "Forecast %s / %s", r.ParticipantID, r.MetricID)
	}
	if !r.Available {
		fmt.Fprintln(w, s.dim.Render(fmt.Sprintf("not enough history (%d samples)", len(r.Series))))
		return
	}
	for _, p := range r.Points {
		marker := " "
		if p.Projected {
			marker = s.header.Render("→")
		}
		fmt.Fprintf(w, "%s %3d  %v\n", marker, p.Index, p.Value)
	}
	fmt.Fprintf(w, "\n%s %v %s\n", s.label.Render("next:"), r.Result.Forecast,
		s.dim.Render(fmt.Sprintf("(slope %.2f, %d samples)", r.Result.Slope, r.Result.Samples)))
}
