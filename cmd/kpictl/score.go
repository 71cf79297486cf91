package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/scoring"
	"github.com/okian/stationkpi/internal/domain/state"
)

type scoreReport struct {
	Month   model.Month      `json:"month"`
	Window  model.Window     `json:"window"`
	Results []scoring.Result `json:"results"`
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	var month, win, participant string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print composite scores for a month and window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := root.load()
			if err != nil {
				return err
			}
			m, err := resolveMonth(month, doc)
			if err != nil {
				return err
			}
			w, err := model.ParseWindow(win)
			if err != nil {
				return err
			}

			st := state.New(doc.Participants, m, w)
			report := scoreReport{Month: m, Window: w}
			for _, p := range st.Participants {
				if participant != "" && p.ID != participant {
					continue
				}
				view, err := st.View(p.ID, m, w)
				if err != nil {
					return err
				}
				report.Results = append(report.Results, scoring.Breakdown(view))
			}
			if participant != "" && len(report.Results) == 0 {
				return fmt.Errorf("%w: %s", state.ErrUnknownParticipant, participant)
			}

			if root.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printScores(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to score, YYYY-MM (defaults to the dataset's active month)")
	cmd.Flags().StringVarP(&win, "window", "w", string(model.Monthly), "Reporting window (monthly|quarterly|yearly)")
	cmd.Flags().StringVarP(&participant, "participant", "p", "", "Only score this participant id")
	return cmd
}

func printScores(w io.Writer, r scoreReport) {
	s := newPrintStyles(w)
	s.title(w, "Scores %s (%s)", r.Month, r.Window)
	for _, res := range r.Results {
		fmt.Fprintf(w, "%s %s  %s %s\n", s.score(res.Score), s.bar(res.Score), s.label.Render(res.Name), s.dim.Render(res.ParticipantID))
		for _, c := range res.Categories {
			fmt.Fprintf(w, "    %s  %s %s\n", s.score(c.Score), c.Name, s.dim.Render(fmt.Sprintf("(%g%%)", c.Weight)))
			for _, m := range c.Metrics {
				fmt.Fprintf(w, "        %s  %-32s %v / %v %s\n", s.score(m.Score), m.Name, m.Value, m.Target, s.dim.Render(m.Unit))
			}
		}
	}
}
