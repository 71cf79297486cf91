package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/domain/competition"
)

func newRankCmd(root *rootOptions) *cobra.Command {
	var month string
	var limit int
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank participants on one month's samples",
		Long: `Rank scores every participant strictly on the samples of one month.
Participants missing a sample for any metric that month are listed as
unscoreable instead of being ranked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := root.load()
			if err != nil {
				return err
			}
			m, err := resolveMonth(month, doc)
			if err != nil {
				return err
			}
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			ranking := competition.Rank(doc.Participants, m)
			ranking.Standings = ranking.Top(limit)

			if root.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), ranking)
			}
			printRanking(cmd.OutOrStdout(), ranking)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Competition month, YYYY-MM")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many standings (0 shows all)")
	return cmd
}

func printRanking(w io.Writer, r competition.Ranking) {
	s := newPrintStyles(w)
	s.title(w, "Competition %s", r.Month)
	if len(r.Standings) == 0 {
		fmt.Fprintln(w, s.dim.Render("no scoreable participants"))
	}
	for _, st := range r.Standings {
		fmt.Fprintf(w, "%3d. %s %s  %s %s\n", st.Rank, s.score(st.Score), s.bar(st.Score), s.label.Render(st.Name), s.dim.Render(st.ParticipantID))
	}
	if len(r.Unscoreable) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.dim.Render("unscoreable: "+strings.Join(r.Unscoreable, ", ")))
	}
}
