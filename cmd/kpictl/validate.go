package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/stationkpi/internal/domain/template"
)

type validation struct {
	File  string `json:"file"`
	Kind  string `json:"kind"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Count int    `json:"count"`
}

var errValidation = errors.New("validation failed")

func newValidateCmd(root *rootOptions) *cobra.Command {
	var templates string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check role templates and datasets",
		Long: `Validate loads the role catalog given by --templates and the dataset given
by --dataset. Category weights of every role and every participant must
total 100, and keys must be unique.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if templates == "" && root.dataset == "" {
				return errors.New("nothing to validate; pass --templates or --dataset")
			}
			var results []validation
			if templates != "" {
				results = append(results, validateCatalog(templates))
			}
			if root.dataset != "" {
				results = append(results, validateDataset(root))
			}

			if root.format == formatJSON {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				printValidation(cmd.OutOrStdout(), results)
			}
			for _, r := range results {
				if !r.OK {
					return errValidation
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&templates, "templates", "t", "", "YAML role catalog")
	return cmd
}

func validateCatalog(path string) validation {
	v := validation{File: path, Kind: "templates"}
	c, err := template.LoadFile(path)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.OK, v.Count = true, len(c.Roles)
	return v
}

func validateDataset(root *rootOptions) validation {
	v := validation{File: root.dataset, Kind: "dataset"}
	doc, err := root.load()
	if err != nil {
		v.Error = err.Error()
		return v
	}
	for _, p := range doc.Participants {
		if err := template.ValidateWeights(p.Categories); err != nil {
			v.Error = fmt.Sprintf("participant %s: %v", p.ID, err)
			return v
		}
	}
	v.OK, v.Count = true, len(doc.Participants)
	return v
}

func printValidation(w io.Writer, results []validation) {
	s := newPrintStyles(w)
	s.title(w, "Validation")
	for _, r := range results {
		if r.OK {
			fmt.Fprintf(w, "%s %s %s\n", s.ok.Render("ok  "), r.File, s.dim.Render(fmt.Sprintf("(%s, %d entries)", r.Kind, r.Count)))
			continue
		}
		fmt.Fprintf(w, "%s %s\n     %s\n", s.bad.Render("fail"), r.File, r.Error)
	}
}
