package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var asJSON bool
	root := &cobra.Command{
		Use:           "sugarctl",
		Short:         "sugarctl scores foods and days in SugarPoints",
		Long:          "sugarctl runs the SugarPoints engine offline: portion scoring, daily status bands and the body-type quiz.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newScoreCmd(&asJSON),
		newClassifyCmd(&asJSON),
		newQuizCmd(&asJSON),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
