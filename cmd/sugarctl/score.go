package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

func newScoreCmd(asJSON *bool) *cobra.Command {
	var (
		profile sugarpoints.FoodNutrientProfile
		grams   float64
	)
	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Convert a food portion into SugarPoints",
		Example: "  sugarctl score --carbs 14 --fat 0.2 --protein 0.3 --grams 150",
		RunE: func(cmd *cobra.Command, args []string) error {
			consumed, err := sugarpoints.Convert(profile, grams)
			if err != nil {
				return err
			}
			score, err := sugarpoints.ScoreEntry(profile, grams)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return writeJSON(out, map[string]any{
					"sugarPoints":      score.SugarPoints,
					"sugarPointBlocks": score.SugarPointBlocks,
					"display":          score.Display(),
					"consumed":         consumed.Rounded(),
				})
			}
			rounded := consumed.Rounded()
			fmt.Fprintf(out, "%s (%d blocks)\n", score.Display(), score.SugarPointBlocks)
			fmt.Fprintf(out, "Carbs: %.1fg\nFat: %.1fg\nProtein: %.1fg\n", rounded.Carbs, rounded.Fat, rounded.Protein)
			return nil
		},
	}
	cmd.Flags().Float64Var(&profile.CarbsPer100g, "carbs", 0, "Carbohydrate grams per 100g")
	cmd.Flags().Float64Var(&profile.FatPer100g, "fat", 0, "Fat grams per 100g")
	cmd.Flags().Float64Var(&profile.ProteinPer100g, "protein", 0, "Protein grams per 100g")
	cmd.Flags().Float64Var(&grams, "grams", 0, "Portion size in grams")
	_ = cmd.MarkFlagRequired("grams")
	return cmd
}

func newClassifyCmd(asJSON *bool) *cobra.Command {
	var total, target int
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show the status band of a daily SugarPoints total",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := sugarpoints.Classify(total, target)
			out := cmd.OutOrStdout()
			if *asJSON {
				return writeJSON(out, status)
			}
			fmt.Fprintf(out, "%s [%s/%s]\n%d of %d SugarPoints (%d%%), %d remaining\n",
				status.Label, status.Severity, status.Color, status.Total, status.Target, status.PercentOfTarget, status.Remaining)
			return nil
		},
	}
	cmd.Flags().IntVar(&total, "total", 0, "Daily SugarPoints total")
	cmd.Flags().IntVar(&target, "target", sugarpoints.DefaultTarget, "Daily SugarPoints target")
	return cmd
}
