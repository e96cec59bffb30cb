package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

func newQuizCmd(asJSON *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Body-type questionnaire",
	}
	cmd.AddCommand(newQuizQuestionsCmd(asJSON), newQuizEvaluateCmd(asJSON))
	return cmd
}

func newQuizQuestionsCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the quiz questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions := sugarpoints.Questions()
			out := cmd.OutOrStdout()
			if *asJSON {
				return writeJSON(out, questions)
			}
			for _, q := range questions {
				fmt.Fprintf(out, "%2d. %s\n", q.ID, q.Text)
				letters := make([]string, 0, len(q.Options))
				for a := range q.Options {
					letters = append(letters, string(a))
				}
				sort.Strings(letters)
				for _, l := range letters {
					fmt.Fprintf(out, "    %s) %s\n", l, q.Options[sugarpoints.Answer(l)])
				}
			}
			return nil
		},
	}
}

func newQuizEvaluateCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "evaluate ANSWERS",
		Short:   "Score 15 answers given in question order, e.g. AABCBBACCABBACB",
		Args:    cobra.ExactArgs(1),
		Example: "  sugarctl quiz evaluate aabcbbaccabbacb",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := parseAnswerString(args[0])
			if err != nil {
				return err
			}
			result, err := sugarpoints.Submit(responses)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if *asJSON {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "Body type: %s\nRange: %d-%d SugarPoints\nRecommended target: %d\nTally: A=%d B=%d C=%d\n",
				result.BodyType, result.SugarPointsRange.Low, result.SugarPointsRange.High,
				result.RecommendedTarget, result.Tally.A, result.Tally.B, result.Tally.C)
			return nil
		},
	}
}

// parseAnswerString maps the i-th letter to question i. Spaces and commas are ignored.
func parseAnswerString(raw string) (map[int]sugarpoints.Answer, error) {
	cleaned := strings.NewReplacer(" ", "", ",", "").Replace(raw)
	if len(cleaned) > sugarpoints.QuestionCount {
		return nil, fmt.Errorf("expected %d answers, got %d", sugarpoints.QuestionCount, len(cleaned))
	}
	responses := make(map[int]sugarpoints.Answer, len(cleaned))
	for i, r := range cleaned {
		id := i + 1
		a, err := sugarpoints.ParseAnswer(id, string(r))
		if err != nil {
			return nil, err
		}
		responses[id] = a
	}
	return responses, nil
}
