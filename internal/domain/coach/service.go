package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	"github.com/yanqian/sugarpoints/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/sugarpoints/pkg/errors"
	"github.com/yanqian/sugarpoints/pkg/metrics"
)

// Service answers free-form questions about a user's day.
type Service interface {
	Advise(ctx context.Context, userID string, req Request) (Response, error)
}

// DayProvider resolves the aggregated food log for a date.
type DayProvider interface {
	Day(ctx context.Context, userID, date string) (foodlog.DayView, error)
}

// ChatClient sends a chat completion request to the language model.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates prompt size.
type TokenCounter interface {
	Count(text string) int
}

type service struct {
	cfg     Config
	days    DayProvider
	client  ChatClient
	counter TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the coach domain. A nil client makes the
// coach answer from the status rules only.
func NewService(cfg Config, days DayProvider, client ChatClient, counter TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		days:    days,
		client:  client,
		counter: counter,
		logger:  logger.With("component", "coach.service"),
	}
}

func (s *service) Advise(ctx context.Context, userID string, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = defaultQuestion
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("question must be at most %d characters", maxQuestionLength), nil)
	}

	day, err := s.days.Day(ctx, userID, req.Date)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Date: day.Date, Status: day.Status}

	if s.client == nil {
		resp.Advice = ruleAdvice(day)
		resp.Source = SourceRules
		return resp, nil
	}

	userContent := s.buildContext(day, question)
	completion, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.Prompt},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no advice", nil)
	}
	advice := strings.TrimSpace(completion.Choices[0].Message.Content)
	s.logger.Debug("coach advice received", "user_id", userID, "date", day.Date, "chars", len(advice))

	usage := metrics.NewTokenUsage(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	if usage.IsZero() {
		usage = metrics.NewTokenUsage(s.count(s.cfg.Prompt)+s.count(userContent), s.count(advice))
	}
	resp.Advice = advice
	resp.Source = SourceLLM
	resp.TokenUsage = &usage
	return resp, nil
}

// buildContext renders the day for the model. Entries are dropped oldest
// first until the prompt fits MaxPromptTokens.
func (s *service) buildContext(day foodlog.DayView, question string) string {
	header := fmt.Sprintf("Date: %s\nDaily target: %d SugarPoints\nConsumed: %d SugarPoints (%d blocks of %d)\nStatus: %s\n",
		day.Date, day.Status.Target, day.Aggregate.TotalSugarPoints, day.Aggregate.TotalSugarPointBlocks,
		sugarpoints.BlockSize, day.Status.Label)
	footer := "\nQuestion: " + question

	lines := make([]string, 0, len(day.Aggregate.Entries))
	for _, e := range day.Aggregate.Entries {
		lines = append(lines, fmt.Sprintf("- %s %s: %s, %.0fg, %d SugarPoints",
			e.Timestamp.Format("15:04"), e.MealType, e.Name, e.PortionGrams, e.SugarPoints))
	}

	budget := s.cfg.MaxPromptTokens
	if budget > 0 {
		budget -= s.count(s.cfg.Prompt) + s.count(header) + s.count(footer)
	}
	omitted := 0
	for len(lines) > 0 && s.cfg.MaxPromptTokens > 0 && s.count(strings.Join(lines, "\n")) > budget {
		lines = lines[1:]
		omitted++
	}
	if omitted > 0 {
		s.logger.Debug("coach prompt trimmed", "omitted_entries", omitted)
	}

	var b strings.Builder
	b.WriteString(header)
	if len(day.Aggregate.Entries) == 0 {
		b.WriteString("Entries: none logged yet\n")
	} else {
		b.WriteString("Entries:\n")
		if omitted > 0 {
			fmt.Fprintf(&b, "(%d earlier entries omitted)\n", omitted)
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(footer)
	return b.String()
}

func (s *service) count(text string) int {
	if s.counter == nil {
		return (len(text) + 3) / 4
	}
	return s.counter.Count(text)
}

func ruleAdvice(day foodlog.DayView) string {
	st := day.Status
	switch {
	case day.Aggregate.TotalSugarPoints == 0:
		return fmt.Sprintf("%s: nothing logged yet. You have %d SugarPoints to spend today.", st.Label, st.Target)
	case st.Total > st.Target:
		return fmt.Sprintf("%s: %d of %d SugarPoints used, %d over target. Favour vegetables, eggs, fish or meat for the rest of the day.",
			st.Label, st.Total, st.Target, st.Total-st.Target)
	case st.Severity == sugarpoints.SeverityWarning:
		return fmt.Sprintf("%s: %d of %d SugarPoints used, %d remaining. Keep the next meal low in carbs.",
			st.Label, st.Total, st.Target, st.Remaining)
	default:
		return fmt.Sprintf("%s: %d of %d SugarPoints used, %d remaining.", st.Label, st.Total, st.Target, st.Remaining)
	}
}
