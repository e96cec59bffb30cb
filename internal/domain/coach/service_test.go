package coach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	"github.com/yanqian/sugarpoints/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/sugarpoints/pkg/errors"
)

func TestAdvise_RulesWithoutClient(t *testing.T) {
	days := &stubDays{view: dayView(150, 120, "Pasta")}
	svc := NewService(testConfig(0), days, nil, wordCounter{}, discardLogger())

	resp, err := svc.Advise(context.Background(), "u1", Request{Date: "2024-05-01"})
	require.NoError(t, err)
	require.Equal(t, SourceRules, resp.Source)
	require.Nil(t, resp.TokenUsage)
	require.Equal(t, sugarpoints.SeverityDanger, resp.Status.Severity)
	require.Contains(t, resp.Advice, "High intake today")
	require.Contains(t, resp.Advice, "30 over target")
	require.Equal(t, "2024-05-01", days.date)
}

func TestAdvise_RulesEmptyDay(t *testing.T) {
	svc := NewService(testConfig(0), &stubDays{view: dayView(0, 100)}, nil, wordCounter{}, discardLogger())
	resp, err := svc.Advise(context.Background(), "u1", Request{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Advice, "Perfect start"))
	require.Contains(t, resp.Advice, "100 SugarPoints")
}

func TestAdvise_UsesLLM(t *testing.T) {
	client := &stubClient{content: "  Try eggs for dinner.  "}
	svc := NewService(testConfig(0), &stubDays{view: dayView(40, 120, "Toast", "Banana")}, client, wordCounter{}, discardLogger())

	resp, err := svc.Advise(context.Background(), "u1", Request{Question: "What should I have for dinner?"})
	require.NoError(t, err)
	require.Equal(t, SourceLLM, resp.Source)
	require.Equal(t, "Try eggs for dinner.", resp.Advice)
	require.NotNil(t, resp.TokenUsage)
	require.Greater(t, resp.TokenUsage.PromptTokens, 0)
	require.Equal(t, resp.TokenUsage.PromptTokens+resp.TokenUsage.CompletionTokens, resp.TokenUsage.TotalTokens)

	require.Equal(t, "gpt-test", client.req.Model)
	require.Len(t, client.req.Messages, 2)
	require.Equal(t, "system", client.req.Messages[0].Role)
	user := client.req.Messages[1].Content
	require.Contains(t, user, "Daily target: 120 SugarPoints")
	require.Contains(t, user, "Toast")
	require.Contains(t, user, "Banana")
	require.Contains(t, user, "Question: What should I have for dinner?")
}

func TestAdvise_ReportedUsageWins(t *testing.T) {
	client := &stubClient{content: "ok", usage: chatgpt.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}}
	svc := NewService(testConfig(0), &stubDays{view: dayView(10, 120, "Apple")}, client, wordCounter{}, discardLogger())
	resp, err := svc.Advise(context.Background(), "u1", Request{})
	require.NoError(t, err)
	require.Equal(t, 12, resp.TokenUsage.TotalTokens)
}

func TestAdvise_TrimsOldestEntriesToBudget(t *testing.T) {
	names := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("Food%02d", i))
	}
	client := &stubClient{content: "ok"}
	svc := NewService(testConfig(60), &stubDays{view: dayView(90, 120, names...)}, client, wordCounter{}, discardLogger())

	_, err := svc.Advise(context.Background(), "u1", Request{})
	require.NoError(t, err)
	user := client.req.Messages[1].Content
	require.Contains(t, user, "earlier entries omitted")
	require.NotContains(t, user, "Food00")
	require.Contains(t, user, "Food29")
}

func TestAdvise_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(testConfig(0), &stubDays{view: dayView(0, 120)}, nil, wordCounter{}, discardLogger())
	_, err := svc.Advise(ctx, "u1", Request{Question: strings.Repeat("x", maxQuestionLength+1)})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	dayErr := apperrors.Wrap("invalid_input", "date must use YYYY-MM-DD", nil)
	svc = NewService(testConfig(0), &stubDays{err: dayErr}, nil, wordCounter{}, discardLogger())
	_, err = svc.Advise(ctx, "u1", Request{Date: "May 1"})
	require.ErrorIs(t, err, dayErr)

	svc = NewService(testConfig(0), &stubDays{view: dayView(0, 120)}, &stubClient{err: errors.New("timeout")}, wordCounter{}, discardLogger())
	_, err = svc.Advise(ctx, "u1", Request{})
	require.True(t, apperrors.IsCode(err, "llm_error"))

	svc = NewService(testConfig(0), &stubDays{view: dayView(0, 120)}, &stubClient{}, wordCounter{}, discardLogger())
	_, err = svc.Advise(ctx, "u1", Request{})
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func testConfig(maxTokens int) Config {
	return Config{Prompt: "You are a coach.", Model: "gpt-test", Temperature: 0.2, MaxPromptTokens: maxTokens}
}

func dayView(total, target int, names ...string) foodlog.DayView {
	entries := make([]sugarpoints.FoodEntry, 0, len(names))
	at := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	for i, name := range names {
		entries = append(entries, sugarpoints.FoodEntry{
			ID:           fmt.Sprintf("e%d", i),
			Name:         name,
			PortionGrams: 100,
			MealType:     sugarpoints.MealSnack,
			Timestamp:    at.Add(time.Duration(i) * time.Minute),
		})
	}
	return foodlog.DayView{
		Date:      "2024-05-01",
		Aggregate: sugarpoints.DailyAggregate{Entries: entries, TotalSugarPoints: total},
		Status:    sugarpoints.Classify(total, target),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

type stubDays struct {
	view foodlog.DayView
	err  error
	date string
}

func (s *stubDays) Day(_ context.Context, _ string, date string) (foodlog.DayView, error) {
	s.date = date
	return s.view, s.err
}

type stubClient struct {
	content string
	usage   chatgpt.Usage
	err     error
	req     chatgpt.ChatCompletionRequest
}

func (c *stubClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	c.req = req
	var resp chatgpt.ChatCompletionResponse
	if c.err != nil {
		return resp, c.err
	}
	if c.content != "" {
		resp.Choices = append(resp.Choices, struct {
			Message      chatgpt.Message `json:"message"`
			FinishReason string          `json:"finish_reason"`
		}{Message: chatgpt.Message{Role: "assistant", Content: c.content}, FinishReason: "stop"})
	}
	resp.Usage = c.usage
	return resp, nil
}
