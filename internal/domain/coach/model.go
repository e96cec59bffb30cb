package coach

import (
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	"github.com/yanqian/sugarpoints/pkg/metrics"
)

// Advice sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

const (
	defaultQuestion   = "How am I doing today and what should I eat next?"
	maxQuestionLength = 500
)

// Config configures the coach prompt and model.
type Config struct {
	Prompt          string
	Model           string
	Temperature     float32
	MaxPromptTokens int
}

// Request asks the coach about one day of the food log.
type Request struct {
	Date     string `json:"date,omitempty"`
	Question string `json:"question,omitempty"`
}

// Response carries the advice and the status it was based on.
type Response struct {
	Advice     string              `json:"advice"`
	Source     string              `json:"source"`
	Date       string              `json:"date"`
	Status     sugarpoints.Status  `json:"status"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}
