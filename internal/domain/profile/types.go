package profile

import (
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// Target sources, in precedence order.
const (
	TargetSourceCustom  = "custom"
	TargetSourceQuiz    = "quiz"
	TargetSourceDefault = "default"
)

// MaxCustomTarget bounds user supplied daily targets.
const MaxCustomTarget = 1000

// Config holds runtime knobs for profiles and quiz sessions.
type Config struct {
	DefaultTarget  int
	QuizSessionTTL time.Duration
}

// Profile is the persisted per-user state owned by this domain.
type Profile struct {
	UserID       string                      `json:"userId"`
	QuizResult   *sugarpoints.BodyTypeResult `json:"quizResult,omitempty"`
	CustomTarget *int                        `json:"customTarget,omitempty"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// View is returned to API consumers.
type View struct {
	UserID       string                      `json:"userId"`
	QuizResult   *sugarpoints.BodyTypeResult `json:"quizResult,omitempty"`
	CustomTarget *int                        `json:"customTarget,omitempty"`
	DailyTarget  int                         `json:"dailyTarget"`
	TargetSource string                      `json:"targetSource"`
	UpdatedAt    *time.Time                  `json:"updatedAt,omitempty"`
}

// TargetRequest sets a custom daily target.
type TargetRequest struct {
	Target int `json:"target"`
}

// AnswerRequest answers one quiz question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// EvaluateRequest scores a full answer set without a session. Keys are
// question ids.
type EvaluateRequest struct {
	Answers map[int]string `json:"answers"`
}

// QuizView is the client-facing state of a quiz session.
type QuizView struct {
	SessionID     string                      `json:"sessionId"`
	State         sugarpoints.QuizState       `json:"state"`
	AnsweredCount int                         `json:"answeredCount"`
	Missing       []int                       `json:"missing"`
	Answers       map[int]sugarpoints.Answer  `json:"answers"`
	Result        *sugarpoints.BodyTypeResult `json:"result,omitempty"`
}

// SubmitResponse carries the quiz result and the updated profile.
type SubmitResponse struct {
	Result  sugarpoints.BodyTypeResult `json:"result"`
	Profile View                       `json:"profile"`
}
