package sugarpoints

import "time"

// QuizState is the lifecycle position of a quiz session.
type QuizState string

const (
	QuizNotStarted QuizState = "not_started"
	QuizInProgress QuizState = "in_progress"
	QuizReady      QuizState = "ready"
	QuizSubmitted  QuizState = "submitted"
)

// QuizSession accumulates answers for one quiz attempt. Submission is
// terminal; re-scoring needs a new session.
type QuizSession struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Answers     map[int]Answer  `json:"answers"`
	Result      *BodyTypeResult `json:"result,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
}

// NewQuizSession starts an empty session.
func NewQuizSession(id, userID string, now time.Time) *QuizSession {
	return &QuizSession{
		ID:        id,
		UserID:    userID,
		Answers:   make(map[int]Answer, QuestionCount),
		StartedAt: now,
	}
}

// AnsweredCount is the number of distinct answered question ids.
func (s *QuizSession) AnsweredCount() int {
	return len(s.Answers)
}

// State derives the lifecycle state from the answers and result.
func (s *QuizSession) State() QuizState {
	switch {
	case s.Result != nil:
		return QuizSubmitted
	case len(s.Answers) == 0:
		return QuizNotStarted
	case len(s.Answers) < QuestionCount:
		return QuizInProgress
	default:
		return QuizReady
	}
}

// Answer records or overwrites the answer to a question.
func (s *QuizSession) Answer(questionID int, raw string) error {
	if s.Result != nil {
		return ErrQuizSubmitted
	}
	a, err := ParseAnswer(questionID, raw)
	if err != nil {
		return err
	}
	if s.Answers == nil {
		s.Answers = make(map[int]Answer, QuestionCount)
	}
	s.Answers[questionID] = a
	return nil
}

// Submit scores the session once it is Ready and freezes it.
func (s *QuizSession) Submit(now time.Time) (BodyTypeResult, error) {
	if s.Result != nil {
		return BodyTypeResult{}, ErrQuizSubmitted
	}
	result, err := Submit(s.Answers)
	if err != nil {
		return BodyTypeResult{}, err
	}
	s.Result = &result
	s.SubmittedAt = &now
	return result, nil
}

// Missing lists unanswered question ids in order.
func (s *QuizSession) Missing() []int {
	missing := make([]int, 0, QuestionCount)
	for id := 1; id <= QuestionCount; id++ {
		if _, ok := s.Answers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
