package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
	apperrors "github.com/yanqian/sugarpoints/pkg/errors"
	"github.com/yanqian/sugarpoints/pkg/util"
)

const maxUserIDLen = 64

// Service exposes profile, daily target and body-type quiz workflows.
type Service interface {
	Get(ctx context.Context, userID string) (View, error)
	SetCustomTarget(ctx context.Context, userID string, req TargetRequest) (View, error)
	ClearCustomTarget(ctx context.Context, userID string) (View, error)
	DailyTarget(ctx context.Context, userID string) (int, error)

	Questions() []sugarpoints.Question
	Evaluate(ctx context.Context, req EvaluateRequest) (sugarpoints.BodyTypeResult, error)
	StartQuiz(ctx context.Context, userID string) (QuizView, error)
	AnswerQuiz(ctx context.Context, userID, sessionID string, questionID int, req AnswerRequest) (QuizView, error)
	QuizState(ctx context.Context, userID, sessionID string) (QuizView, error)
	SubmitQuiz(ctx context.Context, userID, sessionID string) (SubmitResponse, error)
}

type service struct {
	cfg      Config
	repo     Repository
	sessions QuizSessionStore
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string

	// serialises read-modify-write of sessions and profiles within this process
	mu sync.Mutex
}

// NewService constructs a profile Service.
func NewService(cfg Config, repo Repository, sessions QuizSessionStore, logger *slog.Logger) Service {
	if cfg.DefaultTarget <= 0 {
		cfg.DefaultTarget = sugarpoints.DefaultTarget
	}
	return &service{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		logger:   logger.With("component", "profile.service"),
		now:      util.NowUTC,
		newID:    uuid.NewString,
	}
}

func (s *service) Get(ctx context.Context, userID string) (View, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return View{}, err
	}
	p, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
	}
	if !found {
		p = Profile{UserID: userID}
	}
	return s.toView(p), nil
}

func (s *service) SetCustomTarget(ctx context.Context, userID string, req TargetRequest) (View, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return View{}, err
	}
	if req.Target <= 0 || req.Target > MaxCustomTarget {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "target must be between 1 and 1000 SugarPoints", nil)
	}
	target := req.Target
	return s.update(ctx, userID, func(p *Profile) {
		p.CustomTarget = &target
	})
}

func (s *service) ClearCustomTarget(ctx context.Context, userID string) (View, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return View{}, err
	}
	return s.update(ctx, userID, func(p *Profile) {
		p.CustomTarget = nil
	})
}

func (s *service) DailyTarget(ctx context.Context, userID string) (int, error) {
	view, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return view.DailyTarget, nil
}

func (s *service) Questions() []sugarpoints.Question {
	return sugarpoints.Questions()
}

func (s *service) Evaluate(_ context.Context, req EvaluateRequest) (sugarpoints.BodyTypeResult, error) {
	responses := make(map[int]sugarpoints.Answer, len(req.Answers))
	for id, raw := range req.Answers {
		answer, err := sugarpoints.ParseAnswer(id, raw)
		if err != nil {
			return sugarpoints.BodyTypeResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
		}
		responses[id] = answer
	}
	result, err := sugarpoints.Submit(responses)
	if err != nil {
		return sugarpoints.BodyTypeResult{}, s.quizError(err)
	}
	return result, nil
}

func (s *service) StartQuiz(ctx context.Context, userID string) (QuizView, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return QuizView{}, err
	}
	session := sugarpoints.NewQuizSession(s.newID(), userID, s.now())
	if err := s.sessions.Save(ctx, session, s.cfg.QuizSessionTTL); err != nil {
		return QuizView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to start quiz", err)
	}
	s.logger.Info("quiz session started", "user_id", userID, "session_id", session.ID)
	return toQuizView(session), nil
}

func (s *service) AnswerQuiz(ctx context.Context, userID, sessionID string, questionID int, req AnswerRequest) (QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	if err := session.Answer(questionID, req.Answer); err != nil {
		return QuizView{}, s.quizError(err)
	}
	if err := s.sessions.Save(ctx, session, s.cfg.QuizSessionTTL); err != nil {
		return QuizView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save quiz answer", err)
	}
	return toQuizView(session), nil
}

func (s *service) QuizState(ctx context.Context, userID, sessionID string) (QuizView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	return toQuizView(session), nil
}

func (s *service) SubmitQuiz(ctx context.Context, userID, sessionID string) (SubmitResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}
	result, err := session.Submit(s.now())
	if err != nil {
		return SubmitResponse{}, s.quizError(err)
	}
	// The profile is written first: until the submitted session is stored the
	// session stays Ready, so a failed submit can be retried.
	view, err := s.updateLocked(ctx, session.UserID, func(p *Profile) {
		stored := result
		p.QuizResult = &stored
	})
	if err != nil {
		return SubmitResponse{}, err
	}
	if err := s.sessions.Save(ctx, session, s.cfg.QuizSessionTTL); err != nil {
		return SubmitResponse{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save quiz result", err)
	}
	s.logger.Info("quiz submitted", "user_id", session.UserID, "session_id", session.ID, "body_type", result.BodyType, "target", result.RecommendedTarget)
	return SubmitResponse{Result: result, Profile: view}, nil
}

func (s *service) update(ctx context.Context, userID string, mutate func(*Profile)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, userID, mutate)
}

func (s *service) updateLocked(ctx context.Context, userID string, mutate func(*Profile)) (View, error) {
	p, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
	}
	if !found {
		p = Profile{UserID: userID}
	}
	mutate(&p)
	p.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, p); err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save profile", err)
	}
	return s.toView(p), nil
}

func (s *service) loadSession(ctx context.Context, userID, sessionID string) (*sugarpoints.QuizSession, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "session id cannot be empty", nil)
	}
	session, found, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load quiz session", err)
	}
	if !found || session.UserID != userID {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "quiz session not found", nil)
	}
	return session, nil
}

func (s *service) quizError(err error) error {
	var (
		incomplete *sugarpoints.IncompleteQuizError
		ambiguous  *sugarpoints.AmbiguousClassificationError
	)
	switch {
	case errors.As(err, &incomplete):
		return apperrors.Wrap(apperrors.CodeIncompleteQuiz, err.Error(), err)
	case errors.Is(err, sugarpoints.ErrQuizSubmitted):
		return apperrors.Wrap(apperrors.CodeQuizSubmitted, err.Error(), err)
	case errors.As(err, &ambiguous):
		s.logger.Error("body type classification defect", "tally_a", ambiguous.Tally.A, "tally_b", ambiguous.Tally.B, "tally_c", ambiguous.Tally.C)
		return apperrors.Wrap(apperrors.CodeClassificationDefect, "quiz could not be scored", err)
	case sugarpoints.IsValidationError(err):
		return apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err)
	default:
		return apperrors.Wrap("quiz_error", "quiz could not be scored", err)
	}
}

func (s *service) toView(p Profile) View {
	view := View{
		UserID:       p.UserID,
		QuizResult:   p.QuizResult,
		CustomTarget: p.CustomTarget,
		DailyTarget:  s.cfg.DefaultTarget,
		TargetSource: TargetSourceDefault,
	}
	switch {
	case p.CustomTarget != nil && *p.CustomTarget > 0:
		view.DailyTarget = *p.CustomTarget
		view.TargetSource = TargetSourceCustom
	case p.QuizResult != nil && p.QuizResult.RecommendedTarget > 0:
		view.DailyTarget = p.QuizResult.RecommendedTarget
		view.TargetSource = TargetSourceQuiz
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}

func toQuizView(session *sugarpoints.QuizSession) QuizView {
	answers := make(map[int]sugarpoints.Answer, len(session.Answers))
	for id, a := range session.Answers {
		answers[id] = a
	}
	return QuizView{
		SessionID:     session.ID,
		State:         session.State(),
		AnsweredCount: session.AnsweredCount(),
		Missing:       session.Missing(),
		Answers:       answers,
		Result:        session.Result,
	}
}

func normalizeUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "user id cannot be empty", nil)
	}
	if len(id) > maxUserIDLen {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "user id is too long", nil)
	}
	return id, nil
}
