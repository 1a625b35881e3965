package service

import (
	"context"
	"sync"
	"time"

	"adultna_backend/internal/interview"
	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"
	"adultna_backend/pkg/logger"

	"go.uber.org/zap"
)

// InterviewService owns the live interview sessions. Each active session has
// a question navigator and an answer store; both are rebuilt from MySQL and
// the draft store when a session is touched after a server restart, so a page
// reload never loses the candidate's drafts.
type InterviewService struct {
	Sessions *repository.SessionRepository
	Bank     *QuestionBankService
	Answers  *repository.AnswerRepository
	Drafts   interview.DraftStore
	Grader   interview.GradingClient

	mu   sync.Mutex
	live map[string]*liveSession
}

type liveSession struct {
	session *model.InterviewSession
	nav     *interview.Navigator
	answers *interview.AnswerStore
}

func NewInterviewService(
	sessions *repository.SessionRepository,
	bank *QuestionBankService,
	answers *repository.AnswerRepository,
	drafts interview.DraftStore,
	grader interview.GradingClient,
) *InterviewService {
	return &InterviewService{
		Sessions: sessions,
		Bank:     bank,
		Answers:  answers,
		Drafts:   drafts,
		Grader:   grader,
		live:     make(map[string]*liveSession),
	}
}

// SessionView is the controller-facing snapshot of a live session.
type SessionView struct {
	Session       *model.InterviewSession `json:"session"`
	Question      *model.SessionQuestion  `json:"question,omitempty"`
	Progress      interview.Progress      `json:"progress"`
	Draft         string                  `json:"draft"`
	CanGoNext     bool                    `json:"canGoNext"`
	CanGoPrevious bool                    `json:"canGoPrevious"`
	LastSavedAt   *time.Time              `json:"lastSavedAt,omitempty"`
}

type StartSessionRequest struct {
	JobTitle string `json:"jobTitle"`
	Category string `json:"category"`
}

func (s *InterviewService) StartSession(ctx context.Context, userID uint, req StartSessionRequest) (*SessionView, error) {
	picked, err := s.Bank.PickForSession(req.Category)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, util.ErrNoQuestionsInBank
	}

	session := &model.InterviewSession{
		UserID:    userID,
		JobTitle:  req.JobTitle,
		Status:    model.SessionActive,
		StartedAt: time.Now(),
	}
	session.ID = model.GenerateUUID()

	if err := s.Sessions.Create(session, picked); err != nil {
		return nil, err
	}

	ls := s.buildLive(ctx, session, picked)
	s.mu.Lock()
	s.live[session.ID] = ls
	s.mu.Unlock()

	return s.viewOf(ls), nil
}

func (s *InterviewService) buildLive(ctx context.Context, session *model.InterviewSession, questions []model.SessionQuestion) *liveSession {
	answers := interview.NewAnswerStore(ctx, session.ID, s.Drafts, s.Grader)
	hook := func(ctx context.Context, outgoing model.SessionQuestion) error {
		answers.SaveCurrentAnswer(ctx, outgoing.ID)
		return nil
	}
	nav := interview.NewNavigator(questions, 0, hook)

	if q, ok := nav.CurrentQuestion(); ok {
		answers.LoadAnswerForQuestion(q.ID)
	}

	return &liveSession{
		session: session,
		nav:     nav,
		answers: answers,
	}
}

// getLive returns the live state for a session, rebuilding it from storage if
// this process has not seen the session yet.
func (s *InterviewService) getLive(ctx context.Context, sessionID string, userID uint) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.live[sessionID]
	s.mu.Unlock()

	if !ok {
		session, err := s.Sessions.FindByID(sessionID)
		if err != nil {
			return nil, util.ErrSessionNotFound
		}
		if session.Status != model.SessionActive {
			return nil, util.ErrSessionNotActive
		}
		questions, err := s.Sessions.ListQuestions(sessionID)
		if err != nil {
			return nil, err
		}

		ls = s.buildLive(ctx, session, questions)
		s.mu.Lock()
		if existing, raced := s.live[sessionID]; raced {
			ls = existing
		} else {
			s.live[sessionID] = ls
		}
		s.mu.Unlock()
	}

	if userID != 0 && ls.session.UserID != userID {
		return nil, util.ErrSessionNotOwned
	}
	return ls, nil
}

func (s *InterviewService) View(ctx context.Context, sessionID string, userID uint) (*SessionView, error) {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ls), nil
}

func (s *InterviewService) Next(ctx context.Context, sessionID string, userID uint) (*SessionView, error) {
	return s.navigate(ctx, sessionID, userID, func(ls *liveSession) {
		ls.nav.GoNext(ctx)
	})
}

func (s *InterviewService) Previous(ctx context.Context, sessionID string, userID uint) (*SessionView, error) {
	return s.navigate(ctx, sessionID, userID, func(ls *liveSession) {
		ls.nav.GoPrevious(ctx)
	})
}

// Skip discards the current draft buffer and advances without flushing it.
func (s *InterviewService) Skip(ctx context.Context, sessionID string, userID uint) (*SessionView, error) {
	return s.navigate(ctx, sessionID, userID, func(ls *liveSession) {
		ls.nav.Skip()
	})
}

func (s *InterviewService) GoToQuestion(ctx context.Context, sessionID string, userID uint, index int) (*SessionView, error) {
	return s.navigate(ctx, sessionID, userID, func(ls *liveSession) {
		ls.nav.GoToQuestion(ctx, index)
	})
}

func (s *InterviewService) navigate(ctx context.Context, sessionID string, userID uint, move func(*liveSession)) (*SessionView, error) {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	move(ls)

	// Landing on a question always repopulates the buffer with its draft.
	if q, ok := ls.nav.CurrentQuestion(); ok {
		ls.answers.LoadAnswerForQuestion(q.ID)
	}
	return s.viewOf(ls), nil
}

// SetAnswer updates only the in-memory buffer.
func (s *InterviewService) SetAnswer(ctx context.Context, sessionID string, userID uint, text string) error {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	ls.answers.SetCurrentAnswer(text)
	return nil
}

// SaveAnswer commits the buffer as the current question's draft.
func (s *InterviewService) SaveAnswer(ctx context.Context, sessionID string, userID uint) (*SessionView, error) {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if q, ok := ls.nav.CurrentQuestion(); ok {
		ls.answers.SaveCurrentAnswer(ctx, q.ID)
	}
	return s.viewOf(ls), nil
}

// SubmitAnswer sends the current answer for grading. An empty grade ID means
// the submission was skipped (empty answer, duplicate) or failed; either way
// the candidate can keep navigating.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID string, userID uint) (string, error) {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return "", err
	}

	q, ok := ls.nav.CurrentQuestion()
	if !ok {
		return "", nil
	}

	answer := ls.answers.CurrentAnswer()
	gradeID := ls.answers.SubmitForGrading(ctx, q.ID)
	if gradeID == "" {
		return "", nil
	}

	record := &model.GradedAnswer{
		SessionID:         sessionID,
		SessionQuestionID: q.ID,
		UserAnswer:        answer,
		RemoteGradeID:     gradeID,
	}
	if err := s.Answers.RecordGrade(record); err != nil {
		// The remote grade exists; losing the local audit row is not fatal.
		logger.Log.Warn("failed to record graded answer",
			zap.String("session", sessionID), zap.String("question", q.ID), zap.Error(err))
	}
	return gradeID, nil
}

func (s *InterviewService) Complete(ctx context.Context, sessionID string, userID uint) error {
	return s.finish(ctx, sessionID, userID, model.SessionCompleted)
}

func (s *InterviewService) Abandon(ctx context.Context, sessionID string, userID uint) error {
	return s.finish(ctx, sessionID, userID, model.SessionAbandoned)
}

func (s *InterviewService) finish(ctx context.Context, sessionID string, userID uint, status string) error {
	ls, err := s.getLive(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	if err := s.Sessions.UpdateStatus(sessionID, status); err != nil {
		return err
	}
	ls.session.Status = status

	ls.answers.ClearSession(ctx)

	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *InterviewService) ListSessions(userID uint, page, limit int) ([]model.InterviewSession, int64, error) {
	return s.Sessions.ListByUser(userID, page, limit)
}

func (s *InterviewService) ListGradedAnswers(ctx context.Context, sessionID string, userID uint) ([]model.GradedAnswer, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if userID != 0 && session.UserID != userID {
		return nil, util.ErrSessionNotOwned
	}
	return s.Answers.ListBySession(sessionID)
}

func (s *InterviewService) viewOf(ls *liveSession) *SessionView {
	view := &SessionView{
		Session:       ls.session,
		Progress:      ls.nav.Progress(),
		Draft:         ls.answers.CurrentAnswer(),
		CanGoNext:     ls.nav.CanGoNext(),
		CanGoPrevious: ls.nav.CanGoPrevious(),
	}
	if q, ok := ls.nav.CurrentQuestion(); ok {
		view.Question = &q
	}
	if at, ok := ls.answers.LastSavedAt(); ok {
		view.LastSavedAt = &at
	}
	return view
}
