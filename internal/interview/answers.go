package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"adultna_backend/pkg/logger"

	"go.uber.org/zap"
)

// DraftStore is the durable client-side draft map, keyed by session ID.
// Failures degrade to an empty map and are never surfaced to callers.
type DraftStore interface {
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	Save(ctx context.Context, sessionID string, drafts map[string]string) error
	Clear(ctx context.Context, sessionID string) error
}

// GradingClient submits a finalized answer to the external grading service
// and returns the opaque graded-answer ID.
type GradingClient interface {
	SubmitAnswer(ctx context.Context, sessionQuestionID, userAnswer string) (string, error)
}

// AnswerStore owns the in-progress answer buffer and the per-session draft
// map for one interview session. Grading submissions are best-effort: a
// failure is logged and reported as an empty ID, never as an error, so the
// candidate is free to move on regardless.
type AnswerStore struct {
	mu        sync.Mutex
	sessionID string
	store     DraftStore
	grader    GradingClient

	current     string
	drafts      map[string]string
	submitted   map[string]string // question ID -> remote grade ID; "" while in flight
	lastSavedAt time.Time
}

func NewAnswerStore(ctx context.Context, sessionID string, store DraftStore, grader GradingClient) *AnswerStore {
	drafts, err := store.Load(ctx, sessionID)
	if err != nil {
		logger.Log.Warn("draft load failed, starting empty",
			zap.String("session", sessionID), zap.Error(err))
		drafts = nil
	}
	if drafts == nil {
		drafts = make(map[string]string)
	}
	return &AnswerStore{
		sessionID: sessionID,
		store:     store,
		grader:    grader,
		drafts:    drafts,
		submitted: make(map[string]string),
	}
}

// SetCurrentAnswer replaces the in-memory buffer only; nothing is persisted
// until SaveCurrentAnswer.
func (a *AnswerStore) SetCurrentAnswer(text string) {
	a.mu.Lock()
	a.current = text
	a.mu.Unlock()
}

func (a *AnswerStore) CurrentAnswer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// SaveCurrentAnswer commits the buffer into the durable map under questionID.
// Empty or whitespace-only buffers are never persisted.
func (a *AnswerStore) SaveCurrentAnswer(ctx context.Context, questionID string) {
	a.mu.Lock()
	trimmed := strings.TrimSpace(a.current)
	if trimmed == "" {
		a.mu.Unlock()
		return
	}
	a.drafts[questionID] = trimmed
	a.lastSavedAt = time.Now()
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	if err := a.store.Save(ctx, a.sessionID, snapshot); err != nil {
		logger.Log.Warn("draft save failed",
			zap.String("session", a.sessionID), zap.String("question", questionID), zap.Error(err))
	}
}

// LoadAnswerForQuestion repopulates the buffer from the durable map, or with
// an empty string if no draft exists. Called whenever navigation lands on a
// question so the correct draft is always shown.
func (a *AnswerStore) LoadAnswerForQuestion(questionID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = a.drafts[questionID]
	return a.current
}

// Draft reports the saved draft for a question without touching the buffer.
func (a *AnswerStore) Draft(questionID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	text, ok := a.drafts[questionID]
	return text, ok
}

// SubmitForGrading sends the current buffer to the grading service. It
// returns "" without any outbound call when the trimmed buffer is empty or
// the question was already submitted; the reservation is taken in the same
// critical section as the guard check, so two quick submissions produce
// exactly one outbound call. A failed call releases the reservation so the
// question may be retried later.
func (a *AnswerStore) SubmitForGrading(ctx context.Context, questionID string) string {
	a.mu.Lock()
	answer := strings.TrimSpace(a.current)
	if answer == "" {
		a.mu.Unlock()
		return ""
	}
	if _, dup := a.submitted[questionID]; dup {
		a.mu.Unlock()
		return ""
	}
	a.submitted[questionID] = ""
	a.mu.Unlock()

	gradeID, err := a.grader.SubmitAnswer(ctx, questionID, answer)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		delete(a.submitted, questionID)
		logger.Log.Warn("grading submission failed",
			zap.String("session", a.sessionID), zap.String("question", questionID), zap.Error(err))
		return ""
	}
	a.submitted[questionID] = gradeID
	return gradeID
}

// SubmittedGradeID reports the remote grade ID recorded for a question.
func (a *AnswerStore) SubmittedGradeID(questionID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.submitted[questionID]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// LastSavedAt returns the time of the most recent draft commit; ok is false
// when nothing has been saved yet.
func (a *AnswerStore) LastSavedAt() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSavedAt, !a.lastSavedAt.IsZero()
}

// ClearSession erases the durable map and resets all in-memory state. Used
// when the interview is abandoned or completed.
func (a *AnswerStore) ClearSession(ctx context.Context) {
	a.mu.Lock()
	a.current = ""
	a.drafts = make(map[string]string)
	a.submitted = make(map[string]string)
	a.lastSavedAt = time.Time{}
	a.mu.Unlock()

	if err := a.store.Clear(ctx, a.sessionID); err != nil {
		logger.Log.Warn("draft clear failed",
			zap.String("session", a.sessionID), zap.Error(err))
	}
}

func (a *AnswerStore) snapshotLocked() map[string]string {
	snapshot := make(map[string]string, len(a.drafts))
	for k, v := range a.drafts {
		snapshot[k] = v
	}
	return snapshot
}
