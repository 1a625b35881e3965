package interview

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"adultna_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeDraftStore struct {
	mu      sync.Mutex
	data    map[string]map[string]string
	loadErr error
	saveErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{data: make(map[string]map[string]string)}
}

func (f *fakeDraftStore) Load(_ context.Context, sessionID string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[string]string)
	for k, v := range f.data[sessionID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeDraftStore) Save(_ context.Context, sessionID string, drafts map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := make(map[string]string, len(drafts))
	for k, v := range drafts {
		copied[k] = v
	}
	f.data[sessionID] = copied
	return nil
}

func (f *fakeDraftStore) Clear(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, sessionID)
	return nil
}

type fakeGrader struct {
	mu      sync.Mutex
	calls   int
	err     error
	block   chan struct{} // when set, SubmitAnswer waits on it
	entered chan struct{} // when set, closed on first entry
}

func (f *fakeGrader) SubmitAnswer(_ context.Context, questionID, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	entered := f.entered
	f.entered = nil
	block := f.block
	err := f.err
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}
	return "grade-" + questionID, nil
}

func (f *fakeGrader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestEmptyAnswerNeverPersisted(t *testing.T) {
	store := newFakeDraftStore()
	a := NewAnswerStore(context.Background(), "sess-1", store, &fakeGrader{})

	a.SetCurrentAnswer("")
	a.SaveCurrentAnswer(context.Background(), "q1")
	a.SetCurrentAnswer("   ")
	a.SaveCurrentAnswer(context.Background(), "q1")

	_, ok := a.Draft("q1")
	assert.False(t, ok)
	_, saved := a.LastSavedAt()
	assert.False(t, saved)
	assert.Empty(t, store.data["sess-1"])
}

func TestSaveAndReloadDraft(t *testing.T) {
	store := newFakeDraftStore()
	a := NewAnswerStore(context.Background(), "sess-1", store, &fakeGrader{})

	a.SetCurrentAnswer("  my answer  ")
	a.SaveCurrentAnswer(context.Background(), "q1")

	draft, ok := a.Draft("q1")
	require.True(t, ok)
	assert.Equal(t, "my answer", draft)
	_, saved := a.LastSavedAt()
	assert.True(t, saved)

	// Switching questions repopulates the buffer from the durable map.
	assert.Equal(t, "", a.LoadAnswerForQuestion("q2"))
	assert.Equal(t, "my answer", a.LoadAnswerForQuestion("q1"))
	assert.Equal(t, "my answer", a.CurrentAnswer())
}

func TestDraftsSurviveReload(t *testing.T) {
	store := newFakeDraftStore()
	a := NewAnswerStore(context.Background(), "sess-1", store, &fakeGrader{})
	a.SetCurrentAnswer("persisted")
	a.SaveCurrentAnswer(context.Background(), "q1")

	// A second store for the same session sees the committed draft.
	b := NewAnswerStore(context.Background(), "sess-1", store, &fakeGrader{})
	assert.Equal(t, "persisted", b.LoadAnswerForQuestion("q1"))
}

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	store := newFakeDraftStore()
	store.loadErr = errors.New("redis down")

	a := NewAnswerStore(context.Background(), "sess-1", store, &fakeGrader{})
	assert.Equal(t, "", a.LoadAnswerForQuestion("q1"))
}

func TestSubmitForGradingHappyPath(t *testing.T) {
	grader := &fakeGrader{}
	a := NewAnswerStore(context.Background(), "sess-1", newFakeDraftStore(), grader)

	a.SetCurrentAnswer("final answer")
	id := a.SubmitForGrading(context.Background(), "q1")
	assert.Equal(t, "grade-q1", id)

	recorded, ok := a.SubmittedGradeID("q1")
	require.True(t, ok)
	assert.Equal(t, "grade-q1", recorded)
}

func TestSubmitEmptyAnswerSkipsCall(t *testing.T) {
	grader := &fakeGrader{}
	a := NewAnswerStore(context.Background(), "sess-1", newFakeDraftStore(), grader)

	a.SetCurrentAnswer("   ")
	assert.Equal(t, "", a.SubmitForGrading(context.Background(), "q1"))
	assert.Zero(t, grader.callCount())
}

func TestDuplicateSubmissionGuard(t *testing.T) {
	grader := &fakeGrader{
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	a := NewAnswerStore(context.Background(), "sess-1", newFakeDraftStore(), grader)
	a.SetCurrentAnswer("answer")

	done := make(chan string, 1)
	go func() {
		done <- a.SubmitForGrading(context.Background(), "q1")
	}()
	<-grader.entered

	// The second submission returns immediately with no second outbound call,
	// even though the first is still in flight.
	assert.Equal(t, "", a.SubmitForGrading(context.Background(), "q1"))
	assert.Equal(t, 1, grader.callCount())

	close(grader.block)
	assert.Equal(t, "grade-q1", <-done)

	// And again after the first completed.
	assert.Equal(t, "", a.SubmitForGrading(context.Background(), "q1"))
	assert.Equal(t, 1, grader.callCount())
}

func TestFailedSubmissionReleasesReservation(t *testing.T) {
	grader := &fakeGrader{err: errors.New("grading service unavailable")}
	a := NewAnswerStore(context.Background(), "sess-1", newFakeDraftStore(), grader)
	a.SetCurrentAnswer("answer")

	assert.Equal(t, "", a.SubmitForGrading(context.Background(), "q1"))
	_, ok := a.SubmittedGradeID("q1")
	assert.False(t, ok)

	grader.mu.Lock()
	grader.err = nil
	grader.mu.Unlock()

	assert.Equal(t, "grade-q1", a.SubmitForGrading(context.Background(), "q1"))
	assert.Equal(t, 2, grader.callCount())
}

func TestClearSessionIsTotal(t *testing.T) {
	store := newFakeDraftStore()
	grader := &fakeGrader{}
	a := NewAnswerStore(context.Background(), "sess-1", store, grader)

	a.SetCurrentAnswer("answer one")
	a.SaveCurrentAnswer(context.Background(), "q1")
	a.SubmitForGrading(context.Background(), "q1")

	a.ClearSession(context.Background())

	assert.Equal(t, "", a.CurrentAnswer())
	_, ok := a.Draft("q1")
	assert.False(t, ok)
	_, ok = a.SubmittedGradeID("q1")
	assert.False(t, ok)
	_, saved := a.LastSavedAt()
	assert.False(t, saved)

	drafts, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestLastSavedAtAdvances(t *testing.T) {
	a := NewAnswerStore(context.Background(), "sess-1", newFakeDraftStore(), &fakeGrader{})

	a.SetCurrentAnswer("first")
	a.SaveCurrentAnswer(context.Background(), "q1")
	first, ok := a.LastSavedAt()
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	a.SetCurrentAnswer("second")
	a.SaveCurrentAnswer(context.Background(), "q2")
	second, _ := a.LastSavedAt()
	assert.True(t, second.After(first))
}
