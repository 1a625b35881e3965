package interview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"adultna_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(id string, order int, general bool) model.SessionQuestion {
	sq := model.SessionQuestion{
		Text:      "question " + id,
		IsGeneral: general,
		Order:     order,
	}
	sq.ID = id
	return sq
}

func ids(qs []model.SessionQuestion) []string {
	out := make([]string, len(qs))
	for i, sq := range qs {
		out[i] = sq.ID
	}
	return out
}

func TestOrderQuestionsGeneralFirst(t *testing.T) {
	input := []model.SessionQuestion{
		q("s2", 2, false),
		q("g3", 3, true),
		q("s1", 1, false),
		q("g1", 1, true),
		q("g2", 2, true),
	}

	ordered := OrderQuestions(input)
	assert.Equal(t, []string{"g1", "g2", "g3", "s1", "s2"}, ids(ordered))

	// Caller's slice untouched.
	assert.Equal(t, "s2", input[0].ID)
}

func TestOrderQuestionsStable(t *testing.T) {
	input := []model.SessionQuestion{
		q("a", 1, true),
		q("b", 1, true),
		q("c", 1, true),
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(OrderQuestions(input)))
}

func TestEmptyListProgress(t *testing.T) {
	n := NewNavigator(nil, 0, nil)

	_, ok := n.CurrentQuestion()
	assert.False(t, ok)

	p := n.Progress()
	assert.Equal(t, 0, p.Total)
	assert.Zero(t, p.Percentage)

	assert.False(t, n.GoNext(context.Background()))
	assert.False(t, n.GoPrevious(context.Background()))
	assert.False(t, n.Skip())
}

func TestSingleQuestionBoundaries(t *testing.T) {
	n := NewNavigator([]model.SessionQuestion{q("only", 1, true)}, 0, nil)

	assert.True(t, n.IsFirstQuestion())
	assert.True(t, n.IsLastQuestion())
	assert.False(t, n.GoNext(context.Background()))
	assert.False(t, n.GoPrevious(context.Background()))

	p := n.Progress()
	assert.Equal(t, 1, p.Current)
	assert.Equal(t, 1, p.Total)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
}

func TestNavigationRunsHookWithOutgoingQuestion(t *testing.T) {
	var flushed []string
	hook := func(ctx context.Context, outgoing model.SessionQuestion) error {
		flushed = append(flushed, outgoing.ID)
		return nil
	}
	n := NewNavigator([]model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true), q("s1", 1, false),
	}, 0, hook)

	require.True(t, n.GoNext(context.Background()))
	require.True(t, n.GoNext(context.Background()))
	require.True(t, n.GoPrevious(context.Background()))
	assert.Equal(t, []string{"g1", "g2", "s1"}, flushed)
	assert.Equal(t, 1, n.CurrentIndex())
}

func TestSkipBypassesHook(t *testing.T) {
	hookCalls := 0
	n := NewNavigator([]model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true),
	}, 0, func(context.Context, model.SessionQuestion) error {
		hookCalls++
		return nil
	})

	require.True(t, n.Skip())
	assert.Zero(t, hookCalls)
	assert.Equal(t, 1, n.CurrentIndex())
}

func TestGoToQuestionBoundsChecked(t *testing.T) {
	n := NewNavigator([]model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true), q("s1", 1, false),
	}, 0, nil)

	assert.False(t, n.GoToQuestion(context.Background(), -1))
	assert.False(t, n.GoToQuestion(context.Background(), 3))
	assert.False(t, n.GoToQuestion(context.Background(), 0), "jump to current index is a no-op")
	assert.True(t, n.GoToQuestion(context.Background(), 2))
	assert.Equal(t, 2, n.CurrentIndex())
}

func TestGoToQuestionTargetsAbsoluteIndex(t *testing.T) {
	questions := []model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true), q("g3", 3, true),
		q("s1", 1, false), q("s2", 2, false),
	}
	n := NewNavigator(questions, 0, nil)

	// Churn relative moves against absolute jumps; a jump must never be
	// re-interpreted relative to an index that moved underneath it.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			n.Skip()
			n.GoPrevious(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			n.GoToQuestion(context.Background(), 3)
		}
	}()
	wg.Wait()

	idx := n.CurrentIndex()
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx, len(questions))

	target := (idx + 2) % len(questions)
	require.True(t, n.GoToQuestion(context.Background(), target))
	assert.Equal(t, target, n.CurrentIndex(), "an absolute jump lands exactly on the requested index")
}

func TestHookErrorAbortsNavigation(t *testing.T) {
	n := NewNavigator([]model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true),
	}, 0, func(context.Context, model.SessionQuestion) error {
		return errors.New("flush failed")
	})

	assert.False(t, n.GoNext(context.Background()))
	assert.Equal(t, 0, n.CurrentIndex())
}

func TestReentrantNavigationRefusedDuringHook(t *testing.T) {
	hookEntered := make(chan struct{})
	release := make(chan struct{})

	n := NewNavigator([]model.SessionQuestion{
		q("g1", 1, true), q("g2", 2, true), q("s1", 1, false),
	}, 0, func(context.Context, model.SessionQuestion) error {
		close(hookEntered)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	var first bool
	go func() {
		defer wg.Done()
		first = n.GoNext(context.Background())
	}()

	<-hookEntered
	assert.False(t, n.GoNext(context.Background()), "second navigation must no-op while the first hook is pending")
	close(release)
	wg.Wait()

	assert.True(t, first)
	assert.Equal(t, 1, n.CurrentIndex())
}

func TestInitialIndexClamped(t *testing.T) {
	n := NewNavigator([]model.SessionQuestion{q("g1", 1, true)}, 7, nil)
	assert.Equal(t, 0, n.CurrentIndex())
}
