package interview

import (
	"context"
	"sort"
	"sync"

	"adultna_backend/internal/model"
)

// BeforeNavigateFunc runs before the navigator leaves a question, giving the
// caller a chance to flush the outgoing answer draft. A non-nil error aborts
// the move.
type BeforeNavigateFunc func(ctx context.Context, outgoing model.SessionQuestion) error

// Progress is the 1-based position projection shown to the candidate.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// OrderQuestions derives the presentation order: all general questions before
// all role-specific ones, each group ascending by Order. The input slice is
// never mutated and the derivation is stable, so equal inputs always yield the
// same sequence.
func OrderQuestions(questions []model.SessionQuestion) []model.SessionQuestion {
	ordered := make([]model.SessionQuestion, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsGeneral != ordered[j].IsGeneral {
			return ordered[i].IsGeneral
		}
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// Navigator steps through an ordered interview question list. Out-of-range
// moves are silent no-ops so handlers need no boundary guards, and a
// navigation that is still running its before-navigate hook blocks reentrant
// moves instead of racing them.
type Navigator struct {
	mu             sync.Mutex
	questions      []model.SessionQuestion
	index          int
	inFlight       bool
	beforeNavigate BeforeNavigateFunc
}

func NewNavigator(questions []model.SessionQuestion, initialIndex int, hook BeforeNavigateFunc) *Navigator {
	ordered := OrderQuestions(questions)
	if initialIndex < 0 || initialIndex >= len(ordered) {
		initialIndex = 0
	}
	return &Navigator{
		questions:      ordered,
		index:          initialIndex,
		beforeNavigate: hook,
	}
}

func (n *Navigator) CurrentQuestion() (model.SessionQuestion, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.questions) == 0 {
		return model.SessionQuestion{}, false
	}
	return n.questions[n.index], true
}

func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

func (n *Navigator) Progress() Progress {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := len(n.questions)
	if total == 0 {
		return Progress{}
	}
	current := n.index + 1
	return Progress{
		Current:    current,
		Total:      total,
		Percentage: float64(current) / float64(total) * 100,
	}
}

func (n *Navigator) CanGoNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index+1 < len(n.questions)
}

func (n *Navigator) CanGoPrevious() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0 && len(n.questions) > 0
}

func (n *Navigator) IsFirstQuestion() bool {
	return !n.CanGoPrevious()
}

func (n *Navigator) IsLastQuestion() bool {
	return !n.CanGoNext()
}

// GoNext moves to the next question after running the before-navigate hook.
// Returns whether the index moved.
func (n *Navigator) GoNext(ctx context.Context) bool {
	return n.navigate(ctx, func(i int) int { return i + 1 }, true)
}

// GoPrevious moves to the previous question after running the hook.
func (n *Navigator) GoPrevious(ctx context.Context) bool {
	return n.navigate(ctx, func(i int) int { return i - 1 }, true)
}

// Skip advances without the hook; the outgoing draft is intentionally
// discarded.
func (n *Navigator) Skip() bool {
	return n.navigate(context.Background(), func(i int) int { return i + 1 }, false)
}

// GoToQuestion jumps to an absolute index, hook included. Out-of-range
// indices and the current index are silently ignored.
func (n *Navigator) GoToQuestion(ctx context.Context, index int) bool {
	return n.navigate(ctx, func(int) int { return index }, true)
}

// navigate resolves the target from the current index under the lock, so an
// absolute jump lands on the requested index even when other moves interleave
// with it.
func (n *Navigator) navigate(ctx context.Context, resolve func(current int) int, runHook bool) bool {
	n.mu.Lock()
	if n.inFlight {
		n.mu.Unlock()
		return false
	}
	target := resolve(n.index)
	if target == n.index || target < 0 || target >= len(n.questions) {
		n.mu.Unlock()
		return false
	}
	outgoing := n.questions[n.index]
	hook := n.beforeNavigate

	if runHook && hook != nil {
		// Hold the in-flight guard, not the lock, across the hook so state
		// reads stay possible while reentrant navigation is refused.
		n.inFlight = true
		n.mu.Unlock()
		err := hook(ctx, outgoing)
		n.mu.Lock()
		n.inFlight = false
		if err != nil {
			n.mu.Unlock()
			return false
		}
	}

	n.index = target
	n.mu.Unlock()
	return true
}
