// Package reviewer assigns the second interview round to a human
// reviewer using a least-loaded greedy heuristic.
package reviewer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
)

// Store is the persistence surface the matcher needs.
type Store interface {
	// ActiveReviewersForPosition returns the active reviewers eligible
	// for the position.
	ActiveReviewersForPosition(ctx context.Context, positionID int64) ([]interview.Reviewer, error)
	// PendingScheduleCount counts a reviewer's schedule entries starting
	// at or after the given time.
	PendingScheduleCount(ctx context.Context, reviewerID int64, from time.Time) (int, error)
}

// Matcher selects reviewers for passed candidates.
type Matcher struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewMatcher creates a Matcher.
func NewMatcher(store Store, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{store: store, logger: logger, now: time.Now}
}

type reviewerLoad struct {
	reviewer interview.Reviewer
	pending  int
}

// FindReviewer returns the eligible reviewer with the fewest pending
// future schedules, or nil when nobody is eligible. Ties break on the
// smaller reviewer id so repeated calls with identical data are
// deterministic.
func (m *Matcher) FindReviewer(ctx context.Context, positionID int64) (*interview.Reviewer, error) {
	reviewers, err := m.store.ActiveReviewersForPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("list reviewers for position %d: %w", positionID, err)
	}
	if len(reviewers) == 0 {
		return nil, nil
	}

	now := m.now()
	loads := make([]reviewerLoad, 0, len(reviewers))
	for _, r := range reviewers {
		pending, err := m.store.PendingScheduleCount(ctx, r.ID, now)
		if err != nil {
			return nil, fmt.Errorf("count pending schedules for reviewer %d: %w", r.ID, err)
		}
		loads = append(loads, reviewerLoad{reviewer: r, pending: pending})
	}

	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].pending != loads[j].pending {
			return loads[i].pending < loads[j].pending
		}
		return loads[i].reviewer.ID < loads[j].reviewer.ID
	})

	picked := loads[0].reviewer
	m.logger.Debug("reviewer selected",
		zap.Int64("reviewer_id", picked.ID),
		zap.Int("pending_schedules", loads[0].pending),
		zap.Int("eligible", len(loads)),
	)

	return &picked, nil
}
