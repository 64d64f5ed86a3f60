// Package schedule books the second interview round.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
)

const (
	// nextRoundOffsetDays and nextRoundHour fix the policy: two days
	// from now at 10:00 local time.
	nextRoundOffsetDays = 2
	nextRoundHour       = 10

	nextRoundNote = "Phỏng vấn vòng 2 (tự động tạo bởi AI Agent)"
)

// Store persists schedule entries.
type Store interface {
	CreateSchedule(ctx context.Context, s interview.Schedule) (int64, error)
}

// Service creates next-round schedules.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NextRoundStart computes the start of the next round relative to now.
func NextRoundStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, nextRoundOffsetDays).Add(nextRoundHour * time.Hour)
}

// CreateNextRound books the follow-up slot for the candidate and reviewer
// and returns the persisted schedule.
func (s *Service) CreateNextRound(ctx context.Context, candidateID, reviewerID, positionID int64) (*interview.Schedule, error) {
	entry := interview.Schedule{
		CandidateID: candidateID,
		ReviewerID:  reviewerID,
		PositionID:  positionID,
		StartTime:   NextRoundStart(s.now()),
		Note:        nextRoundNote,
	}

	id, err := s.store.CreateSchedule(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create next round schedule: %w", err)
	}
	entry.ID = id

	return &entry, nil
}
