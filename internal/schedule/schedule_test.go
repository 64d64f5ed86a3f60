package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
)

type fakeStore struct {
	created []interview.Schedule
}

func (f *fakeStore) CreateSchedule(_ context.Context, s interview.Schedule) (int64, error) {
	f.created = append(f.created, s)
	return int64(len(f.created)), nil
}

func TestNextRoundStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 18, 45, 12, 0, time.Local)
	start := NextRoundStart(now)

	assert.Equal(t, time.Date(2025, 3, 16, 10, 0, 0, 0, time.Local), start)
}

func TestCreateNextRound(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local) }

	got, err := svc.CreateNextRound(context.Background(), 11, 22, 33)
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, int64(11), got.CandidateID)
	assert.Equal(t, int64(22), got.ReviewerID)
	assert.Equal(t, int64(33), got.PositionID)
	assert.Equal(t, time.Date(2025, 3, 16, 10, 0, 0, 0, time.Local), got.StartTime)
	assert.NotEmpty(t, got.Note)
}
