package reviewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
)

type fakeStore struct {
	reviewers []interview.Reviewer
	pending   map[int64]int
	err       error
}

func (f *fakeStore) ActiveReviewersForPosition(_ context.Context, _ int64) ([]interview.Reviewer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviewers, nil
}

func (f *fakeStore) PendingScheduleCount(_ context.Context, reviewerID int64, _ time.Time) (int, error) {
	return f.pending[reviewerID], nil
}

func TestFindReviewerPicksLeastLoaded(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		reviewers: []interview.Reviewer{
			{ID: 1, FullName: "A"},
			{ID: 2, FullName: "B"},
			{ID: 3, FullName: "C"},
		},
		pending: map[int64]int{1: 3, 2: 1, 3: 2},
	}

	m := NewMatcher(store, nil)
	got, err := m.FindReviewer(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestFindReviewerTieBreaksOnSmallerID(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		reviewers: []interview.Reviewer{
			{ID: 9, FullName: "Nine"},
			{ID: 4, FullName: "Four"},
		},
		pending: map[int64]int{9: 2, 4: 2},
	}

	m := NewMatcher(store, nil)
	for i := 0; i < 5; i++ {
		got, err := m.FindReviewer(context.Background(), 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(4), got.ID)
	}
}

func TestFindReviewerNoneEligible(t *testing.T) {
	t.Parallel()

	m := NewMatcher(&fakeStore{}, nil)
	got, err := m.FindReviewer(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindReviewerStoreError(t *testing.T) {
	t.Parallel()

	m := NewMatcher(&fakeStore{err: errors.New("db down")}, nil)
	_, err := m.FindReviewer(context.Background(), 7)
	assert.Error(t, err)
}
