package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/contact"
)

type scriptedLLM struct{}

func (scriptedLLM) Complete(_ context.Context, _ string, _ []ai.Turn, message string) (string, error) {
	return "(nói) " + message, nil
}

type fakeConsole struct {
	replies []string
	said    []string
}

func (c *fakeConsole) Say(text string) { c.said = append(c.said, text) }

func (c *fakeConsole) Read() (string, error) {
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func (c *fakeConsole) saidContaining(substr string) bool {
	for _, s := range c.said {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, text string) contact.Info {
	return contact.ExtractFallback(text)
}

type fakeResolver struct {
	level int
}

func (r fakeResolver) Position(_ context.Context, reply string, allowed []string) string {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(reply), a) {
			return a
		}
	}
	return ""
}

func (r fakeResolver) Level(context.Context, string) int { return r.level }

type fakeScorer struct {
	fullCredit bool
}

func (s fakeScorer) Score(_ context.Context, _ string, q Question) (float64, string) {
	if s.fullCredit {
		return max(1, q.Weight), "Tốt, bao phủ phần lớn ý."
	}
	return 0, "Chưa chạm ý chính."
}

type fakeStore struct {
	positions []Position
	questions []Question

	candidate Candidate
	answers   []Answer
	sessionID int64

	finalScore  float64
	finalResult Result
	finalized   bool
}

func (f *fakeStore) ActivePositionNames(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.positions))
	for _, p := range f.positions {
		names = append(names, p.Name)
	}
	return names, nil
}

func (f *fakeStore) AllPositions(context.Context) ([]Position, error) {
	return f.positions, nil
}

func (f *fakeStore) QuestionsFor(_ context.Context, positionID int64, level, limit int) ([]Question, error) {
	out := make([]Question, 0, limit)
	for _, q := range f.questions {
		if q.PositionID == positionID && q.Level == level && len(out) < limit {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertCandidate(_ context.Context, c Candidate) (int64, error) {
	f.candidate = c
	return 7, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s Session) (int64, error) {
	f.sessionID = 11
	return f.sessionID, nil
}

func (f *fakeStore) FinalizeSession(_ context.Context, sessionID int64, score float64, result Result) error {
	f.finalized = true
	f.finalScore = score
	f.finalResult = result
	return nil
}

func (f *fakeStore) InsertAnswer(_ context.Context, a Answer) error {
	f.answers = append(f.answers, a)
	return nil
}

type fakeReviewers struct {
	reviewer *Reviewer
	calls    int
}

func (f *fakeReviewers) FindReviewer(context.Context, int64) (*Reviewer, error) {
	f.calls++
	return f.reviewer, nil
}

type fakeScheduler struct {
	calls int
	start time.Time
}

func (f *fakeScheduler) CreateNextRound(_ context.Context, candidateID, reviewerID, positionID int64) (*Schedule, error) {
	f.calls++
	return &Schedule{
		ID:          1,
		CandidateID: candidateID,
		ReviewerID:  reviewerID,
		PositionID:  positionID,
		StartTime:   f.start,
	}, nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeNotifier struct {
	sent []sentMail
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, _ string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

func testQuestions() []Question {
	return []Question{
		{ID: 1, PositionID: 3, Level: 2, Text: "Giải thích goroutine.", Weight: 10, KeywordsCSV: "goroutine", ModelAnswer: "Goroutine là luồng nhẹ."},
		{ID: 2, PositionID: 3, Level: 2, Text: "Channel dùng để làm gì?", Weight: 10, KeywordsCSV: "channel", ModelAnswer: "Giao tiếp giữa goroutine."},
		{ID: 3, PositionID: 3, Level: 2, Text: "Slice khác array thế nào?", Weight: 10, KeywordsCSV: "slice", ModelAnswer: "Slice trỏ vào mảng nền."},
	}
}

func newRunFixture(scorer Scorer, reviewer *Reviewer) (*Orchestrator, *fakeStore, *fakeConsole, *fakeReviewers, *fakeScheduler, *fakeNotifier) {
	store := &fakeStore{
		positions: []Position{{ID: 3, Name: "AI Engineer", Description: "Xây dựng hệ thống AI.", RequiredSkillsCSV: "Python,Go"}},
		questions: testQuestions(),
	}
	console := &fakeConsole{
		replies: []string{
			"Tôi tên Nguyen Van A, email a@x.com, sdt 0901234567",
			"AI Engineer",
			"junior",
			"câu trả lời 1",
			"câu trả lời 2",
			"câu trả lời 3",
		},
	}
	reviewers := &fakeReviewers{reviewer: reviewer}
	scheduler := &fakeScheduler{start: time.Date(2025, 7, 3, 10, 0, 0, 0, time.Local)}
	notifier := &fakeNotifier{}

	o, err := New(
		Config{},
		Deps{
			LLM:       scriptedLLM{},
			Store:     store,
			Contacts:  fakeExtractor{},
			Resolver:  fakeResolver{level: 2},
			Scorer:    scorer,
			Reviewers: reviewers,
			Scheduler: scheduler,
			Notifier:  notifier,
			Console:   console,
		},
	)
	if err != nil {
		panic(err)
	}
	return o, store, console, reviewers, scheduler, notifier
}

func TestRunFullCoveragePassesAndSchedules(t *testing.T) {
	rev := &Reviewer{ID: 2, FullName: "Tran Thi B", Email: "b@asoft.vn", Active: true}
	o, store, console, reviewers, scheduler, notifier := newRunFixture(fakeScorer{fullCredit: true}, rev)

	require.NoError(t, o.Run(context.Background()))

	require.True(t, store.finalized)
	assert.Equal(t, 100.0, store.finalScore)
	assert.Equal(t, ResultPass, store.finalResult)

	require.Len(t, store.answers, 3)
	for _, a := range store.answers {
		assert.Equal(t, int64(11), a.SessionID)
		assert.Contains(t, a.Comment, " | Gợi ý: ")
	}

	assert.Equal(t, "Nguyen Van A", store.candidate.FullName)
	assert.Equal(t, "a@x.com", store.candidate.Email)
	assert.Equal(t, "0901234567", store.candidate.Phone)

	assert.Equal(t, 1, reviewers.calls)
	assert.Equal(t, 1, scheduler.calls)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "a@x.com", notifier.sent[0].to)
	assert.Equal(t, "b@asoft.vn", notifier.sent[1].to)

	assert.True(t, console.saidContaining("AI Engineer"))
}

func TestRunZeroScoresFailWithoutScheduling(t *testing.T) {
	o, store, console, reviewers, scheduler, notifier := newRunFixture(fakeScorer{}, nil)

	require.NoError(t, o.Run(context.Background()))

	require.True(t, store.finalized)
	assert.Equal(t, 0.0, store.finalScore)
	assert.Equal(t, ResultFail, store.finalResult)

	assert.Zero(t, reviewers.calls)
	assert.Zero(t, scheduler.calls)
	assert.Empty(t, notifier.sent)
	assert.True(t, console.saidContaining("Đừng nản lòng"))
}

func TestRunPassWithoutReviewerApologizes(t *testing.T) {
	o, store, console, _, scheduler, notifier := newRunFixture(fakeScorer{fullCredit: true}, nil)

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, ResultPass, store.finalResult)
	assert.Zero(t, scheduler.calls)
	assert.Empty(t, notifier.sent)
	assert.True(t, console.saidContaining("lịch của ban phỏng vấn đang kín"))
}

func TestRunGivesUpOnUnresolvedPosition(t *testing.T) {
	o, store, console, _, _, _ := newRunFixture(fakeScorer{}, nil)
	console.replies = []string{
		"Tôi tên Nguyen Van A, email a@x.com, sdt 0901234567",
		"vị trí gì cũng được",
		"thật sự không biết",
	}

	require.NoError(t, o.Run(context.Background()))

	assert.False(t, store.finalized)
	assert.True(t, console.saidContaining("chưa xác định được vị trí"))
}

func TestRunGivesUpWhenContactStaysIncomplete(t *testing.T) {
	o, store, console, reviewers, scheduler, notifier := newRunFixture(fakeScorer{fullCredit: true}, nil)
	console.replies = []string{
		"Nguyen Van A, a@x.com",
		"mình không tiện chia sẻ",
		"mình không tiện chia sẻ",
		"mình không tiện chia sẻ",
		"mình không tiện chia sẻ",
		"mình không tiện chia sẻ",
	}

	require.NoError(t, o.Run(context.Background()))

	assert.True(t, console.saidContaining("chưa nhận đủ thông tin liên hệ"))
	assert.Empty(t, store.candidate.Email)
	assert.Zero(t, store.sessionID)
	assert.False(t, store.finalized)
	assert.Zero(t, reviewers.calls)
	assert.Zero(t, scheduler.calls)
	assert.Empty(t, notifier.sent)
}

func TestRunRetriesMissingContactFields(t *testing.T) {
	o, store, console, _, _, _ := newRunFixture(fakeScorer{fullCredit: true}, nil)
	console.replies = []string{
		"0901234567",
		"Nguyen Van A",
		"a@x.com",
		"AI Engineer",
		"junior",
		"câu trả lời 1",
		"câu trả lời 2",
		"câu trả lời 3",
	}

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, "Nguyen Van A", store.candidate.FullName)
	assert.Equal(t, "a@x.com", store.candidate.Email)
	assert.Equal(t, "0901234567", store.candidate.Phone)
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	_, err := New(Config{}, Deps{})
	require.Error(t, err)
}
