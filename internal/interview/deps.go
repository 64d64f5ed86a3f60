package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/contact"
)

// Store is the persistence collaborator. Writes are independent steps: a
// failure partway through a run does not roll back earlier writes.
type Store interface {
	// ActivePositionNames returns the open position names, trimmed,
	// case-insensitively deduplicated and in stable order.
	ActivePositionNames(ctx context.Context) ([]string, error)
	// AllPositions returns every position record.
	AllPositions(ctx context.Context) ([]Position, error)
	// QuestionsFor returns up to limit questions for the position and
	// level, in question id order.
	QuestionsFor(ctx context.Context, positionID int64, level, limit int) ([]Question, error)
	// UpsertCandidate creates the candidate keyed by email or fills the
	// empty fields of an existing record, returning its id. Populated
	// stored fields are never overwritten.
	UpsertCandidate(ctx context.Context, c Candidate) (int64, error)
	// CreateSession inserts a new session row and returns its id.
	CreateSession(ctx context.Context, s Session) (int64, error)
	// FinalizeSession stores the final percentage and result.
	FinalizeSession(ctx context.Context, sessionID int64, score float64, result Result) error
	// InsertAnswer persists one scored answer.
	InsertAnswer(ctx context.Context, a Answer) error
}

// ContactExtractor resolves contact details from one free-text reply.
type ContactExtractor interface {
	Extract(ctx context.Context, text string) contact.Info
}

// EntityResolver maps free text onto a known position name or level.
type EntityResolver interface {
	Position(ctx context.Context, reply string, allowed []string) string
	Level(ctx context.Context, reply string) int
}

// Scorer evaluates one answer against one question.
type Scorer interface {
	Score(ctx context.Context, answer string, q Question) (float64, string)
}

// ReviewerFinder selects a reviewer for the second round, nil when none
// is eligible.
type ReviewerFinder interface {
	FindReviewer(ctx context.Context, positionID int64) (*Reviewer, error)
}

// Scheduler books the second-round slot.
type Scheduler interface {
	CreateNextRound(ctx context.Context, candidateID, reviewerID, positionID int64) (*Schedule, error)
}

// Notifier delivers outcome notifications.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Console is the interactive shell: assistant output and one line of
// free text per candidate turn.
type Console interface {
	Say(text string)
	Read() (string, error)
}

// Deps aggregates every collaborator the orchestrator drives.
type Deps struct {
	LLM       ai.Completer
	Store     Store
	Contacts  ContactExtractor
	Resolver  EntityResolver
	Scorer    Scorer
	Reviewers ReviewerFinder
	Scheduler Scheduler
	Notifier  Notifier
	Console   Console
	Logger    *zap.Logger
}
