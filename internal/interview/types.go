// Package interview holds the interview domain model and the dialogue
// orchestrator that drives a full candidate session.
package interview

import "time"

// Result of a finished interview session.
type Result string

const (
	ResultNone Result = "None"
	ResultPass Result = "Pass"
	ResultFail Result = "Fail"
)

// Position is an open job position with its public description.
type Position struct {
	ID                int64
	Name              string
	Description       string
	RequiredSkillsCSV string
}

// Question is one interview question for a position and level. Immutable
// once fetched for a session.
type Question struct {
	ID          int64
	PositionID  int64
	Level       int
	Text        string
	Weight      float64
	KeywordsCSV string
	ModelAnswer string
}

// Candidate is the person being interviewed, keyed by email.
type Candidate struct {
	ID       int64
	FullName string
	Email    string
	Phone    string
}

// Session is one interview run for a candidate, position and level.
type Session struct {
	ID          int64
	CandidateID int64
	PositionID  int64
	Level       int
	Score       float64
	Result      Result
	CreatedAt   time.Time
}

// Answer is a scored candidate reply to one question.
type Answer struct {
	ID         int64
	SessionID  int64
	QuestionID int64
	Content    string
	Score      float64
	Comment    string
	CreatedAt  time.Time
}

// Reviewer is a human interviewer eligible for the second round.
type Reviewer struct {
	ID       int64
	FullName string
	Email    string
	Active   bool
}

// Schedule is a booked second-round interview slot.
type Schedule struct {
	ID          int64
	CandidateID int64
	ReviewerID  int64
	PositionID  int64
	StartTime   time.Time
	Note        string
}

// Outcome summarizes a finished session.
type Outcome struct {
	// Percentage in [0, 100] with two decimal places.
	Percentage float64
	Result     Result
}
