package entities

import "time"

type ResolutionStatus string

const (
	StatusOpen         ResolutionStatus = "open"
	StatusClosed       ResolutionStatus = "closed"
	StatusStaffDecided ResolutionStatus = "staff_decided"
)

// Terminal reports whether the status admits no further transitions.
func (s ResolutionStatus) Terminal() bool {
	return s == StatusClosed || s == StatusStaffDecided
}

// StaffDecision records a privileged override. When set, the owning
// resolution's status is staff_decided and the outcome is final.
type StaffDecision struct {
	By     string
	Reason string
}

type SubjectVote struct {
	VoteID          string
	Title           string
	Description     string
	ProjectID       string
	CreatorID       string
	Status          ResolutionStatus
	WinningOptionID string
	StaffDecision   *StaffDecision
	CreatedAt       time.Time
	ClosedAt        *time.Time
}

// Option is one of a subject vote's N free-text choices. VoteCount is a
// materialized tally equal to the number of ballots currently pointing at it.
type Option struct {
	OptionID  string
	VoteID    string
	Text      string
	VoteCount int
}

// Ballot is one principal's current choice within a subject vote. At most one
// ballot exists per (vote, principal); re-casting moves it.
type Ballot struct {
	BallotID  string
	VoteID    string
	OptionID  string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
