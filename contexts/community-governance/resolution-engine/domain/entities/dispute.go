package entities

import "time"

type DisputeSide string

const (
	SideCorrector DisputeSide = "corrector"
	SideCorrected DisputeSide = "corrected"
)

func (s DisputeSide) Valid() bool {
	return s == SideCorrector || s == SideCorrected
}

// Opposite returns the other party of the dispute.
func (s DisputeSide) Opposite() DisputeSide {
	if s == SideCorrector {
		return SideCorrected
	}
	return SideCorrector
}

type Dispute struct {
	DisputeID      string
	Title          string
	Description    string
	ProjectID      string
	CorrectorID    string
	CorrectedID    string
	CreatorID      string
	Status         ResolutionStatus
	Winner         DisputeSide // empty until closed with a non-tied tally or staff-decided
	CorrectorVotes int
	CorrectedVotes int
	StaffDecision  *StaffDecision
	CreatedAt      time.Time
	ClosedAt       *time.Time
}

// TallyWinner derives the winner from the current counters. Empty on a tie.
func (d Dispute) TallyWinner() DisputeSide {
	switch {
	case d.CorrectorVotes > d.CorrectedVotes:
		return SideCorrector
	case d.CorrectedVotes > d.CorrectorVotes:
		return SideCorrected
	default:
		return ""
	}
}

// DisputeBallot is one principal's current side within a dispute. At most one
// ballot exists per (dispute, principal).
type DisputeBallot struct {
	BallotID  string
	DisputeID string
	UserID    string
	Side      DisputeSide
	CreatedAt time.Time
	UpdatedAt time.Time
}
