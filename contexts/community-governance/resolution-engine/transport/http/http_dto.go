package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSubjectVoteRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id"`
	Options     []string `json:"options"`
}

type EditSubjectVoteRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type CastBallotRequest struct {
	OptionID string `json:"option_id"`
}

type StaffDecideSubjectVoteRequest struct {
	WinningOptionID string `json:"winning_option_id"`
	Reason          string `json:"reason,omitempty"`
}

type OptionResponse struct {
	OptionID  string `json:"option_id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count"`
}

type StaffDecisionResponse struct {
	By     string `json:"by"`
	Reason string `json:"reason,omitempty"`
}

type SubjectVoteResponse struct {
	VoteID          string                 `json:"vote_id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	ProjectID       string                 `json:"project_id"`
	CreatorID       string                 `json:"creator_id"`
	Status          string                 `json:"status"`
	WinningOptionID string                 `json:"winning_option_id,omitempty"`
	Options         []OptionResponse       `json:"options,omitempty"`
	StaffDecision   *StaffDecisionResponse `json:"staff_decision,omitempty"`
	CreatedAt       string                 `json:"created_at"`
	ClosedAt        string                 `json:"closed_at,omitempty"`
}

type SubjectVoteListResponse struct {
	Items []SubjectVoteResponse `json:"items"`
}

type BallotResponse struct {
	BallotID string `json:"ballot_id"`
	VoteID   string `json:"vote_id"`
	OptionID string `json:"option_id"`
	Moved    bool   `json:"moved"`
}

type CreateDisputeRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ProjectID      string `json:"project_id"`
	CorrectorLogin string `json:"corrector_login"`
	CorrectedLogin string `json:"corrected_login"`
}

type EditDisputeRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type DisputeVoteRequest struct {
	Side string `json:"side"`
}

type StaffDecideDisputeRequest struct {
	Winner string `json:"winner"`
	Reason string `json:"reason,omitempty"`
}

type DisputeResponse struct {
	DisputeID         string                 `json:"dispute_id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	ProjectID         string                 `json:"project_id"`
	CreatorID         string                 `json:"creator_id"`
	Status            string                 `json:"status"`
	Winner            string                 `json:"winner,omitempty"`
	CorrectorVotes    int                    `json:"corrector_votes"`
	CorrectedVotes    int                    `json:"corrected_votes"`
	CorrectorUsername *string                `json:"corrector_username,omitempty"`
	CorrectedUsername *string                `json:"corrected_username,omitempty"`
	StaffDecision     *StaffDecisionResponse `json:"staff_decision,omitempty"`
	CreatedAt         string                 `json:"created_at"`
	ClosedAt          string                 `json:"closed_at,omitempty"`
}

type DisputeListResponse struct {
	Items []DisputeResponse `json:"items"`
}
