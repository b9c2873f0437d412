package workers

import (
	"context"
	"log/slog"

	application "admiral/contexts/community-governance/resolution-engine/application"
	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

// TallyAuditor recomputes the materialized tallies (option vote counts and
// dispute side counters) from the ballot rows and repairs any drift. The
// stored counters are a cache of the ballot set; the ballots are the truth.
type TallyAuditor struct {
	Votes    ports.SubjectVoteRepository
	Disputes ports.DisputeRepository
	Logger   *slog.Logger
}

// RunOnce audits every resolution. Repairs are logged loudly: drift means a
// past write skipped the transactional ballot path.
func (a TallyAuditor) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(a.Logger)

	repaired, err := a.auditSubjectVotes(ctx, logger)
	if err != nil {
		return err
	}
	disputeRepaired, err := a.auditDisputes(ctx, logger)
	if err != nil {
		return err
	}
	repaired += disputeRepaired

	if repaired > 0 {
		logger.Warn("tally audit repaired drifted counters",
			"event", "resolution_tally_audit_repaired",
			"module", "community-governance/resolution-engine",
			"layer", "worker",
			"repaired_count", repaired,
		)
	} else {
		logger.Debug("tally audit clean",
			"event", "resolution_tally_audit_clean",
			"module", "community-governance/resolution-engine",
			"layer", "worker",
		)
	}
	return nil
}

func (a TallyAuditor) auditSubjectVotes(ctx context.Context, logger *slog.Logger) (int, error) {
	votes, err := a.Votes.ListSubjectVotes(ctx, ports.SubjectVoteFilter{})
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, vote := range votes {
		ballots, err := a.Votes.ListBallots(ctx, vote.VoteID)
		if err != nil {
			return repaired, err
		}
		perOption := make(map[string]int, len(ballots))
		for _, ballot := range ballots {
			perOption[ballot.OptionID]++
		}

		options, err := a.Votes.ListOptions(ctx, vote.VoteID)
		if err != nil {
			return repaired, err
		}
		for _, option := range options {
			expected := perOption[option.OptionID]
			if option.VoteCount == expected {
				continue
			}
			logger.Warn("option count drift detected",
				"event", "resolution_tally_audit_option_drift",
				"module", "community-governance/resolution-engine",
				"layer", "worker",
				"vote_id", vote.VoteID,
				"option_id", option.OptionID,
				"stored_count", option.VoteCount,
				"ballot_count", expected,
			)
			if err := a.Votes.SaveOptionCount(ctx, option.OptionID, expected); err != nil {
				return repaired, err
			}
			repaired++
		}
	}
	return repaired, nil
}

func (a TallyAuditor) auditDisputes(ctx context.Context, logger *slog.Logger) (int, error) {
	disputes, err := a.Disputes.ListDisputes(ctx, ports.DisputeFilter{})
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, dispute := range disputes {
		ballots, err := a.Disputes.ListDisputeBallots(ctx, dispute.DisputeID)
		if err != nil {
			return repaired, err
		}
		corrector := 0
		corrected := 0
		for _, ballot := range ballots {
			switch ballot.Side {
			case entities.SideCorrector:
				corrector++
			case entities.SideCorrected:
				corrected++
			}
		}
		if dispute.CorrectorVotes == corrector && dispute.CorrectedVotes == corrected {
			continue
		}
		logger.Warn("dispute counter drift detected",
			"event", "resolution_tally_audit_dispute_drift",
			"module", "community-governance/resolution-engine",
			"layer", "worker",
			"dispute_id", dispute.DisputeID,
			"stored_corrector", dispute.CorrectorVotes,
			"stored_corrected", dispute.CorrectedVotes,
			"ballot_corrector", corrector,
			"ballot_corrected", corrected,
		)
		if err := a.Disputes.SaveDisputeCounters(ctx, dispute.DisputeID, corrector, corrected); err != nil {
			return repaired, err
		}
		repaired++
	}
	return repaired, nil
}
