package queries

import (
	"context"
	"errors"
	"strings"

	"admiral/contexts/community-governance/resolution-engine/domain/entities"
	domainerrors "admiral/contexts/community-governance/resolution-engine/domain/errors"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

// DisputeView is a per-viewer projection of a dispute. A side's username is
// populated only when the viewer is that side; everyone else sees it absent.
// The tally and everything else stay fully visible.
type DisputeView struct {
	Dispute           entities.Dispute
	CorrectorUsername *string
	CorrectedUsername *string
}

type DisputeQueries struct {
	Disputes ports.DisputeRepository
	Users    ports.UserDirectory
}

func (q DisputeQueries) List(ctx context.Context, filter ports.DisputeFilter, viewerID string) ([]DisputeView, error) {
	disputes, err := q.Disputes.ListDisputes(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]DisputeView, 0, len(disputes))
	for _, dispute := range disputes {
		view, err := q.project(ctx, dispute, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (q DisputeQueries) Get(ctx context.Context, disputeID string, viewerID string) (DisputeView, error) {
	dispute, err := q.Disputes.GetDispute(ctx, strings.TrimSpace(disputeID))
	if err != nil {
		return DisputeView{}, err
	}
	return q.project(ctx, dispute, viewerID)
}

// project applies the visibility rule independently per side. This is a
// read-time projection, never a storage-level restriction, so it runs on
// every read path for every viewer.
func (q DisputeQueries) project(ctx context.Context, dispute entities.Dispute, viewerID string) (DisputeView, error) {
	view := DisputeView{Dispute: dispute}
	viewer := strings.TrimSpace(viewerID)

	if viewer != "" && viewer == dispute.CorrectorID {
		login, err := q.lookupLogin(ctx, dispute.CorrectorID)
		if err != nil {
			return DisputeView{}, err
		}
		view.CorrectorUsername = login
	}
	if viewer != "" && viewer == dispute.CorrectedID {
		login, err := q.lookupLogin(ctx, dispute.CorrectedID)
		if err != nil {
			return DisputeView{}, err
		}
		view.CorrectedUsername = login
	}
	return view, nil
}

func (q DisputeQueries) lookupLogin(ctx context.Context, userID string) (*string, error) {
	user, err := q.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	login := user.Login
	return &login, nil
}
