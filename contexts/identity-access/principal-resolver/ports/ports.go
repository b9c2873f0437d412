package ports

import (
	"context"

	"admiral/contexts/identity-access/principal-resolver/domain/entities"
)

// TokenVerifier validates a bearer token and returns the user it belongs to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// PrincipalDirectory resolves user identifiers to principals.
type PrincipalDirectory interface {
	GetPrincipalByID(ctx context.Context, userID string) (entities.Principal, error)
}
