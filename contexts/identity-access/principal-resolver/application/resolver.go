package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"admiral/contexts/identity-access/principal-resolver/domain/entities"
	domainerrors "admiral/contexts/identity-access/principal-resolver/domain/errors"
	"admiral/contexts/identity-access/principal-resolver/ports"
)

const bearerPrefix = "Bearer "

// Service resolves Authorization headers into principals.
type Service struct {
	Tokens ports.TokenVerifier
	Users  ports.PrincipalDirectory
	Logger *slog.Logger
}

// Resolve authenticates the raw Authorization header value. Every failure
// collapses into ErrUnauthenticated.
func (s Service) Resolve(ctx context.Context, authorization string) (entities.Principal, error) {
	logger := ResolveLogger(s.Logger)

	authorization = strings.TrimSpace(authorization)
	if authorization == "" || !strings.HasPrefix(authorization, bearerPrefix) {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	if token == "" {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}

	userID, err := s.Tokens.VerifyToken(ctx, token)
	if err != nil {
		logger.Warn("token verification rejected",
			"event", "principal_token_rejected",
			"module", "identity-access/principal-resolver",
			"layer", "application",
		)
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}

	principal, err := s.Users.GetPrincipalByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrPrincipalNotFound) {
			return entities.Principal{}, domainerrors.ErrUnauthenticated
		}
		return entities.Principal{}, err
	}
	return principal, nil
}

// ResolveLogger returns the configured logger or the process default, so use
// cases never have to nil-check before logging.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
