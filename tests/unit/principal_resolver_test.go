package unit

import (
	"context"
	"errors"
	"testing"

	principalresolver "admiral/contexts/identity-access/principal-resolver"
	"admiral/contexts/identity-access/principal-resolver/domain/entities"
	domainerrors "admiral/contexts/identity-access/principal-resolver/domain/errors"
)

func TestPrincipalResolutionRoundTrip(t *testing.T) {
	module := principalresolver.NewInMemoryModule("unit-secret", []entities.Principal{
		{UserID: "user-1", Login: "ecorrect"},
		{UserID: "staff-1", Login: "admin", IsStaff: true},
	}, nil)

	principal, err := module.Resolver.Resolve(context.Background(), "Bearer "+module.Tokens.MintToken("staff-1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.UserID != "staff-1" || !principal.IsStaff {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestPrincipalResolutionRejectsForgedAndUnknown(t *testing.T) {
	module := principalresolver.NewInMemoryModule("unit-secret", []entities.Principal{
		{UserID: "user-1", Login: "ecorrect"},
	}, nil)
	forged := principalresolver.NewInMemoryModule("other-secret", nil, nil)

	cases := map[string]string{
		"empty header":    "",
		"no scheme":       module.Tokens.MintToken("user-1"),
		"wrong secret":    "Bearer " + forged.Tokens.MintToken("user-1"),
		"unknown subject": "Bearer " + module.Tokens.MintToken("user-404"),
	}
	for name, header := range cases {
		if _, err := module.Resolver.Resolve(context.Background(), header); !errors.Is(err, domainerrors.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}
