package principalresolver

import (
	"log/slog"

	"admiral/contexts/identity-access/principal-resolver/adapters/memory"
	"admiral/contexts/identity-access/principal-resolver/adapters/token"
	"admiral/contexts/identity-access/principal-resolver/application"
	"admiral/contexts/identity-access/principal-resolver/domain/entities"
	"admiral/contexts/identity-access/principal-resolver/ports"
)

type Module struct {
	Resolver application.Service
	Store    *memory.Store
	Tokens   token.HMACVerifier
}

type Dependencies struct {
	Tokens ports.TokenVerifier
	Users  ports.PrincipalDirectory
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Resolver: application.Service{
			Tokens: deps.Tokens,
			Users:  deps.Users,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(secret string, seed []entities.Principal, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	verifier := token.NewHMACVerifier(secret)
	module := NewModule(Dependencies{
		Tokens: verifier,
		Users:  store,
		Logger: logger,
	})
	module.Store = store
	module.Tokens = verifier
	return module
}
