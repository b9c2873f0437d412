package resolutionengine

import (
	"log/slog"

	httpadapter "admiral/contexts/community-governance/resolution-engine/adapters/http"
	"admiral/contexts/community-governance/resolution-engine/adapters/memory"
	"admiral/contexts/community-governance/resolution-engine/application/commands"
	"admiral/contexts/community-governance/resolution-engine/application/queries"
	"admiral/contexts/community-governance/resolution-engine/application/workers"
	"admiral/contexts/community-governance/resolution-engine/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	TallyAuditor workers.TallyAuditor
	Store        *memory.Store
}

type Dependencies struct {
	Votes    ports.SubjectVoteRepository
	Disputes ports.DisputeRepository
	Users    ports.UserDirectory
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.SubjectVoteUseCase{
		Votes:  deps.Votes,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	disputeUseCase := commands.DisputeUseCase{
		Disputes: deps.Disputes,
		Users:    deps.Users,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	voteQueries := queries.SubjectVoteQueries{
		Votes: deps.Votes,
	}
	disputeQueries := queries.DisputeQueries{
		Disputes: deps.Disputes,
		Users:    deps.Users,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:        voteUseCase,
			Disputes:     disputeUseCase,
			VoteQueries:  voteQueries,
			DisputeViews: disputeQueries,
			Logger:       deps.Logger,
		},
		TallyAuditor: workers.TallyAuditor{
			Votes:    deps.Votes,
			Disputes: deps.Disputes,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(users []ports.UserProjection, logger *slog.Logger) Module {
	store := memory.NewStore()
	for _, user := range users {
		store.SetUser(user)
	}
	module := NewModule(Dependencies{
		Votes:    store,
		Disputes: store,
		Users:    store,
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
