// Package app wires configuration, storage, clients, and the HTTP surface
// into a runnable server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tryline/fantasy-rugby/external/jobqueue"
	"github.com/tryline/fantasy-rugby/external/statsfeed"
	"github.com/tryline/fantasy-rugby/internal/config"
	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/league"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
	"github.com/tryline/fantasy-rugby/internal/domain/transfer"
	"github.com/tryline/fantasy-rugby/internal/infrastructure/account/sessions"
	cacherepo "github.com/tryline/fantasy-rugby/internal/infrastructure/repository/cache"
	"github.com/tryline/fantasy-rugby/internal/infrastructure/repository/memory"
	"github.com/tryline/fantasy-rugby/internal/infrastructure/repository/postgres"
	"github.com/tryline/fantasy-rugby/internal/interfaces/httpapi"
	"github.com/tryline/fantasy-rugby/internal/platform/cache"
	idgen "github.com/tryline/fantasy-rugby/internal/platform/id"
	"github.com/tryline/fantasy-rugby/internal/platform/resilience"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

type repositories struct {
	players   player.Repository
	gameweeks gameweek.Repository
	squads    roster.Repository
	scores    roster.ScoreRepository
	stats     stats.Repository
	rules     stats.RuleRepository
	transfers transfer.Repository
	ownership transfer.OwnershipRepository
	leagues   league.Repository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
	}

	gen := idgen.NewRandomGenerator()
	rules := rulesFromConfig(cfg)

	var feed usecase.StatsFeed
	if cfg.StatsFeedEnabled {
		feed = statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			APIKey:     cfg.StatsFeedAPIKey,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMaxReq,
			},
		})
	}

	var jobs usecase.JobPublisher
	if cfg.QStashEnabled {
		jobs = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	playerSvc := usecase.NewPlayerService(repos.players, logger)
	gameweekSvc := usecase.NewGameweekService(repos.gameweeks, gen, jobs, logger)
	rosterSvc := usecase.NewRosterService(repos.players, repos.squads, repos.gameweeks, repos.ownership, rules, gen, logger)
	transferSvc := usecase.NewTransferService(repos.players, repos.squads, repos.gameweeks, repos.transfers, repos.ownership, rules, gen, logger)
	scoringSvc := usecase.NewScoringService(repos.players, repos.squads, repos.scores, repos.stats, repos.rules, repos.gameweeks, logger)
	ingestSvc := usecase.NewIngestionService(repos.players, repos.stats, repos.rules, repos.gameweeks, feed, logger)
	leagueSvc := usecase.NewLeagueService(repos.leagues, repos.squads, gen, logger)

	var tokenCache *cache.Store
	if cfg.AuthTokenCacheTTL > 0 {
		tokenCache = cache.NewStore(cfg.AuthTokenCacheTTL)
	}
	verifier := sessions.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		tokenCache,
		logger,
	)

	handler := httpapi.NewHandler(playerSvc, gameweekSvc, rosterSvc, transferSvc, scoringSvc, ingestSvc, leagueSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// buildRepositories connects Postgres when DB_URL is set and falls back to
// seeded in-memory repositories otherwise, which keeps local development
// working without a database.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		squads := memory.NewSquadRepository()
		ownership := memory.NewOwnershipRepository()

		return repositories{
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			gameweeks: memory.NewGameweekRepository(memory.SeedGameweeks()),
			squads:    squads,
			scores:    memory.NewScoreRepository(),
			stats:     memory.NewStatsRepository(),
			rules:     memory.NewRuleRepository(memory.SeedScoringRules()),
			transfers: memory.NewTransferRepository(squads, ownership),
			ownership: ownership,
			leagues:   memory.NewLeagueRepository(),
		}, nil
	}

	db, err := connectDB(cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}

	return repositories{
		players:   postgres.NewPlayerRepository(db),
		gameweeks: postgres.NewGameweekRepository(db),
		squads:    postgres.NewSquadRepository(db),
		scores:    postgres.NewSquadScoreRepository(db),
		stats:     postgres.NewStatsRepository(db),
		rules:     postgres.NewScoringRuleRepository(db),
		transfers: postgres.NewTransferRepository(db),
		ownership: postgres.NewOwnershipRepository(db),
		leagues:   postgres.NewLeagueRepository(db),
	}, nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// rulesFromConfig starts from the standard game rules and applies any
// environment overrides.
func rulesFromConfig(cfg config.Config) roster.Rules {
	rules := roster.DefaultRules()
	if cfg.Budget > 0 {
		rules.Budget = cfg.Budget
	}
	if cfg.MaxTransfersPerWeek > 0 {
		rules.MaxTransfersPerWeek = cfg.MaxTransfersPerWeek
	}
	if cfg.MaxPerClub > 0 {
		rules.MaxPerClub = cfg.MaxPerClub
	}

	return rules
}
