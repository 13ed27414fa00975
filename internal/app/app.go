package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/LochanPS/Matchify.pro-sub003/internal/config"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/pointsink"
	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/repository/memory"
	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/repository/postgres"
	"github.com/LochanPS/Matchify.pro-sub003/internal/interfaces/httpapi"
	idgen "github.com/LochanPS/Matchify.pro-sub003/internal/platform/id"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/logging"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/resilience"
	"github.com/LochanPS/Matchify.pro-sub003/internal/usecase"
)

type repositories struct {
	draws        draw.Repository
	matches      match.Repository
	participants participant.Repository
	playerStats  stats.Repository
	awards       award.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router. With
// DB_URL set the postgres layer backs everything; otherwise seeded
// in-memory repositories serve local development. The returned cleanup
// releases the database handle.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	locks := usecase.NewCategoryLocks()

	drawSvc := usecase.NewDrawService(
		repos.draws,
		repos.matches,
		repos.participants,
		repos.playerStats,
		idgen.NewRandomGenerator(),
		locks,
	)
	progressionSvc := usecase.NewProgressionService(repos.draws, repos.matches, locks)
	standingsSvc := usecase.NewStandingsService(repos.draws, repos.matches, locks)
	placementSvc := usecase.NewPlacementService(
		repos.draws,
		repos.matches,
		repos.participants,
		repos.awards,
		repos.playerStats,
		buildPointSink(cfg, logger),
		locks,
	)
	recalcSvc := usecase.NewRecalcService(standingsSvc, placementSvc)

	handler := httpapi.NewHandler(drawSvc, progressionSvc, standingsSvc, placementSvc, recalcSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(context.Background())
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noopCleanup := func(context.Context) error { return nil }

	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("database not configured, using in-memory repositories")

		seededParticipants := memory.SeedConfirmedParticipants(memory.TournamentIDCityOpen, memory.CategoryIDMensSingles, 8)
		for key, entrants := range memory.SeedConfirmedParticipants(memory.TournamentIDCityOpen, memory.CategoryIDWomensSingles, 6) {
			seededParticipants[key] = entrants
		}

		return repositories{
			draws:        memory.NewScheduleRepository(),
			matches:      memory.NewMatchRepository(),
			participants: memory.NewParticipantRepository(seededParticipants),
			playerStats:  memory.NewPlayerStatsRepository(memory.SeedPlayerStats(8)),
			awards:       memory.NewAwardLedgerRepository(),
		}, noopCleanup, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
			draws:        postgres.NewScheduleRepository(db),
			matches:      postgres.NewMatchRepository(db),
			participants: postgres.NewParticipantRepository(db),
			playerStats:  postgres.NewPlayerStatsRepository(db),
			awards:       postgres.NewAwardLedgerRepository(db),
		}, func(context.Context) error {
			return db.Close()
		}, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func buildPointSink(cfg config.Config, logger *logging.Logger) award.Sink {
	if !cfg.PointSinkEnabled {
		return nil
	}

	return pointsink.NewClient(pointsink.Config{
		BaseURL: cfg.PointSinkBaseURL,
		APIKey:  cfg.PointSinkAPIKey,
		Timeout: cfg.PointSinkTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PointSinkCircuitEnabled,
			FailureThreshold: cfg.PointSinkCircuitFailureCount,
			OpenTimeout:      cfg.PointSinkCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PointSinkCircuitHalfOpenMaxReq,
		},
	}, logger)
}
