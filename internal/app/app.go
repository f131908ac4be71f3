package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matchdaylabs/football-sync/external/apifootball"
	"github.com/matchdaylabs/football-sync/internal/config"
	"github.com/matchdaylabs/football-sync/internal/infrastructure/queue"
	"github.com/matchdaylabs/football-sync/internal/infrastructure/repository/postgres"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/platform/resilience"
)

// Components bundles the infrastructure shared by the dispatch and worker
// binaries: database handle, queue, provider client and repositories.
type Components struct {
	DB     *sqlx.DB
	Queue  *queue.RedisQueue
	Source *apifootball.Client

	Countries *postgres.CountryRepository
	Leagues   *postgres.LeagueRepository
	Teams     *postgres.TeamRepository
	Standings *postgres.StandingSnapshotRepository
	Fixtures  *postgres.FixtureRepository
}

// NewComponents wires everything from config. The returned close func releases
// the database and queue connections.
func NewComponents(cfg config.Config, logger *logging.Logger) (*Components, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	db, err := otelsqlx.Connect("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	q, err := queue.NewRedisQueue(queue.RedisQueueConfig{
		URL:            cfg.RedisURL,
		QueueName:      cfg.QueueName,
		Logger:         logger,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("connect redis queue: %w", err)
	}

	source := apifootball.NewClient(apifootball.ClientConfig{
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.APIFootballTimeout,
		},
		BaseURL:    cfg.APIFootballBaseURL,
		Key:        cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	components := &Components{
		DB:        db,
		Queue:     q,
		Source:    source,
		Countries: postgres.NewCountryRepository(db),
		Leagues:   postgres.NewLeagueRepository(db),
		Teams:     postgres.NewTeamRepository(db),
		Standings: postgres.NewStandingSnapshotRepository(db),
		Fixtures:  postgres.NewFixtureRepository(db),
	}

	closeAll := func(context.Context) error {
		qErr := q.Close()
		dbErr := db.Close()
		if qErr != nil {
			return fmt.Errorf("close redis queue: %w", qErr)
		}
		if dbErr != nil {
			return fmt.Errorf("close postgres: %w", dbErr)
		}
		return nil
	}

	return components, closeAll, nil
}
