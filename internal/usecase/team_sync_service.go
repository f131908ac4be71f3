package usecase

import (
	"context"
	"fmt"

	"github.com/matchdaylabs/football-sync/internal/domain/country"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

// TeamSyncService populates the team table for one country at a time:
// fetch the provider's team list, map rows, bulk insert-if-absent.
type TeamSyncService struct {
	source      DataSource
	countryRepo country.Repository
	teamRepo    team.Repository
	maxAttempts int
	logger      *logging.Logger
}

func NewTeamSyncService(
	source DataSource,
	countryRepo country.Repository,
	teamRepo team.Repository,
	maxAttempts int,
	logger *logging.Logger,
) *TeamSyncService {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &TeamSyncService{
		source:      source,
		countryRepo: countryRepo,
		teamRepo:    teamRepo,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SyncCountry fetches and stores all teams of one country. attempt is the
// zero-based retry counter of the surrounding unit of work.
func (s *TeamSyncService) SyncCountry(ctx context.Context, c country.Country, attempt int) Outcome {
	ctx, span := startUsecaseSpan(ctx, "TeamSyncService.SyncCountry")
	defer span.End()

	if attempt >= s.maxAttempts {
		// Budget exhausted is terminal: log loudly, complete without effect.
		s.logger.ErrorContext(ctx, "team sync retry budget exhausted",
			"country", c.Name,
			"attempts", attempt,
		)
		return Success()
	}

	res, err := s.source.FetchTeams(ctx, c.Name)
	if err != nil {
		return Retryable(fmt.Sprintf("fetch teams country=%s", c.Name), err)
	}

	switch res.Status {
	case PayloadMalformed:
		s.logger.WarnContext(ctx, "malformed teams response", "country", c.Name)
		return Retryable(fmt.Sprintf("malformed teams response country=%s", c.Name), nil)
	case PayloadEmpty:
		s.logger.InfoContext(ctx, "no teams returned", "country", c.Name)
		return Success()
	}

	teams := make([]team.Team, 0, len(res.Teams))
	for _, row := range res.Teams {
		if row.ID <= 0 {
			s.logger.WarnContext(ctx, "skip team without id", "country", c.Name, "name", row.Name)
			continue
		}
		teams = append(teams, team.Team{
			ID:        row.ID,
			Name:      row.Name,
			ShortName: row.Code,
			Logo:      row.Logo,
			CountryID: c.ID,
			National:  row.National,
		})
	}

	if len(teams) == 0 {
		s.logger.InfoContext(ctx, "no usable team rows", "country", c.Name)
		return Success()
	}

	if err := s.teamRepo.InsertIfAbsent(ctx, teams); err != nil {
		return Retryable(fmt.Sprintf("store teams country=%s", c.Name), err)
	}

	s.logger.InfoContext(ctx, "teams synced", "country", c.Name, "count", len(teams))
	return Success()
}

// TeamBatchWorker is the unit of work submitted per country-name batch. A
// retry request from any country inside the batch retries the whole batch.
type TeamBatchWorker struct {
	sync        *TeamSyncService
	countryRepo country.Repository
	logger      *logging.Logger
}

func NewTeamBatchWorker(sync *TeamSyncService, countryRepo country.Repository, logger *logging.Logger) *TeamBatchWorker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TeamBatchWorker{sync: sync, countryRepo: countryRepo, logger: logger}
}

func (w *TeamBatchWorker) Run(ctx context.Context, names []string, attempt int) Outcome {
	if len(names) == 0 {
		return Success()
	}

	resolved, err := w.countryRepo.GetByNames(ctx, names)
	if err != nil {
		return Retryable("resolve countries", err)
	}

	for _, name := range names {
		c, ok := resolved[name]
		if !ok {
			w.logger.WarnContext(ctx, "country not found, skipping", "country", name)
			continue
		}

		if out := w.sync.SyncCountry(ctx, c, attempt); out.Kind != OutcomeSuccess {
			return out
		}
	}

	return Success()
}
