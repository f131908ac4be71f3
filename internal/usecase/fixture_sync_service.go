package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchdaylabs/football-sync/internal/domain/fixture"
	"github.com/matchdaylabs/football-sync/internal/domain/league"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

// FixtureSyncService pulls the fixture list of tracked leagues. Rows are
// insert-if-absent keyed by provider fixture id; live score updates are out of
// scope here, only the schedule skeleton is maintained.
type FixtureSyncService struct {
	source      DataSource
	leagueRepo  league.Repository
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	logger      *logging.Logger
}

func NewFixtureSyncService(
	source DataSource,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	logger *logging.Logger,
) *FixtureSyncService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &FixtureSyncService{
		source:      source,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		logger:      logger,
	}
}

// SyncLeagues refreshes fixtures for every given league. A failing league does
// not stop the rest; the first error is returned after the loop finishes.
func (s *FixtureSyncService) SyncLeagues(ctx context.Context, leagueIDs []int64) error {
	ctx, span := startUsecaseSpan(ctx, "FixtureSyncService.SyncLeagues")
	defer span.End()

	if len(leagueIDs) == 0 {
		return nil
	}

	resolved, err := s.leagueRepo.GetByIDs(ctx, leagueIDs)
	if err != nil {
		return fmt.Errorf("resolve leagues: %w", err)
	}

	var firstErr error
	for _, id := range leagueIDs {
		lg, ok := resolved[id]
		if !ok {
			s.logger.WarnContext(ctx, "league not found, skipping fixtures", "league_id", id)
			continue
		}
		if err := s.syncLeague(ctx, lg); err != nil {
			s.logger.ErrorContext(ctx, "fixture sync failed",
				"league_id", id,
				"season", lg.Season,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *FixtureSyncService) syncLeague(ctx context.Context, lg league.League) error {
	res, err := s.source.FetchFixtures(ctx, lg.ID, lg.Season)
	if err != nil {
		return fmt.Errorf("fetch fixtures league=%d: %w", lg.ID, err)
	}

	switch res.Status {
	case PayloadMalformed:
		return fmt.Errorf("%w: malformed fixtures response league=%d", ErrInvalidInput, lg.ID)
	case PayloadEmpty:
		s.logger.InfoContext(ctx, "no fixtures returned", "league_id", lg.ID, "season", lg.Season)
		return nil
	}

	teamIDs := make([]int64, 0, len(res.Fixtures)*2)
	for _, row := range res.Fixtures {
		teamIDs = append(teamIDs, row.HomeTeamID, row.AwayTeamID)
	}
	known, err := s.teamRepo.GetByIDs(ctx, teamIDs)
	if err != nil {
		return fmt.Errorf("resolve fixture teams league=%d: %w", lg.ID, err)
	}

	fixtures := make([]fixture.Fixture, 0, len(res.Fixtures))
	for _, row := range res.Fixtures {
		if row.ID <= 0 {
			continue
		}
		if _, ok := known[row.HomeTeamID]; !ok {
			s.logger.WarnContext(ctx, "fixture references unknown home team, skipping",
				"fixture_id", row.ID, "team_id", row.HomeTeamID)
			continue
		}
		if _, ok := known[row.AwayTeamID]; !ok {
			s.logger.WarnContext(ctx, "fixture references unknown away team, skipping",
				"fixture_id", row.ID, "team_id", row.AwayTeamID)
			continue
		}

		kickoff, err := time.Parse(time.RFC3339, row.Date)
		if err != nil {
			s.logger.WarnContext(ctx, "fixture has unparseable kickoff, skipping",
				"fixture_id", row.ID, "date", row.Date)
			continue
		}

		fixtures = append(fixtures, fixture.Fixture{
			ID:         row.ID,
			Kickoff:    kickoff,
			LeagueID:   lg.ID,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			Referee:    row.Referee,
			Venue:      row.Venue,
			Status:     fixture.NormalizeStatus(row.Status),
		})
	}

	if len(fixtures) == 0 {
		s.logger.InfoContext(ctx, "no usable fixture rows", "league_id", lg.ID, "season", lg.Season)
		return nil
	}

	if err := s.fixtureRepo.InsertIfAbsent(ctx, fixtures); err != nil {
		return fmt.Errorf("store fixtures league=%d: %w", lg.ID, err)
	}

	var live, finished, cancelled int
	for _, fx := range fixtures {
		switch {
		case fixture.IsLiveStatus(fx.Status):
			live++
		case fixture.IsFinishedStatus(fx.Status):
			finished++
		case fixture.IsCancelledLikeStatus(fx.Status):
			cancelled++
		}
	}

	s.logger.InfoContext(ctx, "fixtures synced",
		"league_id", lg.ID,
		"season", lg.Season,
		"count", len(fixtures),
		"live", live,
		"finished", finished,
		"cancelled", cancelled,
	)
	return nil
}
