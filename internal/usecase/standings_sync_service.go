package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchdaylabs/football-sync/internal/domain/league"
	"github.com/matchdaylabs/football-sync/internal/domain/standing"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

// StandingsSyncService replaces the stored league table of one league+season
// with the provider's current snapshot. Replacement is atomic per league: the
// repository deletes and re-inserts within a single transaction.
type StandingsSyncService struct {
	source       DataSource
	teamRepo     team.Repository
	standingRepo standing.Repository
	maxAttempts  int
	logger       *logging.Logger
}

func NewStandingsSyncService(
	source DataSource,
	teamRepo team.Repository,
	standingRepo standing.Repository,
	maxAttempts int,
	logger *logging.Logger,
) *StandingsSyncService {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &StandingsSyncService{
		source:       source,
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// SyncLeague refreshes the table of one league. Transport failures ask for a
// retry; everything else that breaks mid-pipeline is permanent so a corrupt
// payload cannot loop forever.
func (s *StandingsSyncService) SyncLeague(ctx context.Context, lg league.League, attempt int) Outcome {
	ctx, span := startUsecaseSpan(ctx, "StandingsSyncService.SyncLeague")
	defer span.End()

	if attempt >= s.maxAttempts {
		s.logger.ErrorContext(ctx, "standings sync retry budget exhausted",
			"league_id", lg.ID,
			"season", lg.Season,
			"attempts", attempt,
		)
		return Success()
	}

	res, err := s.source.FetchStandings(ctx, lg.ID, lg.Season)
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return Retryable(fmt.Sprintf("fetch standings league=%d", lg.ID), err)
		}
		return Permanent(fmt.Sprintf("fetch standings league=%d", lg.ID), err)
	}

	switch res.Status {
	case PayloadMalformed, PayloadEmpty:
		s.logger.WarnContext(ctx, "unusable standings response",
			"league_id", lg.ID,
			"season", lg.Season,
			"status", res.Status.String(),
		)
		return Retryable(fmt.Sprintf("unusable standings response league=%d", lg.ID), nil)
	case PayloadMissingTable:
		// The provider has no table for this league+season. That is a stable
		// fact, not a glitch: complete without writing anything.
		s.logger.WarnContext(ctx, "no standings table published",
			"league_id", lg.ID,
			"season", lg.Season,
		)
		return Success()
	}

	teamIDs := make([]int64, 0, len(res.Rows))
	for _, row := range res.Rows {
		if row.TeamID > 0 {
			teamIDs = append(teamIDs, row.TeamID)
		}
	}

	known, err := s.teamRepo.GetByIDs(ctx, teamIDs)
	if err != nil {
		return Permanent(fmt.Sprintf("resolve standings teams league=%d", lg.ID), err)
	}

	snapshots := make([]standing.Snapshot, 0, len(res.Rows))
	for _, row := range res.Rows {
		if _, ok := known[row.TeamID]; !ok {
			s.logger.WarnContext(ctx, "standings row references unknown team, skipping",
				"league_id", lg.ID,
				"team_id", row.TeamID,
			)
			continue
		}
		snapshots = append(snapshots, standing.Snapshot{
			LeagueID:       lg.ID,
			Season:         lg.Season,
			RoundName:      res.RoundName,
			Rank:           row.Rank,
			TeamID:         row.TeamID,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalsDiff,
			MatchesPlayed:  row.Played,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			LastFive:       row.Form,
			HomeStat:       row.Home,
			AwayStat:       row.Away,
		})
	}

	if len(snapshots) == 0 {
		s.logger.WarnContext(ctx, "no valid standings rows, keeping stored table",
			"league_id", lg.ID,
			"season", lg.Season,
		)
		return Success()
	}

	if err := s.standingRepo.ReplaceBySeason(ctx, lg.ID, lg.Season, snapshots); err != nil {
		return Permanent(fmt.Sprintf("replace standings league=%d season=%d", lg.ID, lg.Season), err)
	}

	s.logger.InfoContext(ctx, "standings synced",
		"league_id", lg.ID,
		"season", lg.Season,
		"rows", len(snapshots),
	)
	return Success()
}

// StandingsBatchWorker is the unit of work submitted per league-id batch.
type StandingsBatchWorker struct {
	sync       *StandingsSyncService
	leagueRepo league.Repository
	logger     *logging.Logger
}

func NewStandingsBatchWorker(sync *StandingsSyncService, leagueRepo league.Repository, logger *logging.Logger) *StandingsBatchWorker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StandingsBatchWorker{sync: sync, leagueRepo: leagueRepo, logger: logger}
}

func (w *StandingsBatchWorker) Run(ctx context.Context, leagueIDs []int64, attempt int) Outcome {
	if len(leagueIDs) == 0 {
		return Success()
	}

	resolved, err := w.leagueRepo.GetByIDs(ctx, leagueIDs)
	if err != nil {
		return Retryable("resolve leagues", err)
	}

	for _, id := range leagueIDs {
		lg, ok := resolved[id]
		if !ok {
			w.logger.WarnContext(ctx, "league not found, skipping", "league_id", id)
			continue
		}

		if out := w.sync.SyncLeague(ctx, lg, attempt); out.Kind != OutcomeSuccess {
			return out
		}
	}

	return Success()
}
