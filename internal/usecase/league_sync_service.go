package usecase

import (
	"context"
	"fmt"

	"github.com/matchdaylabs/football-sync/internal/domain/country"
	"github.com/matchdaylabs/football-sync/internal/domain/league"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

// LeagueSyncService seeds the country and league tables from the provider's
// full league catalogue. Countries are created on first sight; both tables are
// insert-if-absent, so reruns are cheap.
type LeagueSyncService struct {
	source      DataSource
	countryRepo country.Repository
	leagueRepo  league.Repository
	logger      *logging.Logger
}

func NewLeagueSyncService(
	source DataSource,
	countryRepo country.Repository,
	leagueRepo league.Repository,
	logger *logging.Logger,
) *LeagueSyncService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &LeagueSyncService{
		source:      source,
		countryRepo: countryRepo,
		leagueRepo:  leagueRepo,
		logger:      logger,
	}
}

// Sync runs synchronously in the CLI rather than through the task queue: the
// catalogue is one request and the result is a precondition for every other
// sync flavor.
func (s *LeagueSyncService) Sync(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueSyncService.Sync")
	defer span.End()

	res, err := s.source.FetchLeagues(ctx)
	if err != nil {
		return fmt.Errorf("fetch league catalogue: %w", err)
	}
	if res.Status != PayloadOK {
		return fmt.Errorf("%w: league catalogue response is %s", ErrInvalidInput, res.Status.String())
	}

	countries := make([]country.Country, 0, len(res.Leagues))
	seenCountry := make(map[string]struct{}, len(res.Leagues))
	for _, row := range res.Leagues {
		if row.CountryName == "" {
			continue
		}
		if _, ok := seenCountry[row.CountryName]; ok {
			continue
		}
		seenCountry[row.CountryName] = struct{}{}
		countries = append(countries, country.Country{
			Name:    row.CountryName,
			Code:    row.CountryCode,
			FlagURL: row.CountryFlag,
		})
	}

	if err := s.countryRepo.InsertIfAbsent(ctx, countries); err != nil {
		return fmt.Errorf("store countries: %w", err)
	}

	names := make([]string, 0, len(seenCountry))
	for name := range seenCountry {
		names = append(names, name)
	}
	stored, err := s.countryRepo.GetByNames(ctx, names)
	if err != nil {
		return fmt.Errorf("resolve countries: %w", err)
	}

	leagues := make([]league.League, 0, len(res.Leagues))
	for _, row := range res.Leagues {
		c, ok := stored[row.CountryName]
		if !ok {
			s.logger.WarnContext(ctx, "league references unknown country, skipping",
				"league_id", row.ID,
				"country", row.CountryName,
			)
			continue
		}

		lg := league.League{
			ID:        row.ID,
			Name:      row.Name,
			Logo:      row.Logo,
			Type:      row.Type,
			CountryID: c.ID,
			Season:    row.Season,
		}
		if err := lg.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid league row", "league_id", row.ID, "error", err)
			continue
		}
		leagues = append(leagues, lg)
	}

	if err := s.leagueRepo.InsertIfAbsent(ctx, leagues); err != nil {
		return fmt.Errorf("store leagues: %w", err)
	}

	s.logger.InfoContext(ctx, "league catalogue synced",
		"countries", len(countries),
		"leagues", len(leagues),
	)
	return nil
}
