package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matchdaylabs/football-sync/internal/domain/country"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
)

type stubSource struct {
	leagues      LeagueListResult
	leaguesErr   error
	teams        TeamListResult
	teamsErr     error
	standings    StandingsResult
	standingsErr error
	fixtures     FixtureListResult
	fixturesErr  error

	teamCalls      []string
	standingsCalls []int64
}

func (s *stubSource) FetchLeagues(context.Context) (LeagueListResult, error) {
	return s.leagues, s.leaguesErr
}

func (s *stubSource) FetchTeams(_ context.Context, countryName string) (TeamListResult, error) {
	s.teamCalls = append(s.teamCalls, countryName)
	return s.teams, s.teamsErr
}

func (s *stubSource) FetchStandings(_ context.Context, leagueID int64, _ int) (StandingsResult, error) {
	s.standingsCalls = append(s.standingsCalls, leagueID)
	return s.standings, s.standingsErr
}

func (s *stubSource) FetchFixtures(context.Context, int64, int) (FixtureListResult, error) {
	return s.fixtures, s.fixturesErr
}

type stubCountryRepo struct {
	names     []string
	namesErr  error
	byName    map[string]country.Country
	byNameErr error
	inserted  []country.Country
	insertErr error
}

func (r *stubCountryRepo) ListNames(context.Context) ([]string, error) {
	return r.names, r.namesErr
}

func (r *stubCountryRepo) GetByNames(context.Context, []string) (map[string]country.Country, error) {
	return r.byName, r.byNameErr
}

func (r *stubCountryRepo) InsertIfAbsent(_ context.Context, countries []country.Country) error {
	r.inserted = append(r.inserted, countries...)
	return r.insertErr
}

type stubTeamRepo struct {
	byID      map[int64]team.Team
	byIDErr   error
	inserted  []team.Team
	insertErr error
}

func (r *stubTeamRepo) GetByIDs(context.Context, []int64) (map[int64]team.Team, error) {
	return r.byID, r.byIDErr
}

func (r *stubTeamRepo) InsertIfAbsent(_ context.Context, teams []team.Team) error {
	r.inserted = append(r.inserted, teams...)
	return r.insertErr
}

var testCountry = country.Country{ID: 7, Name: "England", Code: "GB"}

func TestTeamSyncCountry_StoresMappedTeams(t *testing.T) {
	source := &stubSource{teams: TeamListResult{
		Status: PayloadOK,
		Teams: []ExternalTeam{
			{ID: 33, Name: "Manchester United", Code: "MUN", Logo: "mun.png"},
			{ID: 10, Name: "England", Code: "ENG", National: true},
		},
	}}
	teams := &stubTeamRepo{}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, teams, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 0)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
	if len(teams.inserted) != 2 {
		t.Fatalf("expected 2 stored teams, got %d", len(teams.inserted))
	}
	got := teams.inserted[0]
	if got.ID != 33 || got.ShortName != "MUN" || got.CountryID != 7 || got.National {
		t.Fatalf("unexpected mapped team: %+v", got)
	}
	if !teams.inserted[1].National {
		t.Fatalf("national flag dropped: %+v", teams.inserted[1])
	}
}

func TestTeamSyncCountry_FetchErrorIsRetryable(t *testing.T) {
	source := &stubSource{teamsErr: fmt.Errorf("teams: %w", ErrDependencyUnavailable)}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, &stubTeamRepo{}, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 0)

	if out.Kind != OutcomeRetryable {
		t.Fatalf("expected retryable, got %+v", out)
	}
	if !errors.Is(out.Err, ErrDependencyUnavailable) {
		t.Fatalf("expected wrapped transport error, got %v", out.Err)
	}
}

func TestTeamSyncCountry_MalformedPayloadIsRetryable(t *testing.T) {
	source := &stubSource{teams: TeamListResult{Status: PayloadMalformed}}
	teams := &stubTeamRepo{}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, teams, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 1)

	if out.Kind != OutcomeRetryable {
		t.Fatalf("expected retryable, got %+v", out)
	}
	if len(teams.inserted) != 0 {
		t.Fatalf("malformed payload must not reach storage")
	}
}

func TestTeamSyncCountry_EmptyPayloadCompletes(t *testing.T) {
	source := &stubSource{teams: TeamListResult{Status: PayloadEmpty}}
	teams := &stubTeamRepo{}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, teams, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 0)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success for empty list, got %+v", out)
	}
	if len(teams.inserted) != 0 {
		t.Fatalf("empty payload must not write")
	}
}

func TestTeamSyncCountry_SkipsRowsWithoutID(t *testing.T) {
	source := &stubSource{teams: TeamListResult{
		Status: PayloadOK,
		Teams: []ExternalTeam{
			{ID: 0, Name: "ghost"},
			{ID: 50, Name: "Manchester City", Code: "MCI"},
		},
	}}
	teams := &stubTeamRepo{}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, teams, 3, nil)

	if out := svc.SyncCountry(context.Background(), testCountry, 0); out.Kind != OutcomeSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
	if len(teams.inserted) != 1 || teams.inserted[0].ID != 50 {
		t.Fatalf("expected only the valid row stored, got %+v", teams.inserted)
	}
}

func TestTeamSyncCountry_StoreErrorIsRetryable(t *testing.T) {
	source := &stubSource{teams: TeamListResult{
		Status: PayloadOK,
		Teams:  []ExternalTeam{{ID: 33, Name: "Manchester United"}},
	}}
	teams := &stubTeamRepo{insertErr: fmt.Errorf("pq: connection reset")}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, teams, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 0)

	if out.Kind != OutcomeRetryable {
		t.Fatalf("expected retryable on store failure, got %+v", out)
	}
}

func TestTeamSyncCountry_BudgetExhaustedCompletesWithoutFetch(t *testing.T) {
	source := &stubSource{teams: TeamListResult{Status: PayloadOK}}
	svc := NewTeamSyncService(source, &stubCountryRepo{}, &stubTeamRepo{}, 3, nil)

	out := svc.SyncCountry(context.Background(), testCountry, 3)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected terminal success, got %+v", out)
	}
	if len(source.teamCalls) != 0 {
		t.Fatalf("exhausted budget must not hit the provider, got %v", source.teamCalls)
	}
}

func TestTeamBatchWorker_SkipsUnknownCountries(t *testing.T) {
	source := &stubSource{teams: TeamListResult{
		Status: PayloadOK,
		Teams:  []ExternalTeam{{ID: 33, Name: "Manchester United"}},
	}}
	countries := &stubCountryRepo{byName: map[string]country.Country{
		"England": testCountry,
	}}
	svc := NewTeamSyncService(source, countries, &stubTeamRepo{}, 3, nil)
	worker := NewTeamBatchWorker(svc, countries, nil)

	out := worker.Run(context.Background(), []string{"Atlantis", "England"}, 0)

	if out.Kind != OutcomeSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
	if len(source.teamCalls) != 1 || source.teamCalls[0] != "England" {
		t.Fatalf("expected one fetch for England, got %v", source.teamCalls)
	}
}

func TestTeamBatchWorker_LookupErrorIsRetryable(t *testing.T) {
	countries := &stubCountryRepo{byNameErr: fmt.Errorf("pq: timeout")}
	svc := NewTeamSyncService(&stubSource{}, countries, &stubTeamRepo{}, 3, nil)
	worker := NewTeamBatchWorker(svc, countries, nil)

	out := worker.Run(context.Background(), []string{"England"}, 0)

	if out.Kind != OutcomeRetryable {
		t.Fatalf("expected retryable, got %+v", out)
	}
}

func TestTeamBatchWorker_AbortsBatchOnFirstRetry(t *testing.T) {
	source := &stubSource{teamsErr: fmt.Errorf("teams: %w", ErrDependencyUnavailable)}
	countries := &stubCountryRepo{byName: map[string]country.Country{
		"England": testCountry,
		"Spain":   {ID: 8, Name: "Spain"},
	}}
	svc := NewTeamSyncService(source, countries, &stubTeamRepo{}, 3, nil)
	worker := NewTeamBatchWorker(svc, countries, nil)

	out := worker.Run(context.Background(), []string{"England", "Spain"}, 0)

	if out.Kind != OutcomeRetryable {
		t.Fatalf("expected retryable, got %+v", out)
	}
	if len(source.teamCalls) != 1 {
		t.Fatalf("batch must stop at the first retryable country, got %v", source.teamCalls)
	}
}

func TestTeamBatchWorker_EmptyBatchIsSuccess(t *testing.T) {
	svc := NewTeamSyncService(&stubSource{}, &stubCountryRepo{}, &stubTeamRepo{}, 3, nil)
	worker := NewTeamBatchWorker(svc, &stubCountryRepo{}, nil)

	if out := worker.Run(context.Background(), nil, 0); out.Kind != OutcomeSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
}
