package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matchdaylabs/football-sync/internal/domain/fixture"
	"github.com/matchdaylabs/football-sync/internal/domain/league"
	"github.com/matchdaylabs/football-sync/internal/domain/team"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
)

type mockFixtureRepo struct {
	mock.Mock
}

func (m *mockFixtureRepo) ListByLeague(ctx context.Context, leagueID int64) ([]fixture.Fixture, error) {
	args := m.Called(ctx, leagueID)
	fixtures, _ := args.Get(0).([]fixture.Fixture)
	return fixtures, args.Error(1)
}

func (m *mockFixtureRepo) InsertIfAbsent(ctx context.Context, fixtures []fixture.Fixture) error {
	args := m.Called(ctx, fixtures)
	return args.Error(0)
}

func (m *mockFixtureRepo) MarkSnapshotProcessed(ctx context.Context, fixtureID int64) error {
	args := m.Called(ctx, fixtureID)
	return args.Error(0)
}

func TestFixtureSyncLeagues_StoresSchedule(t *testing.T) {
	source := &stubSource{fixtures: FixtureListResult{
		Status: PayloadOK,
		Fixtures: []ExternalFixture{
			{ID: 1035045, Date: "2025-11-08T15:00:00Z", LeagueID: 39, HomeTeamID: 33, AwayTeamID: 50, Venue: "Old Trafford", Status: "ns"},
		},
	}}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{39: testLeague}}
	teams := &stubTeamRepo{byID: map[int64]team.Team{
		33: {ID: 33, Name: "Manchester United", CountryID: 7},
		50: {ID: 50, Name: "Manchester City", CountryID: 7},
	}}
	fixtures := &mockFixtureRepo{}
	fixtures.
		On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(rows []fixture.Fixture) bool {
			return len(rows) == 1 &&
				rows[0].ID == 1035045 &&
				rows[0].LeagueID == 39 &&
				rows[0].Status == fixture.StatusNotStarted &&
				rows[0].Kickoff.UTC().Hour() == 15
		})).
		Return(nil).
		Once()

	svc := NewFixtureSyncService(source, leagues, teams, fixtures, nil)

	if err := svc.SyncLeagues(context.Background(), []int64{39}); err != nil {
		t.Fatalf("sync fixtures: %v", err)
	}
	fixtures.AssertExpectations(t)
}

func TestFixtureSyncLeagues_SkipsUnresolvableRows(t *testing.T) {
	source := &stubSource{fixtures: FixtureListResult{
		Status: PayloadOK,
		Fixtures: []ExternalFixture{
			{ID: 1, Date: "2025-11-08T15:00:00Z", HomeTeamID: 33, AwayTeamID: 999},
			{ID: 2, Date: "not-a-date", HomeTeamID: 33, AwayTeamID: 50},
			{ID: 3, Date: "2025-11-09T17:30:00Z", HomeTeamID: 33, AwayTeamID: 50},
		},
	}}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{39: testLeague}}
	teams := &stubTeamRepo{byID: map[int64]team.Team{
		33: {ID: 33, CountryID: 7},
		50: {ID: 50, CountryID: 7},
	}}
	fixtures := &mockFixtureRepo{}
	fixtures.
		On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(rows []fixture.Fixture) bool {
			return len(rows) == 1 && rows[0].ID == 3
		})).
		Return(nil).
		Once()

	svc := NewFixtureSyncService(source, leagues, teams, fixtures, nil)

	if err := svc.SyncLeagues(context.Background(), []int64{39}); err != nil {
		t.Fatalf("sync fixtures: %v", err)
	}
	fixtures.AssertExpectations(t)
}

func TestFixtureSyncLeagues_ReportsStatusBreakdown(t *testing.T) {
	source := &stubSource{fixtures: FixtureListResult{
		Status: PayloadOK,
		Fixtures: []ExternalFixture{
			{ID: 1, Date: "2025-11-08T15:00:00Z", HomeTeamID: 33, AwayTeamID: 50, Status: "FT"},
			{ID: 2, Date: "2025-11-08T17:30:00Z", HomeTeamID: 50, AwayTeamID: 33, Status: "1H"},
			{ID: 3, Date: "2025-11-09T15:00:00Z", HomeTeamID: 33, AwayTeamID: 50, Status: "PST"},
			{ID: 4, Date: "2025-11-10T20:00:00Z", HomeTeamID: 50, AwayTeamID: 33, Status: "NS"},
		},
	}}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{39: testLeague}}
	teams := &stubTeamRepo{byID: map[int64]team.Team{
		33: {ID: 33, CountryID: 7},
		50: {ID: 50, CountryID: 7},
	}}
	fixtures := &mockFixtureRepo{}
	fixtures.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()

	core, logs := observer.New(zap.DebugLevel)
	svc := NewFixtureSyncService(source, leagues, teams, fixtures, logging.FromZap(zap.New(core)))

	if err := svc.SyncLeagues(context.Background(), []int64{39}); err != nil {
		t.Fatalf("sync fixtures: %v", err)
	}

	entries := logs.FilterMessage("fixtures synced").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["count"] != int64(4) || fields["finished"] != int64(1) || fields["live"] != int64(1) || fields["cancelled"] != int64(1) {
		t.Fatalf("unexpected status breakdown: %v", fields)
	}
}

func TestFixtureSyncLeagues_EmptyPayloadStoresNothing(t *testing.T) {
	source := &stubSource{fixtures: FixtureListResult{Status: PayloadEmpty}}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{39: testLeague}}
	fixtures := &mockFixtureRepo{}

	svc := NewFixtureSyncService(source, leagues, &stubTeamRepo{}, fixtures, nil)

	if err := svc.SyncLeagues(context.Background(), []int64{39}); err != nil {
		t.Fatalf("sync fixtures: %v", err)
	}
	fixtures.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestFixtureSyncLeagues_MalformedPayloadIsError(t *testing.T) {
	source := &stubSource{fixtures: FixtureListResult{Status: PayloadMalformed}}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{39: testLeague}}

	svc := NewFixtureSyncService(source, leagues, &stubTeamRepo{}, &mockFixtureRepo{}, nil)

	if err := svc.SyncLeagues(context.Background(), []int64{39}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestFixtureSyncLeagues_FailingLeagueDoesNotStopOthers(t *testing.T) {
	source := &stubSource{fixturesErr: errors.New("provider down")}
	leagues := &stubLeagueRepo{byID: map[int64]league.League{
		39:  testLeague,
		140: {ID: 140, Name: "La Liga", CountryID: 8, Season: 2025},
	}}

	svc := NewFixtureSyncService(source, leagues, &stubTeamRepo{}, &mockFixtureRepo{}, nil)

	err := svc.SyncLeagues(context.Background(), []int64{39, 140})
	if err == nil {
		t.Fatal("expected the first error to surface")
	}
}

func TestFixtureSyncLeagues_NoLeaguesIsNoOp(t *testing.T) {
	svc := NewFixtureSyncService(&stubSource{}, &stubLeagueRepo{}, &stubTeamRepo{}, &mockFixtureRepo{}, nil)

	if err := svc.SyncLeagues(context.Background(), nil); err != nil {
		t.Fatalf("empty league list: %v", err)
	}
}
