package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchdaylabs/football-sync/internal/platform/logging"
	"github.com/matchdaylabs/football-sync/internal/platform/resilience"
	"github.com/matchdaylabs/football-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 6 << 20
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-apisports-key[:=][^&\s"']+`)
var errAPIFootballTransient = crerr.New("apifootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the provider's v3 API. All configuration is injected; the
// client holds no process-wide state.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchLeagues(ctx context.Context) (usecase.LeagueListResult, error) {
	raw, err := c.doRequest(ctx, "/leagues", nil)
	if err != nil {
		return usecase.LeagueListResult{}, fmt.Errorf("fetch leagues: %w", err)
	}

	var env struct {
		Results  int          `json:"results"`
		Response []leagueItem `json:"response"`
	}
	if err := sonic.Unmarshal(raw, &env); err != nil || env.Response == nil {
		return usecase.LeagueListResult{Status: usecase.PayloadMalformed}, nil
	}
	if len(env.Response) == 0 {
		return usecase.LeagueListResult{Status: usecase.PayloadEmpty}, nil
	}

	out := make([]usecase.ExternalLeague, 0, len(env.Response))
	for _, item := range env.Response {
		if item.League.ID <= 0 {
			continue
		}
		season := 0
		for _, s := range item.Seasons {
			if s.Current {
				season = s.Year
				break
			}
			if s.Year > season {
				season = s.Year
			}
		}
		out = append(out, usecase.ExternalLeague{
			ID:          item.League.ID,
			Name:        strings.TrimSpace(item.League.Name),
			Logo:        strings.TrimSpace(item.League.Logo),
			Type:        strings.TrimSpace(item.League.Type),
			CountryName: strings.TrimSpace(item.Country.Name),
			CountryCode: strings.TrimSpace(item.Country.Code),
			CountryFlag: strings.TrimSpace(item.Country.Flag),
			Season:      season,
		})
	}

	return usecase.LeagueListResult{Status: usecase.PayloadOK, Leagues: out}, nil
}

func (c *Client) FetchTeams(ctx context.Context, countryName string) (usecase.TeamListResult, error) {
	countryName = strings.TrimSpace(countryName)
	if countryName == "" {
		return usecase.TeamListResult{}, fmt.Errorf("%w: country name is required", usecase.ErrInvalidInput)
	}

	raw, err := c.doRequest(ctx, "/teams", map[string]string{"country": countryName})
	if err != nil {
		return usecase.TeamListResult{}, fmt.Errorf("fetch teams country=%s: %w", countryName, err)
	}

	var env struct {
		Results  int        `json:"results"`
		Response []teamItem `json:"response"`
	}
	if err := sonic.Unmarshal(raw, &env); err != nil || env.Response == nil {
		return usecase.TeamListResult{Status: usecase.PayloadMalformed}, nil
	}
	if len(env.Response) == 0 {
		return usecase.TeamListResult{Status: usecase.PayloadEmpty}, nil
	}

	out := make([]usecase.ExternalTeam, 0, len(env.Response))
	for _, item := range env.Response {
		out = append(out, usecase.ExternalTeam{
			ID:       item.Team.ID,
			Name:     strings.TrimSpace(item.Team.Name),
			Code:     strings.TrimSpace(item.Team.Code),
			Logo:     strings.TrimSpace(item.Team.Logo),
			National: item.Team.National,
		})
	}

	return usecase.TeamListResult{Status: usecase.PayloadOK, Teams: out}, nil
}

func (c *Client) FetchStandings(ctx context.Context, leagueID int64, season int) (usecase.StandingsResult, error) {
	if leagueID <= 0 {
		return usecase.StandingsResult{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	}
	raw, err := c.doRequest(ctx, "/standings", query)
	if err != nil {
		return usecase.StandingsResult{}, fmt.Errorf("fetch standings league_id=%d season=%d: %w", leagueID, season, err)
	}

	var env struct {
		Results  int             `json:"results"`
		Response []standingsItem `json:"response"`
	}
	if err := sonic.Unmarshal(raw, &env); err != nil || env.Response == nil {
		return usecase.StandingsResult{Status: usecase.PayloadMalformed}, nil
	}
	if env.Results == 0 || len(env.Response) == 0 {
		return usecase.StandingsResult{Status: usecase.PayloadEmpty}, nil
	}

	tables := env.Response[0].League.Standings
	if len(tables) == 0 || len(tables[0]) == 0 {
		return usecase.StandingsResult{Status: usecase.PayloadMissingTable}, nil
	}

	rows := make([]usecase.ExternalStandingRow, 0, len(tables[0]))
	for _, row := range tables[0] {
		homeRaw, _ := sonic.Marshal(row.Home)
		awayRaw, _ := sonic.Marshal(row.Away)
		rows = append(rows, usecase.ExternalStandingRow{
			Rank:         row.Rank,
			TeamID:       row.Team.ID,
			Points:       row.Points,
			GoalsDiff:    row.GoalsDiff,
			Played:       row.All.Played,
			Wins:         row.All.Win,
			Draws:        row.All.Draw,
			Losses:       row.All.Lose,
			GoalsFor:     row.All.Goals.For,
			GoalsAgainst: row.All.Goals.Against,
			Form:         strings.TrimSpace(row.Form),
			Home:         homeRaw,
			Away:         awayRaw,
		})
	}

	return usecase.StandingsResult{
		Status:    usecase.PayloadOK,
		RoundName: strings.TrimSpace(env.Response[0].League.Round),
		Rows:      rows,
	}, nil
}

func (c *Client) FetchFixtures(ctx context.Context, leagueID int64, season int) (usecase.FixtureListResult, error) {
	if leagueID <= 0 {
		return usecase.FixtureListResult{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	}
	raw, err := c.doRequest(ctx, "/fixtures", query)
	if err != nil {
		return usecase.FixtureListResult{}, fmt.Errorf("fetch fixtures league_id=%d season=%d: %w", leagueID, season, err)
	}

	var env struct {
		Results  int           `json:"results"`
		Response []fixtureItem `json:"response"`
	}
	if err := sonic.Unmarshal(raw, &env); err != nil || env.Response == nil {
		return usecase.FixtureListResult{Status: usecase.PayloadMalformed}, nil
	}
	if len(env.Response) == 0 {
		return usecase.FixtureListResult{Status: usecase.PayloadEmpty}, nil
	}

	out := make([]usecase.ExternalFixture, 0, len(env.Response))
	for _, item := range env.Response {
		out = append(out, usecase.ExternalFixture{
			ID:         item.Fixture.ID,
			Date:       strings.TrimSpace(item.Fixture.Date),
			LeagueID:   item.League.ID,
			HomeTeamID: item.Teams.Home.ID,
			AwayTeamID: item.Teams.Away.ID,
			Referee:    strings.TrimSpace(item.Fixture.Referee),
			Venue:      strings.TrimSpace(item.Fixture.Venue.Name),
			Status:     strings.TrimSpace(item.Fixture.Status.Short),
		})
	}

	return usecase.FixtureListResult{Status: usecase.PayloadOK, Fixtures: out}, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "apifootball circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errAPIFootballTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if stderrors.Is(err, errAPIFootballTransient) {
			return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.key))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "apifootball request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 300
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "x-apisports-key=REDACTED")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
