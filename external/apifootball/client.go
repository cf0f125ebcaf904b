package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL     = "https://api-football-v1.p.rapidapi.com/v3"
	defaultHost        = "api-football-v1.p.rapidapi.com"
	defaultTimeout     = 20 * time.Second
	maxResponseBytes   = 4 << 20
	headerRapidAPIKey  = "X-RapidAPI-Key"
	headerRapidAPIHost = "X-RapidAPI-Host"
)

var errTransient = errors.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Host           string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the api-football v3 API through RapidAPI. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.Group[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = hostFromBaseURL(baseURL)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// CurrentRound returns the league's current round label verbatim. An empty
// response means the season is between rounds.
func (c *Client) CurrentRound(ctx context.Context, cred usecase.APICredential, leagueID, season int) (string, error) {
	query := url.Values{}
	query.Set("league", strconv.Itoa(leagueID))
	query.Set("season", strconv.Itoa(season))
	query.Set("current", "true")

	var payload envelope[string]
	if err := c.doJSON(ctx, cred, "/fixtures/rounds", query, &payload); err != nil {
		return "", errors.Wrapf(err, "fetch current round league=%d season=%d", leagueID, season)
	}

	rounds := make([]string, 0, len(payload.Response))
	for _, item := range payload.Response {
		if strings.TrimSpace(item) != "" {
			rounds = append(rounds, item)
		}
	}
	if len(rounds) == 0 {
		return "", errors.Wrapf(usecase.ErrNoActiveRound, "league=%d season=%d", leagueID, season)
	}
	if len(rounds) > 1 {
		c.logger.WarnContext(ctx, "api-football reported several current rounds, using the first",
			"league_id", leagueID,
			"season", season,
			"rounds", rounds,
		)
	}
	return rounds[0], nil
}

// FixturesForRound returns the round's fixtures in upstream order.
func (c *Client) FixturesForRound(ctx context.Context, cred usecase.APICredential, leagueID, season int, roundID string) ([]usecase.RawFixture, error) {
	if strings.TrimSpace(roundID) == "" {
		return nil, errors.Wrap(usecase.ErrInvalidInput, "round id is required")
	}

	query := url.Values{}
	query.Set("league", strconv.Itoa(leagueID))
	query.Set("season", strconv.Itoa(season))
	query.Set("round", roundID)

	var payload envelope[fixtureItem]
	if err := c.doJSON(ctx, cred, "/fixtures", query, &payload); err != nil {
		return nil, errors.Wrapf(err, "fetch fixtures round=%q", roundID)
	}

	out := make([]usecase.RawFixture, 0, len(payload.Response))
	for _, item := range payload.Response {
		out = append(out, mapFixture(item))
	}
	return out, nil
}

func mapFixture(item fixtureItem) usecase.RawFixture {
	return usecase.RawFixture{
		ExternalID: item.Fixture.ID,
		Date:       item.Fixture.Date,
		HomeTeam: usecase.RawTeam{
			ExternalID: item.Teams.Home.ID,
			Name:       item.Teams.Home.Name,
			LogoURL:    item.Teams.Home.Logo,
		},
		AwayTeam: usecase.RawTeam{
			ExternalID: item.Teams.Away.ID,
			Name:       item.Teams.Away.Name,
			LogoURL:    item.Teams.Away.Logo,
		},
		HomeGoals: item.Goals.Home,
		AwayGoals: item.Goals.Away,
	}
}

func (c *Client) doJSON(ctx context.Context, cred usecase.APICredential, path string, query url.Values, target any) error {
	key := strings.TrimSpace(cred.Key)
	if key == "" {
		return errors.Wrap(usecase.ErrSecretUnavailable, "api-football key is empty")
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, key, fullURL)
			return reqErr
		}, isTransient)
		return body, execErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State(), "path", path)
		return errors.Wrap(usecase.ErrUpstreamUnavailable, "sport data provider is temporarily unavailable")
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return errors.Mark(errors.Wrap(err, "decode api-football payload"), usecase.ErrUpstreamUnavailable)
	}
	if env, ok := target.(interface{ upstreamErrors() string }); ok {
		if msg := env.upstreamErrors(); msg != "" {
			return errors.Wrapf(usecase.ErrUpstreamUnavailable, "api-football errors: %s", sanitize(msg, key))
		}
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, key, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRapidAPIKey, key)
	req.Header.Set(headerRapidAPIHost, c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Mark(errors.Wrap(ctxErr, "api-football request cancelled"), usecase.ErrUpstreamUnavailable)
		}
		err = errors.Newf("send request: %s", sanitize(err.Error(), key))
		c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", err)
		return nil, errors.Mark(errors.Mark(err, errTransient), usecase.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Mark(errors.Mark(errors.Wrap(err, "read response body"), errTransient), usecase.ErrUpstreamUnavailable)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	err = errors.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(sanitize(string(raw), key)))
	if isRetryableStatus(resp.StatusCode) {
		err = errors.Mark(err, errTransient)
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "status", resp.StatusCode)
	return nil, errors.Mark(err, usecase.ErrUpstreamUnavailable)
}

func (e envelope[T]) upstreamErrors() string {
	switch v := e.Errors.(type) {
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v[k]))
		}
		return strings.Join(parts, "; ")
	case []any:
		if len(v) == 0 {
			return ""
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

func isTransient(err error) bool {
	return errors.Is(err, errTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitize(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

func abbreviateBody(body string) string {
	const limit = 256
	body = strings.Join(strings.Fields(body), " ")
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

func hostFromBaseURL(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return defaultHost
	}
	return parsed.Host
}
