package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
	"github.com/sandevgo/tianbot/pkg/retry"
)

const (
	DefaultTimeout = 5 * time.Second
	cityCacheTTL   = 24 * time.Hour
	indexTypes     = core.IndexSport + "," + core.IndexClothing + "," + core.IndexUV
)

var ErrCityNotFound = errors.New("city not found")

type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Retry     *retry.Config
}

// Client talks to the QWeather v7 and geo v2 APIs. Lookups degrade to nil
// on any failure; callers decide what a missing piece means.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	retrier *retry.Retrier
	cities  *ristretto.Cache
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("weather base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Retry == nil {
		cfg.Retry = retry.NewQuickConfig()
	}

	cities, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create city cache: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		retrier: retry.NewRetrier(cfg.Retry),
		cities:  cities,
	}, nil
}

func (c *Client) Close() {
	c.cities.Close()
}

// LookupCity resolves a city name to its first geo match, or nil.
func (c *Client) LookupCity(ctx context.Context, name string) *core.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if v, ok := c.cities.Get(name); ok {
		loc := v.(core.Location)
		return &loc
	}

	var resp struct {
		Location []core.Location `json:"location"`
	}
	if !c.fetch(ctx, "city lookup", "/geo/v2/city/lookup", url.Values{"location": {name}}, &resp) {
		return nil
	}
	if len(resp.Location) == 0 {
		return nil
	}

	loc := resp.Location[0]
	c.cities.SetWithTTL(name, loc, 1, cityCacheTTL)
	return &loc
}

func (c *Client) Now(ctx context.Context, locationID string) *core.WeatherNow {
	var resp struct {
		Now *core.WeatherNow `json:"now"`
	}
	if !c.fetch(ctx, "weather now", "/v7/weather/now", url.Values{"location": {locationID}}, &resp) {
		return nil
	}
	return resp.Now
}

func (c *Client) Daily7d(ctx context.Context, locationID string) []core.DailyForecast {
	var resp struct {
		Daily []core.DailyForecast `json:"daily"`
	}
	if !c.fetch(ctx, "weather 7d", "/v7/weather/7d", url.Values{"location": {locationID}}, &resp) {
		return nil
	}
	return resp.Daily
}

func (c *Client) Indices(ctx context.Context, locationID string) []core.LifeIndex {
	var resp struct {
		Daily []core.LifeIndex `json:"daily"`
	}
	q := url.Values{"location": {locationID}, "type": {indexTypes}}
	if !c.fetch(ctx, "weather indices", "/v7/indices/1d", q, &resp) {
		return nil
	}
	return resp.Daily
}

// Warnings never returns nil: no data and failure both mean no known warnings.
func (c *Client) Warnings(ctx context.Context, locationID string) []core.WeatherWarning {
	var resp struct {
		Warning []core.WeatherWarning `json:"warning"`
	}
	if !c.fetch(ctx, "weather warning", "/v7/warning/now", url.Values{"location": {locationID}}, &resp) || resp.Warning == nil {
		return []core.WeatherWarning{}
	}
	return resp.Warning
}

func (c *Client) fetch(ctx context.Context, what, path string, q url.Values, out any) bool {
	body, err := c.get(ctx, path, q)
	if err == nil {
		err = json.Unmarshal(body, out)
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("call", what).Msg("weather request failed")
		return false
	}
	return true
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path + "?" + q.Encode()

	var body []byte
	err := c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", core.BotUserAgent)
		// Header auth keeps the key out of *url.Error messages.
		req.Header.Set("X-QW-Api-Key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("qweather status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("qweather status %d: %s", resp.StatusCode, string(data)))
		}

		if code := gjson.GetBytes(data, "code"); code.Exists() && code.String() != "200" {
			return retry.Permanent(fmt.Errorf("qweather code %s", code.String()))
		}

		body = data
		return nil
	})
	return body, err
}
