// Package hafas implements the client for the external HAFAS REST API,
// which provides station and trip data for the German railway network.
// Only the station (location) lookup is consumed by this service.
package hafas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChillLP/traewelling/internal/domain"
)

// cacheTTL is how long a lookup result stays valid in Redis. Station data
// changes rarely; an hour keeps repeated admin form submissions cheap.
const cacheTTL = time.Hour

// Client queries the HAFAS locations endpoint. Lookups are cached in Redis
// when a cache client is configured; cache failures degrade to a direct
// HTTP call so the lookup never depends on Redis availability.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
	log     *slog.Logger
}

// New constructs a Client for the given base URL. cache may be nil to
// disable caching entirely.
func New(baseURL string, cache *redis.Client, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		log:     log,
	}
}

// location is the wire format of a single HAFAS location result.
type location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationsByName returns up to limit station candidates matching the query,
// best match first. An empty result is not an error — callers decide how to
// treat "no station found".
func (c *Client) LocationsByName(ctx context.Context, query string, limit int) ([]domain.TrainStation, error) {
	key := fmt.Sprintf("hafas:locations:%d:%s", limit, query)

	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached, nil
	}

	stations, err := c.fetchLocations(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, stations)
	return stations, nil
}

func (c *Client) fetchLocations(ctx context.Context, query string, limit int) ([]domain.TrainStation, error) {
	u := fmt.Sprintf("%s/locations?query=%s&results=%d", c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("hafas.Client.LocationsByName: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hafas.Client.LocationsByName: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hafas.Client.LocationsByName: unexpected status %d", resp.StatusCode)
	}

	var locations []location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("hafas.Client.LocationsByName: decode: %w", err)
	}

	stations := make([]domain.TrainStation, 0, len(locations))
	for _, loc := range locations {
		ibnr, err := strconv.ParseInt(loc.ID, 10, 64)
		if err != nil {
			// HAFAS occasionally returns POIs with non-numeric IDs; skip them.
			continue
		}
		stations = append(stations, domain.TrainStation{
			IBNR:      ibnr,
			Name:      loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		})
	}
	return stations, nil
}

// cacheGet returns the cached stations for key, if present and decodable.
func (c *Client) cacheGet(ctx context.Context, key string) ([]domain.TrainStation, bool) {
	if c.cache == nil {
		return nil, false
	}

	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "hafas cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var stations []domain.TrainStation
	if err := json.Unmarshal(raw, &stations); err != nil {
		c.log.WarnContext(ctx, "hafas cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return stations, true
}

// cacheSet stores stations under key. Failures are logged, never surfaced.
func (c *Client) cacheSet(ctx context.Context, key string, stations []domain.TrainStation) {
	if c.cache == nil {
		return
	}

	raw, err := json.Marshal(stations)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.log.WarnContext(ctx, "hafas cache write failed", "key", key, "error", err)
	}
}
