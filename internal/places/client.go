// Package places fetches place details and photo URLs from the Google
// Places web service.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/placebook/internal/logger"
)

const detailsFields = "place_id,name,formatted_address,formatted_phone_number,geometry/location,types,photos"

// Options configures NewClient.
type Options struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MinInterval time.Duration // Minimum delay between two requests
	Cache       Cache         // Optional
	CacheTTL    time.Duration
	Logger      logger.Logger
}

// Client talks to the places web service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rateLimiter
	cache       Cache
	cacheTTL    time.Duration
	log         logger.Logger
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

// wait blocks until the interval since the previous call has passed or ctx
// is done.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.lastCall = time.Now()
	return nil
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://maps.googleapis.com"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		rateLimiter: newRateLimiter(opts.MinInterval),
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		log:         opts.Logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		FormattedPhone   string `json:"formatted_phone_number"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Types  []string `json:"types"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
			Width          int    `json:"width"`
			Height         int    `json:"height"`
		} `json:"photos"`
	} `json:"result"`
}

// Details returns the place, from the cache when possible.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place id", ErrPlaceNotFound)
	}

	if c.cache != nil {
		place, ok, err := c.cache.Get(ctx, placeID)
		if err != nil {
			c.log.Warn("place cache read failed", logger.String("place_id", placeID), logger.Error(err))
		} else if ok {
			return place, nil
		}
	}

	place, err := c.fetchDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, place, c.cacheTTL); err != nil {
			c.log.Warn("place cache write failed", logger.String("place_id", placeID), logger.Error(err))
		}
	}
	return place, nil
}

// Refresh drops any cached copy and fetches the place again.
func (c *Client) Refresh(ctx context.Context, placeID string) (*Place, error) {
	if c.cache != nil {
		if err := c.cache.Delete(ctx, placeID); err != nil {
			c.log.Warn("place cache delete failed", logger.String("place_id", placeID), logger.Error(err))
		}
	}
	return c.Details(ctx, placeID)
}

func (c *Client) fetchDetails(ctx context.Context, placeID string) (*Place, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)
	q.Set("key", c.apiKey)
	detailsURL := c.baseURL + "/maps/api/place/details/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "PlaceBook/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch place details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Status: "HTTP " + strconv.Itoa(resp.StatusCode)}
	}

	var body detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := statusError(body.Status, body.ErrorMessage); err != nil {
		return nil, err
	}

	r := body.Result
	place := &Place{
		ID:        r.PlaceID,
		Name:      r.Name,
		Address:   r.FormattedAddress,
		Phone:     r.FormattedPhone,
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
		Types:     r.Types,
	}
	if place.ID == "" {
		place.ID = placeID
	}
	for _, p := range r.Photos {
		if p.PhotoReference == "" {
			continue
		}
		place.Photos = append(place.Photos, Photo{Reference: p.PhotoReference, Width: p.Width, Height: p.Height})
	}
	return place, nil
}

// PhotoURL builds the URL that serves a place photo bounded by maxW x maxH.
// The service redirects it to the image itself.
func (c *Client) PhotoURL(ref string, maxW, maxH int) string {
	q := url.Values{}
	q.Set("photo_reference", ref)
	if maxW > 0 {
		q.Set("maxwidth", strconv.Itoa(maxW))
	}
	if maxH > 0 {
		q.Set("maxheight", strconv.Itoa(maxH))
	}
	q.Set("key", c.apiKey)
	return c.baseURL + "/maps/api/place/photo?" + q.Encode()
}
