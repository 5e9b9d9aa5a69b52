package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/placebook/internal/category"
)

const cafeLunaJSON = `{
  "status": "OK",
  "result": {
    "place_id": "ChIJ123",
    "name": "Cafe Luna",
    "formatted_address": "1 Main St",
    "formatted_phone_number": "(555) 010-0000",
    "geometry": {"location": {"lat": 40.0, "lng": -74.0}},
    "types": ["cafe", "food", "point_of_interest"],
    "photos": [{"photo_reference": "ref-1", "width": 4000, "height": 3000}]
  }
}`

func newTestServer(t *testing.T, body string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/maps/api/place/details/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestDetails_ParsesPlace(t *testing.T) {
	server := newTestServer(t, cafeLunaJSON, nil)
	defer server.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	place, err := c.Details(context.Background(), "ChIJ123")
	require.NoError(t, err)

	assert.Equal(t, "ChIJ123", place.ID)
	assert.Equal(t, "Cafe Luna", place.Name)
	assert.Equal(t, "1 Main St", place.Address)
	assert.Equal(t, "(555) 010-0000", place.Phone)
	assert.Equal(t, 40.0, place.Latitude)
	assert.Equal(t, -74.0, place.Longitude)
	assert.Equal(t, category.PlaceTypeCafe, place.PrimaryType())

	photo, ok := place.FirstPhoto()
	require.True(t, ok)
	assert.Equal(t, "ref-1", photo.Reference)
}

func TestDetails_StatusMapping(t *testing.T) {
	tests := []struct {
		status string
		want   error
	}{
		{"NOT_FOUND", ErrPlaceNotFound},
		{"INVALID_REQUEST", ErrPlaceNotFound},
		{"OVER_QUERY_LIMIT", ErrRateLimited},
		{"REQUEST_DENIED", ErrRequestDenied},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			server := newTestServer(t, `{"status":"`+tt.status+`","error_message":"nope"}`, nil)
			defer server.Close()

			c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
			_, err := c.Details(context.Background(), "x")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	server := newTestServer(t, `{"status":"UNKNOWN_ERROR"}`, nil)
	defer server.Close()
	c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL})
	_, err := c.Details(context.Background(), "x")
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "UNKNOWN_ERROR", svcErr.Status)
}

func TestDetails_NoAPIKey(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	assert.False(t, c.Configured())
	_, err := c.Details(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestDetails_UsesCache(t *testing.T) {
	var calls int32
	server := newTestServer(t, cafeLunaJSON, &calls)
	defer server.Close()

	cache := NewMemoryCache()
	c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL, Cache: cache, CacheTTL: time.Hour})
	ctx := context.Background()

	_, err := c.Details(ctx, "ChIJ123")
	require.NoError(t, err)
	_, err = c.Details(ctx, "ChIJ123")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = c.Refresh(ctx, "ChIJ123")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*Place, bool, error) {
	return nil, false, errors.New("cache down")
}
func (failingCache) Set(context.Context, *Place, time.Duration) error {
	return errors.New("cache down")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("cache down") }

func TestDetails_CacheErrorsDegradeToMiss(t *testing.T) {
	server := newTestServer(t, cafeLunaJSON, nil)
	defer server.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL, Cache: failingCache{}})
	place, err := c.Details(context.Background(), "ChIJ123")
	require.NoError(t, err)
	assert.Equal(t, "Cafe Luna", place.Name)
}

func TestRateLimiter_HonoursContext(t *testing.T) {
	rl := newRateLimiter(time.Hour)
	require.NoError(t, rl.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.wait(ctx), context.DeadlineExceeded)
}

func TestPhotoURL(t *testing.T) {
	c := NewClient(Options{APIKey: "k", BaseURL: "https://maps.example.com/"})
	raw := c.PhotoURL("ref-1", 1024, 768)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "maps.example.com", u.Host)
	assert.Equal(t, "/maps/api/place/photo", u.Path)
	assert.Equal(t, "ref-1", u.Query().Get("photo_reference"))
	assert.Equal(t, "1024", u.Query().Get("maxwidth"))
	assert.Equal(t, "768", u.Query().Get("maxheight"))
	assert.Equal(t, "k", u.Query().Get("key"))
}

func TestPrimaryType(t *testing.T) {
	assert.Equal(t, category.PlaceTypeUnknown, (&Place{}).PrimaryType())
	assert.Equal(t, category.PlaceTypeUnknown, (&Place{Types: []string{"spaceport", "cafe"}}).PrimaryType())
	assert.Equal(t, category.PlaceTypeGasStation, (&Place{Types: []string{"gas_station"}}).PrimaryType())
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Place{ID: "a", Name: "A"}, time.Minute))
	got, ok, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
