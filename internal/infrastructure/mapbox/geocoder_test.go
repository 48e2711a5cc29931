package mapbox

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/config"
)

func TestGeocoder_ForwardGeocode(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/geocoding/v5/mapbox.places/")
			assert.Equal(t, "test_token", r.URL.Query().Get("access_token"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"features": [
					{"place_name": "Raleigh, North Carolina, United States", "center": [-78.6382, 35.7796]},
					{"place_name": "Raleigh Court, Virginia", "center": [-79.9900, 37.2500]}
				]
			}`)
		}))
		defer server.Close()

		geocoder := NewGeocoder(&config.MapboxConfig{
			BaseURL:        server.URL,
			AccessToken:    "test_token",
			RequestTimeout: 5 * time.Second,
		}, logger)

		place, err := geocoder.ForwardGeocode(context.Background(), "Raleigh")
		require.NoError(t, err)
		assert.Equal(t, "Raleigh, North Carolina, United States", place.PlaceName)
		assert.Equal(t, 35.7796, place.Latitude)
		assert.Equal(t, -78.6382, place.Longitude)
	})

	t.Run("no results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"features": []}`)
		}))
		defer server.Close()

		geocoder := NewGeocoder(&config.MapboxConfig{
			BaseURL:        server.URL,
			AccessToken:    "test_token",
			RequestTimeout: 5 * time.Second,
		}, logger)

		_, err := geocoder.ForwardGeocode(context.Background(), "xyzzy nowhere")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no geocoding result")
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Not Authorized"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		geocoder := NewGeocoder(&config.MapboxConfig{
			BaseURL:        server.URL,
			AccessToken:    "bad_token",
			RequestTimeout: 5 * time.Second,
		}, logger)

		_, err := geocoder.ForwardGeocode(context.Background(), "Raleigh")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("empty query", func(t *testing.T) {
		geocoder := NewGeocoder(&config.MapboxConfig{
			BaseURL:        "https://api.mapbox.com",
			AccessToken:    "test_token",
			RequestTimeout: 5 * time.Second,
		}, logger)

		_, err := geocoder.ForwardGeocode(context.Background(), "")
		assert.Error(t, err)
	})
}
