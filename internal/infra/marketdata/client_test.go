package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_server/internal/domain"
)

func TestFetchDailyBarsParsesSeries(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"symbol":     r.URL.Query().Get("symbol"),
			"interval":   r.URL.Query().Get("interval"),
			"start_date": r.URL.Query().Get("start_date"),
			"end_date":   r.URL.Query().Get("end_date"),
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"values": []map[string]string{
				{"datetime": "2025-09-03", "open": "1.0745", "high": "1.0800", "low": "1.0720", "close": "1.0790"},
				{"datetime": "2025-09-02", "open": "1.0732", "high": "1.0760", "low": "1.0710", "close": "1.0745"},
				{"datetime": "bogus", "open": "x", "high": "x", "low": "x", "close": "x"},
			},
		})
	}))
	defer server.Close()

	client, err := NewTimeSeriesClient(server.URL, "test-key")
	require.NoError(t, err)

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)

	bars, err := client.FetchDailyBars(context.Background(), "EUR/USD", from, to, 7)
	require.NoError(t, err)

	// Malformed row skipped.
	require.Len(t, bars, 2)
	assert.Equal(t, 1.0745, bars[0].Open)
	assert.Equal(t, 1.0800, bars[0].High)

	assert.Equal(t, "EUR/USD", gotQuery["symbol"])
	assert.Equal(t, "1day", gotQuery["interval"])
	assert.Equal(t, "2025-09-01", gotQuery["start_date"])
	// extendDays widens the end of the window.
	assert.Equal(t, "2025-09-12", gotQuery["end_date"])
}

func TestFetchDailyBarsUnsupportedInstrument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"code":    404,
			"message": "symbol not supported by this plan",
		})
	}))
	defer server.Close()

	client, err := NewTimeSeriesClient(server.URL, "")
	require.NoError(t, err)

	_, err = client.FetchDailyBars(context.Background(), "FAKE/PAIR", time.Now(), time.Now(), 0)
	require.ErrorIs(t, err, domain.ErrInstrumentNotSupported)
}

func TestFetchDailyBarsEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"values": []map[string]string{},
		})
	}))
	defer server.Close()

	client, err := NewTimeSeriesClient(server.URL, "")
	require.NoError(t, err)

	_, err = client.FetchDailyBars(context.Background(), "EUR/USD", time.Now(), time.Now(), 0)
	require.ErrorIs(t, err, domain.ErrNoPriceData)
}

func TestFetchDailyBarsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"code":    429,
			"message": "rate limit exceeded",
		})
	}))
	defer server.Close()

	client, err := NewTimeSeriesClient(server.URL, "")
	require.NoError(t, err)

	_, err = client.FetchDailyBars(context.Background(), "EUR/USD", time.Now(), time.Now(), 0)
	require.ErrorIs(t, err, domain.ErrNoPriceData)
	require.NotErrorIs(t, err, domain.ErrInstrumentNotSupported)
}

func TestNewTimeSeriesClientRequiresBaseURL(t *testing.T) {
	_, err := NewTimeSeriesClient("  ", "key")
	require.Error(t, err)
}
