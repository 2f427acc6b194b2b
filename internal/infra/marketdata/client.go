package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"backtest_server/internal/domain"
)

const (
	dateLayout    = "2006-01-02"
	dailyInterval = "1day"
)

// TimeSeriesClient fetches daily OHLC bars from a Twelve-Data-style
// time-series API. It implements domain.PriceSeriesProvider.
type TimeSeriesClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

type rawBar struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
}

type timeSeriesResponse struct {
	Status  string   `json:"status"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Values  []rawBar `json:"values"`
}

func NewTimeSeriesClient(baseURL, apiKey string, opts ...func(*resty.Client)) (*TimeSeriesClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	client := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	for _, opt := range opts {
		opt(client)
	}

	return &TimeSeriesClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

// FetchDailyBars requests the [from, to+extendDays] window for symbol.
// Malformed rows are skipped so the rest of the series can be used; an
// unsupported instrument maps to domain.ErrInstrumentNotSupported and an
// empty series to domain.ErrNoPriceData.
func (c *TimeSeriesClient) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time, extendDays int) ([]domain.PriceBar, error) {
	if extendDays > 0 {
		to = to.AddDate(0, 0, extendDays)
	}

	var payload timeSeriesResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"interval":   dailyInterval,
			"start_date": from.Format(dateLayout),
			"end_date":   to.Format(dateLayout),
			"apikey":     c.apiKey,
		}).
		SetResult(&payload).
		SetError(&payload).
		Get(c.baseURL + "/time_series")
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}

	if payload.Status == "error" {
		if isUnsupported(payload) {
			return nil, fmt.Errorf("%s: %w", symbol, domain.ErrInstrumentNotSupported)
		}
		return nil, fmt.Errorf("feed error for %s (code %d): %s: %w", symbol, payload.Code, payload.Message, domain.ErrNoPriceData)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("feed responded with status %d for %s: %w", resp.StatusCode(), symbol, domain.ErrNoPriceData)
	}

	bars := make([]domain.PriceBar, 0, len(payload.Values))
	for _, item := range payload.Values {
		bar, ok := parseBar(item)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrNoPriceData)
	}

	return bars, nil
}

func isUnsupported(payload timeSeriesResponse) bool {
	return payload.Code == 404 ||
		strings.Contains(strings.ToLower(payload.Message), "not supported") ||
		strings.Contains(strings.ToLower(payload.Message), "not found")
}

func parseBar(item rawBar) (domain.PriceBar, bool) {
	date, err := time.Parse(dateLayout, item.Datetime)
	if err != nil {
		// Intraday feeds return full timestamps; accept those too.
		date, err = time.Parse("2006-01-02 15:04:05", item.Datetime)
		if err != nil {
			return domain.PriceBar{}, false
		}
	}

	open, err1 := strconv.ParseFloat(item.Open, 64)
	high, err2 := strconv.ParseFloat(item.High, 64)
	low, err3 := strconv.ParseFloat(item.Low, 64)
	closePx, err4 := strconv.ParseFloat(item.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return domain.PriceBar{}, false
	}

	return domain.PriceBar{
		Date:  date.UTC(),
		Open:  open,
		High:  high,
		Low:   low,
		Close: closePx,
	}, true
}
