package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInstrumentNotSupported is returned by a PriceSeriesProvider when the
// data source does not cover the requested instrument.
var ErrInstrumentNotSupported = errors.New("instrument not supported by data source")

// ErrNoPriceData is returned when the provider responds but has no bars for
// the requested window.
var ErrNoPriceData = errors.New("no price data available")

// PriceSeriesProvider fetches daily OHLC bars for an instrument over a date
// range. extendDays widens the end of the window by trailing days. Bars are
// not guaranteed to arrive sorted.
type PriceSeriesProvider interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time, extendDays int) ([]PriceBar, error)
}

// SetupRepository persists trade setups.
type SetupRepository interface {
	SaveSetup(ctx context.Context, setup TradeSetup) (TradeSetup, error)
	ListSetups(ctx context.Context, limit int) ([]TradeSetup, error)
	DeleteSetup(ctx context.Context, id int64) error
}

// SimulationRepository persists portfolio simulation runs.
type SimulationRepository interface {
	SaveRun(ctx context.Context, run SimulationRun) (SimulationRun, error)
	ListRuns(ctx context.Context, limit int) ([]SimulationRun, error)
	GetRun(ctx context.Context, id int64) (SimulationRun, error)
}

// Notifier pushes toast-style notifications to the UI layer. Implementations
// must not block the simulation run.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
