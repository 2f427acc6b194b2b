package domain

import "time"

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Outcome is the terminal state of a simulated trade. The set is closed:
// tp_hit/sl_hit are resolved states, open means no future bar touched a
// level, and insufficient_data/not_supported are set before resolution is
// attempted when no price data is available.
type Outcome string

const (
	OutcomeTPHit            Outcome = "tp_hit"
	OutcomeSLHit            Outcome = "sl_hit"
	OutcomeOpen             Outcome = "open"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeNotSupported     Outcome = "not_supported"
)

// Resolved reports whether the outcome is a level hit. Only resolved trades
// contribute to win rate and the win/loss averages.
func (o Outcome) Resolved() bool {
	return o == OutcomeTPHit || o == OutcomeSLHit
}

// TradeSetup is a hypothetical trade to evaluate. A take-profit or stop-loss
// of zero means that leg is not defined and is never checked during
// resolution.
type TradeSetup struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entryPrice"`
	TakeProfit float64   `json:"takeProfit"`
	StopLoss   float64   `json:"stopLoss"`
	SetupDate  time.Time `json:"setupDate"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// PriceBar is one OHLC observation at daily granularity.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// SimulatedTrade is a TradeSetup enriched with its resolution outcome and
// realized P&L.
type SimulatedTrade struct {
	TradeSetup
	Outcome          Outcome   `json:"outcome"`
	HitDate          time.Time `json:"hitDate,omitempty"`
	HitPrice         float64   `json:"hitPrice,omitempty"`
	BarsToResolution int       `json:"barsToResolution"`
	PnL              float64   `json:"pnl"`
	PnLPercent       float64   `json:"pnlPercent"`
}

// SimulationStats are portfolio-level aggregates over one simulation run.
// WinRate is a percentage over resolved trades only; MaxDrawdown is the
// largest peak-to-trough decline of the cumulative P&L sequence in
// processing order.
type SimulationStats struct {
	TotalTrades    int     `json:"totalTrades"`
	ResolvedTrades int     `json:"resolvedTrades"`
	Winners        int     `json:"winners"`
	Losers         int     `json:"losers"`
	TotalPnL       float64 `json:"totalPnl"`
	WinRate        float64 `json:"winRate"`
	AverageWin     float64 `json:"averageWin"`
	AverageLoss    float64 `json:"averageLoss"`
	ProfitFactor   float64 `json:"profitFactor"`
	MaxDrawdown    float64 `json:"maxDrawdown"`
}

// SimulationParams are the position-sizing inputs shared by every trade in a
// run. ExtendDays widens the price request past the latest setup date so
// trades near the end of the window can still resolve.
type SimulationParams struct {
	PositionSize float64 `json:"positionSize"`
	Leverage     float64 `json:"leverage"`
	ExtendDays   int     `json:"extendDays"`
}

// SimulationResult is what one run produces: the enriched trades in
// processing order plus the aggregate statistics.
type SimulationResult struct {
	Trades []SimulatedTrade `json:"trades"`
	Stats  SimulationStats  `json:"stats"`
}

// SimulationRun is a persisted portfolio simulation.
type SimulationRun struct {
	ID        int64            `json:"id"`
	RanAt     time.Time        `json:"ranAt"`
	Params    SimulationParams `json:"params"`
	Stats     SimulationStats  `json:"stats"`
	Trades    []SimulatedTrade `json:"trades,omitempty"`
	CreatedAt time.Time        `json:"createdAt,omitempty"`
}

// Notification is a toast-style message surfaced to the UI layer, e.g. when
// an instrument batch fails to fetch.
type Notification struct {
	Level      string    `json:"level"`
	Instrument string    `json:"instrument,omitempty"`
	Message    string    `json:"message"`
	Time       time.Time `json:"time"`
}
