package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_server/internal/domain"
)

func statTrade(outcome domain.Outcome, pnl float64) domain.SimulatedTrade {
	return domain.SimulatedTrade{Outcome: outcome, PnL: pnl}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)

	assert.Zero(t, stats.TotalTrades)
	assert.Zero(t, stats.WinRate)
	assert.Zero(t, stats.ProfitFactor)
	assert.Zero(t, stats.MaxDrawdown)
}

func TestComputeStatsWinRateOverResolvedOnly(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeInsufficientData, 0),
		statTrade(domain.OutcomeInsufficientData, 0),
		statTrade(domain.OutcomeInsufficientData, 0),
		statTrade(domain.OutcomeInsufficientData, 0),
		statTrade(domain.OutcomeInsufficientData, 0),
		statTrade(domain.OutcomeTPHit, 120),
		statTrade(domain.OutcomeTPHit, 80),
		statTrade(domain.OutcomeSLHit, -60),
		statTrade(domain.OutcomeSLHit, -40),
		statTrade(domain.OutcomeSLHit, -30),
	}

	stats := computeStats(trades)

	require.Equal(t, 10, stats.TotalTrades)
	require.Equal(t, 5, stats.ResolvedTrades)
	assert.InDelta(t, 40.0, stats.WinRate, 1e-9)
	assert.InDelta(t, 70.0, stats.TotalPnL, 1e-9)
}

func TestComputeStatsAverageBasedProfitFactor(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeTPHit, 100),
		statTrade(domain.OutcomeTPHit, 200),
		statTrade(domain.OutcomeSLHit, -50),
	}

	stats := computeStats(trades)

	assert.InDelta(t, 150.0, stats.AverageWin, 1e-9)
	assert.InDelta(t, 50.0, stats.AverageLoss, 1e-9)
	// avg-win / avg-loss, not sum-win / sum-loss (which would be 6).
	assert.InDelta(t, 3.0, stats.ProfitFactor, 1e-9)
}

func TestComputeStatsNoLossesZeroProfitFactor(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeTPHit, 100),
		statTrade(domain.OutcomeOpen, 0),
	}

	stats := computeStats(trades)

	assert.Equal(t, 1, stats.ResolvedTrades)
	assert.InDelta(t, 100.0, stats.WinRate, 1e-9)
	assert.Zero(t, stats.ProfitFactor)
}

func TestComputeStatsNoResolvedTrades(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeOpen, 0),
		statTrade(domain.OutcomeNotSupported, 0),
	}

	stats := computeStats(trades)

	assert.Zero(t, stats.WinRate)
	assert.Zero(t, stats.ProfitFactor)
	assert.Zero(t, stats.MaxDrawdown)
}

func TestComputeStatsMaxDrawdown(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeTPHit, 100), // cum 100, peak 100
		statTrade(domain.OutcomeSLHit, -60), // cum 40, dd 60
		statTrade(domain.OutcomeSLHit, -50), // cum -10, dd 110
		statTrade(domain.OutcomeTPHit, 200), // cum 190
	}

	stats := computeStats(trades)

	assert.InDelta(t, 110.0, stats.MaxDrawdown, 1e-9)
}

func TestComputeStatsDrawdownZeroWhenNonDecreasing(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeTPHit, 50),
		statTrade(domain.OutcomeOpen, 0),
		statTrade(domain.OutcomeTPHit, 30),
	}

	stats := computeStats(trades)

	assert.Zero(t, stats.MaxDrawdown)
}

func TestComputeStatsWinRateBounds(t *testing.T) {
	trades := []domain.SimulatedTrade{
		statTrade(domain.OutcomeSLHit, -10),
		statTrade(domain.OutcomeSLHit, -20),
	}

	stats := computeStats(trades)

	assert.GreaterOrEqual(t, stats.WinRate, 0.0)
	assert.LessOrEqual(t, stats.WinRate, 100.0)
	assert.Zero(t, stats.Winners)
}
