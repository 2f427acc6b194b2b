package usecase

import (
	"math"

	"backtest_server/internal/domain"
)

// computeStats aggregates a full simulation into portfolio statistics. Win
// rate counts only resolved trades (tp_hit or sl_hit); unresolved trades
// contribute zero to the cumulative P&L path but still pass through the
// drawdown scan, which runs in processing order.
func computeStats(trades []domain.SimulatedTrade) domain.SimulationStats {
	stats := domain.SimulationStats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var sumWin, sumLoss float64
	var cumulative, peak, maxDrawdown float64

	for _, trade := range trades {
		stats.TotalPnL += trade.PnL

		if trade.Outcome.Resolved() {
			stats.ResolvedTrades++
			if trade.Outcome == domain.OutcomeTPHit {
				stats.Winners++
				sumWin += trade.PnL
			} else {
				stats.Losers++
				sumLoss += trade.PnL
			}
		}

		cumulative += trade.PnL
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	if stats.ResolvedTrades > 0 {
		stats.WinRate = 100 * float64(stats.Winners) / float64(stats.ResolvedTrades)
	}
	stats.AverageWin = safeDivide(sumWin, float64(stats.Winners))
	stats.AverageLoss = math.Abs(safeDivide(sumLoss, float64(stats.Losers)))
	// Average-based profit factor, zero when there are no losses. The
	// sum-based variant diverges whenever win/loss counts are unequal and
	// would silently change historical results.
	stats.ProfitFactor = safeDivide(stats.AverageWin, stats.AverageLoss)
	stats.MaxDrawdown = maxDrawdown

	return stats
}

func safeDivide(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	if math.Abs(b) < 1e-9 {
		return 0
	}
	return a / b
}
