package usecase

import (
	"backtest_server/internal/domain"
)

const fxContractSize = 100_000

// computePnL prices a resolved trade. Trades that never hit a level carry
// zero P&L. FX pairs are valued through pip conversion (0.01 pip size for
// JPY-quoted pairs, 0.0001 otherwise); metals, crypto and generic
// instruments are valued in raw price-difference terms. Percent P&L is
// measured against the margin required at the given leverage; any
// non-positive divisor degrades to 0 instead of failing.
func computePnL(trade domain.SimulatedTrade, params domain.SimulationParams, class domain.AssetClass) (pnlUSD, pnlPercent float64) {
	if !trade.Outcome.Resolved() {
		return 0, 0
	}

	direction := 1.0
	if trade.Direction == domain.DirectionShort {
		direction = -1.0
	}

	priceChange := trade.HitPrice - trade.EntryPrice

	var margin float64
	if class == domain.AssetFX {
		pipFactor, pipSize := 10_000.0, 0.0001
		if domain.IsJPYQuoted(trade.Symbol) {
			pipFactor, pipSize = 100.0, 0.01
		}
		pips := priceChange * pipFactor
		pipValue := params.PositionSize * fxContractSize * pipSize
		pnlUSD = pips * pipValue * direction

		if params.Leverage > 0 {
			margin = params.PositionSize * fxContractSize * trade.EntryPrice / params.Leverage
		}
	} else {
		pnlUSD = params.PositionSize * priceChange * direction

		if params.Leverage > 0 {
			margin = params.PositionSize * trade.EntryPrice / params.Leverage
		}
	}

	if margin > 0 {
		pnlPercent = pnlUSD / margin * 100
	}
	return pnlUSD, pnlPercent
}
