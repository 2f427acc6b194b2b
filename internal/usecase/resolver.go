package usecase

import (
	"time"

	"backtest_server/internal/domain"
)

type resolution struct {
	Outcome          domain.Outcome
	HitDate          time.Time
	HitPrice         float64
	BarsToResolution int
}

// resolveTrade walks bars from the setup date forward and returns the first
// level hit. bars must be sorted ascending by date. Within a single bar the
// stop-loss is always checked before the take-profit, so when both levels
// fall inside the bar's range the trade resolves as sl_hit; bar-level OHLC
// carries no intrabar ordering, and stop-first is the conservative choice.
// A level of zero is treated as unset and never checked.
func resolveTrade(setup domain.TradeSetup, bars []domain.PriceBar) resolution {
	res := resolution{Outcome: domain.OutcomeOpen}

	for _, bar := range bars {
		if bar.Date.Before(setup.SetupDate) {
			continue
		}
		res.BarsToResolution++

		var slTouched, tpTouched bool
		if setup.Direction == domain.DirectionShort {
			slTouched = setup.StopLoss > 0 && bar.High >= setup.StopLoss
			tpTouched = setup.TakeProfit > 0 && bar.Low <= setup.TakeProfit
		} else {
			slTouched = setup.StopLoss > 0 && bar.Low <= setup.StopLoss
			tpTouched = setup.TakeProfit > 0 && bar.High >= setup.TakeProfit
		}

		if slTouched {
			res.Outcome = domain.OutcomeSLHit
			res.HitDate = bar.Date
			res.HitPrice = setup.StopLoss
			return res
		}
		if tpTouched {
			res.Outcome = domain.OutcomeTPHit
			res.HitDate = bar.Date
			res.HitPrice = setup.TakeProfit
			return res
		}
	}

	return res
}
