package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"backtest_server/internal/domain"
)

var ErrNoSetups = errors.New("no trade setups stored")

type SimulationService struct {
	provider  domain.PriceSeriesProvider
	setupRepo domain.SetupRepository
	runRepo   domain.SimulationRepository
	notifier  domain.Notifier
	defaults  domain.SimulationParams
}

func NewSimulationService(provider domain.PriceSeriesProvider, setupRepo domain.SetupRepository, runRepo domain.SimulationRepository, notifier domain.Notifier, defaults domain.SimulationParams) (*SimulationService, error) {
	if provider == nil {
		return nil, errors.New("price series provider required")
	}
	if defaults.ExtendDays <= 0 {
		defaults.ExtendDays = 7
	}
	return &SimulationService{
		provider:  provider,
		setupRepo: setupRepo,
		runRepo:   runRepo,
		notifier:  notifier,
		defaults:  defaults,
	}, nil
}

// Run simulates a batch of trade setups. Setups are grouped by instrument so
// the provider is called once per symbol over the group's combined date
// span; a failed fetch flags only that group and never blocks the others.
// Groups are processed in sorted-symbol order so the drawdown scan over the
// cumulative P&L path is deterministic.
func (s *SimulationService) Run(ctx context.Context, setups []domain.TradeSetup, params domain.SimulationParams) (domain.SimulationResult, error) {
	params = s.withDefaults(params)

	result := domain.SimulationResult{Trades: []domain.SimulatedTrade{}}
	if len(setups) == 0 {
		result.Stats = computeStats(nil)
		return result, nil
	}

	groups := make(map[string][]domain.TradeSetup, len(setups))
	for _, setup := range setups {
		groups[setup.Symbol] = append(groups[setup.Symbol], setup)
	}
	symbols := make([]string, 0, len(groups))
	for symbol := range groups {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return domain.SimulationResult{}, err
		}

		group := groups[symbol]
		from, to := setupDateSpan(group)

		bars, err := s.provider.FetchDailyBars(ctx, symbol, from, to, params.ExtendDays)
		switch {
		case errors.Is(err, domain.ErrInstrumentNotSupported):
			result.Trades = append(result.Trades, flagGroup(group, domain.OutcomeNotSupported)...)
			continue
		case err != nil, len(bars) == 0:
			// Fetch failures and empty windows are both terminal for the
			// group within this run; surface them as a toast and move on.
			result.Trades = append(result.Trades, flagGroup(group, domain.OutcomeInsufficientData)...)
			s.notifyFetchFailure(ctx, symbol, len(group), err)
			continue
		}

		sort.Slice(bars, func(i, j int) bool {
			return bars[i].Date.Before(bars[j].Date)
		})

		class := domain.ClassifyInstrument(symbol)
		for _, setup := range group {
			trade := domain.SimulatedTrade{TradeSetup: setup}
			res := resolveTrade(setup, bars)
			trade.Outcome = res.Outcome
			trade.HitDate = res.HitDate
			trade.HitPrice = res.HitPrice
			trade.BarsToResolution = res.BarsToResolution
			trade.PnL, trade.PnLPercent = computePnL(trade, params, class)
			result.Trades = append(result.Trades, trade)
		}
	}

	result.Stats = computeStats(result.Trades)
	return result, nil
}

// RunPortfolio simulates all stored setups and persists the run.
func (s *SimulationService) RunPortfolio(ctx context.Context, params domain.SimulationParams) (domain.SimulationRun, error) {
	if s.setupRepo == nil || s.runRepo == nil {
		return domain.SimulationRun{}, errors.New("setup and simulation repositories required")
	}

	setups, err := s.setupRepo.ListSetups(ctx, 0)
	if err != nil {
		return domain.SimulationRun{}, fmt.Errorf("list setups: %w", err)
	}
	if len(setups) == 0 {
		return domain.SimulationRun{}, ErrNoSetups
	}

	result, err := s.Run(ctx, setups, params)
	if err != nil {
		return domain.SimulationRun{}, err
	}

	run := domain.SimulationRun{
		RanAt:  time.Now().UTC(),
		Params: s.withDefaults(params),
		Stats:  result.Stats,
		Trades: result.Trades,
	}
	return s.runRepo.SaveRun(ctx, run)
}

func (s *SimulationService) CreateSetup(ctx context.Context, setup domain.TradeSetup) (domain.TradeSetup, error) {
	if s.setupRepo == nil {
		return domain.TradeSetup{}, errors.New("setup repository required")
	}
	if setup.Symbol == "" {
		return domain.TradeSetup{}, errors.New("symbol required")
	}
	if setup.Direction != domain.DirectionLong && setup.Direction != domain.DirectionShort {
		return domain.TradeSetup{}, fmt.Errorf("invalid direction %q", setup.Direction)
	}
	if setup.EntryPrice <= 0 {
		return domain.TradeSetup{}, errors.New("entry price must be positive")
	}
	if setup.TakeProfit < 0 || setup.StopLoss < 0 {
		return domain.TradeSetup{}, errors.New("take profit and stop loss must not be negative")
	}
	if setup.SetupDate.IsZero() {
		return domain.TradeSetup{}, errors.New("setup date required")
	}
	return s.setupRepo.SaveSetup(ctx, setup)
}

func (s *SimulationService) ListSetups(ctx context.Context, limit int) ([]domain.TradeSetup, error) {
	if s.setupRepo == nil {
		return nil, errors.New("setup repository required")
	}
	if limit <= 0 {
		limit = 100
	}
	return s.setupRepo.ListSetups(ctx, limit)
}

func (s *SimulationService) DeleteSetup(ctx context.Context, id int64) error {
	if s.setupRepo == nil {
		return errors.New("setup repository required")
	}
	return s.setupRepo.DeleteSetup(ctx, id)
}

func (s *SimulationService) ListRuns(ctx context.Context, limit int) ([]domain.SimulationRun, error) {
	if s.runRepo == nil {
		return nil, errors.New("simulation repository required")
	}
	if limit <= 0 {
		limit = 50
	}
	return s.runRepo.ListRuns(ctx, limit)
}

func (s *SimulationService) GetRun(ctx context.Context, id int64) (domain.SimulationRun, error) {
	if s.runRepo == nil {
		return domain.SimulationRun{}, errors.New("simulation repository required")
	}
	return s.runRepo.GetRun(ctx, id)
}

func (s *SimulationService) withDefaults(params domain.SimulationParams) domain.SimulationParams {
	if params.PositionSize <= 0 {
		params.PositionSize = s.defaults.PositionSize
	}
	if params.Leverage <= 0 {
		params.Leverage = s.defaults.Leverage
	}
	if params.ExtendDays <= 0 {
		params.ExtendDays = s.defaults.ExtendDays
	}
	return params
}

func (s *SimulationService) notifyFetchFailure(ctx context.Context, symbol string, trades int, err error) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("no price data for %s; %d trade(s) marked insufficient_data", symbol, trades)
	if err != nil && !errors.Is(err, domain.ErrNoPriceData) {
		message = fmt.Sprintf("price data fetch for %s failed: %v; %d trade(s) marked insufficient_data", symbol, err, trades)
	}
	s.notifier.Notify(ctx, domain.Notification{
		Level:      "warning",
		Instrument: symbol,
		Message:    message,
		Time:       time.Now().UTC(),
	})
}

func setupDateSpan(group []domain.TradeSetup) (from, to time.Time) {
	from, to = group[0].SetupDate, group[0].SetupDate
	for _, setup := range group[1:] {
		if setup.SetupDate.Before(from) {
			from = setup.SetupDate
		}
		if setup.SetupDate.After(to) {
			to = setup.SetupDate
		}
	}
	return from, to
}

func flagGroup(group []domain.TradeSetup, outcome domain.Outcome) []domain.SimulatedTrade {
	flagged := make([]domain.SimulatedTrade, 0, len(group))
	for _, setup := range group {
		flagged = append(flagged, domain.SimulatedTrade{
			TradeSetup: setup,
			Outcome:    outcome,
		})
	}
	return flagged
}
