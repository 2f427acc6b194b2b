package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"backtest_server/internal/domain"
)

type stubProvider struct {
	bars  map[string][]domain.PriceBar
	errs  map[string]error
	calls map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		bars:  map[string][]domain.PriceBar{},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (p *stubProvider) FetchDailyBars(_ context.Context, symbol string, _, _ time.Time, _ int) ([]domain.PriceBar, error) {
	p.calls[symbol]++
	if err, ok := p.errs[symbol]; ok {
		return nil, err
	}
	return p.bars[symbol], nil
}

type stubNotifier struct {
	notifications []domain.Notification
}

func (n *stubNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.notifications = append(n.notifications, notification)
}

func newTestService(t *testing.T, provider domain.PriceSeriesProvider, notifier domain.Notifier) *SimulationService {
	t.Helper()
	service, err := NewSimulationService(provider, nil, nil, notifier, domain.SimulationParams{
		PositionSize: 1,
		Leverage:     100,
		ExtendDays:   7,
	})
	if err != nil {
		t.Fatalf("new simulation service: %v", err)
	}
	return service
}

func TestRunEmptyInput(t *testing.T) {
	service := newTestService(t, newStubProvider(), nil)

	result, err := service.Run(context.Background(), nil, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(result.Trades))
	}
	if result.Stats.TotalTrades != 0 {
		t.Fatalf("expected empty stats, got %+v", result.Stats)
	}
}

func TestRunGroupsFetchOncePerInstrument(t *testing.T) {
	provider := newStubProvider()
	provider.bars["EUR/USD"] = []domain.PriceBar{
		bar(1, 1.0732, 1.0760, 1.0710, 1.0745),
		bar(2, 1.0745, 1.0850, 1.0720, 1.0830),
	}

	setups := []domain.TradeSetup{
		longSetup(),
		{Symbol: "EUR/USD", Direction: domain.DirectionLong, EntryPrice: 1.0740, TakeProfit: 1.0800, StopLoss: 1.0700, SetupDate: day(1)},
		{Symbol: "EUR/USD", Direction: domain.DirectionShort, EntryPrice: 1.0750, TakeProfit: 1.0600, StopLoss: 1.0900, SetupDate: day(2)},
	}

	service := newTestService(t, provider, nil)
	result, err := service.Run(context.Background(), setups, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if provider.calls["EUR/USD"] != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls["EUR/USD"])
	}
	if len(result.Trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(result.Trades))
	}
}

func TestRunUnsortedBarsAreSortedBeforeResolution(t *testing.T) {
	provider := newStubProvider()
	// Newest-first, the way time-series feeds deliver them.
	provider.bars["EUR/USD"] = []domain.PriceBar{
		bar(3, 1.0790, 1.0840, 1.0770, 1.0820),
		bar(2, 1.0745, 1.0800, 1.0720, 1.0790),
		bar(1, 1.0732, 1.0760, 1.0710, 1.0745),
	}

	service := newTestService(t, provider, nil)
	result, err := service.Run(context.Background(), []domain.TradeSetup{longSetup()}, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	trade := result.Trades[0]
	if trade.Outcome != domain.OutcomeTPHit {
		t.Fatalf("expected tp_hit, got %s", trade.Outcome)
	}
	if trade.BarsToResolution != 3 {
		t.Fatalf("expected 3 bars to resolution, got %d", trade.BarsToResolution)
	}
}

func TestRunNotSupportedFlagsWholeGroup(t *testing.T) {
	provider := newStubProvider()
	provider.errs["EUR/USD"] = domain.ErrInstrumentNotSupported
	provider.bars["XAUUSD"] = []domain.PriceBar{
		bar(1, 2300, 2360, 2290, 2350),
	}

	setups := []domain.TradeSetup{
		longSetup(),
		{Symbol: "EUR/USD", Direction: domain.DirectionShort, EntryPrice: 1.08, TakeProfit: 1.06, StopLoss: 1.10, SetupDate: day(1)},
		{Symbol: "XAUUSD", Direction: domain.DirectionLong, EntryPrice: 2300, TakeProfit: 2350, StopLoss: 2250, SetupDate: day(1)},
	}

	service := newTestService(t, provider, nil)
	result, err := service.Run(context.Background(), setups, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var notSupported, resolved int
	for _, trade := range result.Trades {
		switch trade.Outcome {
		case domain.OutcomeNotSupported:
			notSupported++
			if trade.PnL != 0 {
				t.Fatalf("not_supported trade must carry zero pnl, got %f", trade.PnL)
			}
		case domain.OutcomeTPHit:
			resolved++
		}
	}
	if notSupported != 2 {
		t.Fatalf("expected 2 not_supported trades, got %d", notSupported)
	}
	if resolved != 1 {
		t.Fatalf("expected the XAUUSD trade to resolve, got %d", resolved)
	}
}

func TestRunFetchFailureIsolatedPerGroup(t *testing.T) {
	provider := newStubProvider()
	provider.errs["GBP/USD"] = errors.New("upstream timeout")
	provider.bars["EUR/USD"] = []domain.PriceBar{
		bar(1, 1.0732, 1.0850, 1.0710, 1.0830),
	}

	notifier := &stubNotifier{}
	setups := []domain.TradeSetup{
		longSetup(),
		{Symbol: "GBP/USD", Direction: domain.DirectionLong, EntryPrice: 1.27, TakeProfit: 1.29, StopLoss: 1.25, SetupDate: day(1)},
		{Symbol: "GBP/USD", Direction: domain.DirectionShort, EntryPrice: 1.27, TakeProfit: 1.25, StopLoss: 1.29, SetupDate: day(2)},
	}

	service := newTestService(t, provider, notifier)
	result, err := service.Run(context.Background(), setups, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run must not abort on a single group failure: %v", err)
	}

	var insufficient int
	for _, trade := range result.Trades {
		if trade.Outcome == domain.OutcomeInsufficientData {
			insufficient++
		}
	}
	if insufficient != 2 {
		t.Fatalf("expected 2 insufficient_data trades, got %d", insufficient)
	}
	if len(notifier.notifications) != 1 {
		t.Fatalf("expected 1 notification for the failed instrument, got %d", len(notifier.notifications))
	}
	if notifier.notifications[0].Instrument != "GBP/USD" {
		t.Fatalf("unexpected notification instrument: %s", notifier.notifications[0].Instrument)
	}
}

func TestRunStatsCoverResolvedTradesOnly(t *testing.T) {
	provider := newStubProvider()
	provider.errs["GBP/USD"] = domain.ErrNoPriceData
	// Wide-enough bars so every EUR/USD setup resolves.
	provider.bars["EUR/USD"] = []domain.PriceBar{
		bar(1, 1.0732, 1.0850, 1.0650, 1.0830),
	}

	setups := []domain.TradeSetup{
		// Resolves sl_hit: the wide bar touches both levels, stop wins.
		longSetup(),
		// Resolves tp_hit: no stop set.
		{Symbol: "EUR/USD", Direction: domain.DirectionLong, EntryPrice: 1.0732, TakeProfit: 1.0835, SetupDate: day(1)},
		{Symbol: "GBP/USD", Direction: domain.DirectionLong, EntryPrice: 1.27, TakeProfit: 1.29, StopLoss: 1.25, SetupDate: day(1)},
	}

	service := newTestService(t, provider, &stubNotifier{})
	result, err := service.Run(context.Background(), setups, domain.SimulationParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := result.Stats
	if stats.TotalTrades != 3 {
		t.Fatalf("expected 3 total trades, got %d", stats.TotalTrades)
	}
	if stats.ResolvedTrades != 2 {
		t.Fatalf("expected 2 resolved trades, got %d", stats.ResolvedTrades)
	}
	if stats.WinRate != 50 {
		t.Fatalf("expected 50%% win rate over resolved trades, got %f", stats.WinRate)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := newTestService(t, newStubProvider(), nil)
	_, err := service.Run(ctx, []domain.TradeSetup{longSetup()}, domain.SimulationParams{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewSimulationServiceRequiresProvider(t *testing.T) {
	if _, err := NewSimulationService(nil, nil, nil, nil, domain.SimulationParams{}); err == nil {
		t.Fatal("expected error for nil provider")
	}
}
