package repository

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"backtest_server/internal/domain"
)

type TradeSetupModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Symbol     string    `gorm:"column:symbol;not null;index:idx_setup_identity,unique"`
	Direction  string    `gorm:"column:direction;not null;index:idx_setup_identity,unique"`
	EntryPrice float64   `gorm:"column:entry_price;not null;index:idx_setup_identity,unique"`
	TakeProfit float64   `gorm:"column:take_profit"`
	StopLoss   float64   `gorm:"column:stop_loss"`
	SetupDate  time.Time `gorm:"column:setup_date;not null;index:idx_setup_identity,unique"`
	Confidence float64   `gorm:"column:confidence"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TradeSetupModel) TableName() string {
	return "trade_setups"
}

func toTradeSetupModel(setup domain.TradeSetup) TradeSetupModel {
	return TradeSetupModel{
		ID:         setup.ID,
		Symbol:     setup.Symbol,
		Direction:  string(setup.Direction),
		EntryPrice: setup.EntryPrice,
		TakeProfit: setup.TakeProfit,
		StopLoss:   setup.StopLoss,
		SetupDate:  setup.SetupDate,
		Confidence: setup.Confidence,
	}
}

func (m TradeSetupModel) toDomain() domain.TradeSetup {
	return domain.TradeSetup{
		ID:         m.ID,
		Symbol:     m.Symbol,
		Direction:  domain.Direction(m.Direction),
		EntryPrice: m.EntryPrice,
		TakeProfit: m.TakeProfit,
		StopLoss:   m.StopLoss,
		SetupDate:  m.SetupDate,
		Confidence: m.Confidence,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type SimulationRunModel struct {
	ID             int64          `gorm:"column:id;primaryKey"`
	RanAt          time.Time      `gorm:"column:ran_at;not null;index"`
	Params         datatypes.JSON `gorm:"column:params"`
	TotalTrades    int            `gorm:"column:total_trades"`
	ResolvedTrades int            `gorm:"column:resolved_trades"`
	Winners        int            `gorm:"column:winners"`
	Losers         int            `gorm:"column:losers"`
	TotalPnL       float64        `gorm:"column:total_pnl"`
	WinRate        float64        `gorm:"column:win_rate"`
	AverageWin     float64        `gorm:"column:average_win"`
	AverageLoss    float64        `gorm:"column:average_loss"`
	ProfitFactor   float64        `gorm:"column:profit_factor"`
	MaxDrawdown    float64        `gorm:"column:max_drawdown"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (SimulationRunModel) TableName() string {
	return "simulation_runs"
}

func toSimulationRunModel(run domain.SimulationRun) SimulationRunModel {
	params, _ := json.Marshal(run.Params)
	return SimulationRunModel{
		ID:             run.ID,
		RanAt:          run.RanAt,
		Params:         datatypes.JSON(params),
		TotalTrades:    run.Stats.TotalTrades,
		ResolvedTrades: run.Stats.ResolvedTrades,
		Winners:        run.Stats.Winners,
		Losers:         run.Stats.Losers,
		TotalPnL:       run.Stats.TotalPnL,
		WinRate:        run.Stats.WinRate,
		AverageWin:     run.Stats.AverageWin,
		AverageLoss:    run.Stats.AverageLoss,
		ProfitFactor:   run.Stats.ProfitFactor,
		MaxDrawdown:    run.Stats.MaxDrawdown,
	}
}

func (m SimulationRunModel) toDomain() domain.SimulationRun {
	var params domain.SimulationParams
	_ = json.Unmarshal(m.Params, &params)
	return domain.SimulationRun{
		ID:     m.ID,
		RanAt:  m.RanAt,
		Params: params,
		Stats: domain.SimulationStats{
			TotalTrades:    m.TotalTrades,
			ResolvedTrades: m.ResolvedTrades,
			Winners:        m.Winners,
			Losers:         m.Losers,
			TotalPnL:       m.TotalPnL,
			WinRate:        m.WinRate,
			AverageWin:     m.AverageWin,
			AverageLoss:    m.AverageLoss,
			ProfitFactor:   m.ProfitFactor,
			MaxDrawdown:    m.MaxDrawdown,
		},
		CreatedAt: m.CreatedAt,
	}
}

type SimulatedTradeModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	RunID            int64      `gorm:"column:run_id;not null;index"`
	Position         int        `gorm:"column:position;not null"`
	SetupID          int64      `gorm:"column:setup_id"`
	Symbol           string     `gorm:"column:symbol;not null"`
	Direction        string     `gorm:"column:direction;not null"`
	EntryPrice       float64    `gorm:"column:entry_price"`
	TakeProfit       float64    `gorm:"column:take_profit"`
	StopLoss         float64    `gorm:"column:stop_loss"`
	SetupDate        time.Time  `gorm:"column:setup_date"`
	Confidence       float64    `gorm:"column:confidence"`
	Outcome          string     `gorm:"column:outcome;not null"`
	HitDate          *time.Time `gorm:"column:hit_date"`
	HitPrice         float64    `gorm:"column:hit_price"`
	BarsToResolution int        `gorm:"column:bars_to_resolution"`
	PnL              float64    `gorm:"column:pnl"`
	PnLPercent       float64    `gorm:"column:pnl_percent"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (SimulatedTradeModel) TableName() string {
	return "simulated_trades"
}

func toSimulatedTradeModel(runID int64, position int, trade domain.SimulatedTrade) SimulatedTradeModel {
	var hitDate *time.Time
	if !trade.HitDate.IsZero() {
		d := trade.HitDate
		hitDate = &d
	}
	return SimulatedTradeModel{
		RunID:            runID,
		Position:         position,
		SetupID:          trade.ID,
		Symbol:           trade.Symbol,
		Direction:        string(trade.Direction),
		EntryPrice:       trade.EntryPrice,
		TakeProfit:       trade.TakeProfit,
		StopLoss:         trade.StopLoss,
		SetupDate:        trade.SetupDate,
		Confidence:       trade.Confidence,
		Outcome:          string(trade.Outcome),
		HitDate:          hitDate,
		HitPrice:         trade.HitPrice,
		BarsToResolution: trade.BarsToResolution,
		PnL:              trade.PnL,
		PnLPercent:       trade.PnLPercent,
	}
}

func (m SimulatedTradeModel) toDomain() domain.SimulatedTrade {
	var hitDate time.Time
	if m.HitDate != nil {
		hitDate = *m.HitDate
	}
	return domain.SimulatedTrade{
		TradeSetup: domain.TradeSetup{
			ID:         m.SetupID,
			Symbol:     m.Symbol,
			Direction:  domain.Direction(m.Direction),
			EntryPrice: m.EntryPrice,
			TakeProfit: m.TakeProfit,
			StopLoss:   m.StopLoss,
			SetupDate:  m.SetupDate,
			Confidence: m.Confidence,
		},
		Outcome:          domain.Outcome(m.Outcome),
		HitDate:          hitDate,
		HitPrice:         m.HitPrice,
		BarsToResolution: m.BarsToResolution,
		PnL:              m.PnL,
		PnLPercent:       m.PnLPercent,
	}
}
