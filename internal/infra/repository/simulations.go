package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"backtest_server/internal/domain"
)

type GormSimulationRepository struct {
	db *gorm.DB
}

func NewGormSimulationRepository(db *gorm.DB) (*GormSimulationRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormSimulationRepository{db: db}, nil
}

// SaveRun stores the run header and its per-trade rows in one transaction.
// The trade rows keep their processing order so the drawdown path can be
// reconstructed when the run is read back.
func (r *GormSimulationRepository) SaveRun(ctx context.Context, run domain.SimulationRun) (domain.SimulationRun, error) {
	model := toSimulationRunModel(run)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		if len(run.Trades) == 0 {
			return nil
		}

		rows := make([]SimulatedTradeModel, len(run.Trades))
		for i, trade := range run.Trades {
			rows[i] = toSimulatedTradeModel(model.ID, i, trade)
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return domain.SimulationRun{}, err
	}

	saved := model.toDomain()
	saved.Trades = run.Trades
	return saved, nil
}

func (r *GormSimulationRepository) ListRuns(ctx context.Context, limit int) ([]domain.SimulationRun, error) {
	var models []SimulationRunModel
	query := r.db.WithContext(ctx).Order("ran_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	runs := make([]domain.SimulationRun, len(models))
	for i, model := range models {
		runs[i] = model.toDomain()
	}

	return runs, nil
}

func (r *GormSimulationRepository) GetRun(ctx context.Context, id int64) (domain.SimulationRun, error) {
	var model SimulationRunModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return domain.SimulationRun{}, err
	}

	var rows []SimulatedTradeModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", id).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return domain.SimulationRun{}, err
	}

	run := model.toDomain()
	run.Trades = make([]domain.SimulatedTrade, len(rows))
	for i, row := range rows {
		run.Trades[i] = row.toDomain()
	}

	return run, nil
}
