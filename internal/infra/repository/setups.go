package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backtest_server/internal/domain"
)

type GormSetupRepository struct {
	db *gorm.DB
}

func NewGormSetupRepository(db *gorm.DB) (*GormSetupRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormSetupRepository{db: db}, nil
}

// SaveSetup inserts the setup, updating the mutable legs when the same
// symbol/direction/entry/date combination is submitted again.
func (r *GormSetupRepository) SaveSetup(ctx context.Context, setup domain.TradeSetup) (domain.TradeSetup, error) {
	model := toTradeSetupModel(setup)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "symbol"}, {Name: "direction"},
				{Name: "entry_price"}, {Name: "setup_date"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"take_profit": gorm.Expr("EXCLUDED.take_profit"),
				"stop_loss":   gorm.Expr("EXCLUDED.stop_loss"),
				"confidence":  gorm.Expr("EXCLUDED.confidence"),
				"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&model).Error
	if err != nil {
		return domain.TradeSetup{}, err
	}

	return model.toDomain(), nil
}

func (r *GormSetupRepository) ListSetups(ctx context.Context, limit int) ([]domain.TradeSetup, error) {
	var models []TradeSetupModel
	query := r.db.WithContext(ctx).Order("setup_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	setups := make([]domain.TradeSetup, len(models))
	for i, model := range models {
		setups[i] = model.toDomain()
	}

	return setups, nil
}

func (r *GormSetupRepository) DeleteSetup(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&TradeSetupModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
