package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"backtest_server/internal/infra/repository"
)

func ApplyMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&repository.TradeSetupModel{},
		&repository.SimulationRunModel{},
		&repository.SimulatedTradeModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
