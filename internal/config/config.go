package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port   string
	WSPort string
}

type DatabaseConfig struct {
	DSN string
}

type MarketDataConfig struct {
	BaseURL string
	APIKey  string
}

type SchedulerConfig struct {
	Interval time.Duration
}

type SimulationConfig struct {
	PositionSize float64
	Leverage     float64
	ExtendDays   int
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Server     ServerConfig
	Database   DatabaseConfig
	MarketData MarketDataConfig
	Scheduler  SchedulerConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
}

func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("WS_PORT", "3001")
	viper.SetDefault("DATABASE_DSN", "data/backtest.db")
	viper.SetDefault("MARKET_DATA_URL", "https://api.twelvedata.com")
	viper.SetDefault("MARKET_DATA_API_KEY", "")
	viper.SetDefault("SCHEDULER_INTERVAL", "24h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SIM_POSITION_SIZE", 1.0)
	viper.SetDefault("SIM_LEVERAGE", 100.0)
	viper.SetDefault("SIM_EXTEND_DAYS", 7)

	interval, err := time.ParseDuration(viper.GetString("SCHEDULER_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler interval: %w", err)
	}

	cfg := &AppConfig{
		Server: ServerConfig{
			Port:   viper.GetString("SERVER_PORT"),
			WSPort: viper.GetString("WS_PORT"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_DSN"),
		},
		MarketData: MarketDataConfig{
			BaseURL: viper.GetString("MARKET_DATA_URL"),
			APIKey:  viper.GetString("MARKET_DATA_API_KEY"),
		},
		Scheduler: SchedulerConfig{
			Interval: interval,
		},
		Simulation: SimulationConfig{
			PositionSize: viper.GetFloat64("SIM_POSITION_SIZE"),
			Leverage:     viper.GetFloat64("SIM_LEVERAGE"),
			ExtendDays:   viper.GetInt("SIM_EXTEND_DAYS"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.MarketData.BaseURL == "" {
		return nil, fmt.Errorf("MARKET_DATA_URL is required")
	}

	return cfg, nil
}
