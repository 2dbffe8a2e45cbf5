package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type config struct {
	LogLevel       string        `env:"HSMX_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"HSMX_LOG_FORMAT" envDefault:"console"`
	LogFile        string        `env:"HSMX_LOG_FILE"`
	MetricsAddr    string        `env:"HSMX_METRICS_ADDR"`
	ChartFile      string        `env:"HSMX_CHART_FILE"`
	SnapshotFormat string        `env:"HSMX_SNAPSHOT_FORMAT" envDefault:"yaml"`
	SlowAction     time.Duration `env:"HSMX_SLOW_ACTION" envDefault:"5ms"`
}

func loadConfig() (config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
