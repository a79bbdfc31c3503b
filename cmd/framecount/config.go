package main

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"

	"github.com/getsentry/frameinfo/internal/envutil"
)

type (
	ServiceConfig struct {
		Environment string

		SentryDSN string `env:"SENTRY_DSN"`
		LogLevel  string `env:"FRAMECOUNT_LOG_LEVEL" env-default:"info"`

		// Input is the file stacks are read from, stdin when empty.
		Input string `env:"FRAMECOUNT_INPUT"`
		Top   int    `env:"FRAMECOUNT_TOP" env-default:"20"`

		// SnapshotName enables merging the counts with the stored snapshot of
		// that name and writing the result back.
		SnapshotName    string `env:"FRAMECOUNT_SNAPSHOT"`
		SnapshotsBucket string `env:"FRAMECOUNT_BUCKET"`
		BadgerPath      string `env:"FRAMECOUNT_BADGER_PATH"`
	}
)

func readConfig() (ServiceConfig, error) {
	var cfg ServiceConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return ServiceConfig{}, err
	}
	cfg.Environment = envutil.GetEnvOrFallback("SENTRY_ENVIRONMENT", "development")
	return cfg, nil
}

func (c ServiceConfig) level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
