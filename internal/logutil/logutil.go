package logutil

import (
	"os"

	"cloud.google.com/go/compute/metadata"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogger sets up the global logger. Events below level are dropped.
func ConfigureLogger(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Caller().Stack().Logger().Sample(LevelSampler{Level: level})
	if metadata.OnGCE() {
		log.Logger = log.Hook(ErrorHook{})
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

type ErrorHook struct{}

func (h ErrorHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	e.Str("severity", level.String())
}

type LevelSampler struct {
	Level zerolog.Level
}

func (l LevelSampler) Sample(lvl zerolog.Level) bool {
	return lvl >= l.Level
}
