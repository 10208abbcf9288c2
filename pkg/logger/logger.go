package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for the given environment and
// level. In development the output is a human-readable console writer; any
// other environment keeps zerolog's default structured JSON output on stderr.
func Init(env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Fields is a shorthand for structured key-value log context.
type Fields map[string]interface{}

func Info(msg string, fields Fields) {
	log.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func Debug(msg string, fields Fields) {
	log.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func Warn(msg string, fields Fields) {
	log.Warn().Fields(map[string]interface{}(fields)).Msg(msg)
}

func Error(msg string, err error, fields Fields) {
	log.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}
