package worker

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// asynqLogger leitet die Logs von asynq an den globalen zerolog-Logger weiter.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) {
	log.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (asynqLogger) Info(args ...any) {
	log.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (asynqLogger) Warn(args ...any) {
	log.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (asynqLogger) Error(args ...any) {
	log.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (asynqLogger) Fatal(args ...any) {
	log.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
