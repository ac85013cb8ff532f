// Package convlog appends processed conversations to a rotating log file,
// separate from the operational logger.
package convlog

import (
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Path       string `envconfig:"PATH" split_words:"true" default:"logs/conversations.log"`
	MaxSizeMB  int    `envconfig:"MAX_SIZE_MB" split_words:"true" default:"10"`
	MaxBackups int    `envconfig:"MAX_BACKUPS" split_words:"true" default:"3"`
}

type Logger struct {
	logger zerolog.Logger
	sink   *lumberjack.Logger
}

func New(cfg Config) *Logger {
	sink := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	return &Logger{
		logger: zerolog.New(sink).With().Timestamp().Logger(),
		sink:   sink,
	}
}

// Record writes one exchange: who wrote, what came in, what went out,
// and the analysis labels attached to the turn.
func (l *Logger) Record(clientID, message, reply, sentiment, leadScore string) {
	l.logger.Info().
		Str("client_id", clientID).
		Str("sentiment", sentiment).
		Str("lead_score", leadScore).
		Str("customer", message).
		Str("reply", reply).
		Msg("conversation")
}

func (l *Logger) Close() error {
	return l.sink.Close()
}
