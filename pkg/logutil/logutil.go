package logutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LogIDKey  = "log_id"
	TaskIDKey = "task_id"
)

func InitZeroLog(ctx context.Context, level string) context.Context {
	// use unix time
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	zerolog.SetGlobalLevel(ParseLevel(level))

	// show caller: github.com/rs/zerolog#add-file-and-line-number-to-log
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return fmt.Sprintf("%s:%d", short, line)
	}
	log.Logger = log.With().Caller().Logger()

	return log.Logger.WithContext(ctx)
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case zerolog.LevelDebugValue:
		return zerolog.DebugLevel
	case zerolog.LevelInfoValue:
		return zerolog.InfoLevel
	case zerolog.LevelWarnValue:
		return zerolog.WarnLevel
	case zerolog.LevelErrorValue:
		return zerolog.ErrorLevel
	case zerolog.LevelFatalValue:
		return zerolog.FatalLevel
	default:
		return zerolog.TraceLevel
	}
}

// WithLogID returns a context carrying a logger tagged with a fresh log id,
// derived from the logger already on ctx.
func WithLogID(ctx context.Context) (context.Context, string) {
	return withID(ctx, LogIDKey)
}

// WithTaskID tags work that outlives its request, keeping the request's
// log id on the same logger.
func WithTaskID(ctx context.Context) (context.Context, string) {
	return withID(ctx, TaskIDKey)
}

func withID(ctx context.Context, key string) (context.Context, string) {
	id := uuid.New().String()
	logger := log.Ctx(ctx).With().Str(key, id).Logger()
	return logger.WithContext(ctx), id
}
