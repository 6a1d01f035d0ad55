package lib

import (
	"io"
	"os"
	"strings"
	"time"

	gnarklog "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger and routes gnark's internal logging
// through it. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", Name).Logger()
	gnarklog.Set(log.With().Str("component", "gnark").Logger())
	return log
}
