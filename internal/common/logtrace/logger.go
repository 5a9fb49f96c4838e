// Package logtrace provides logging and tracing utilities for the client.
// It integrates with zerolog for structured logging and supports carrying a
// request id through a context.
package logtrace

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger returns a structured logger writing to w with Unix timestamps,
// the shape the client uses for its diagnostics.
func NewLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).With().Timestamp().Logger()
}

// InitLogger points the global logger at stderr. Embedding applications that
// do not bring their own zerolog configuration can call this once at startup.
func InitLogger() {
	log.Logger = NewLogger(os.Stderr)
}
