package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var current io.Closer

// ReloadGlobalLogger replaces the global logger using the current
// configuration. The previous logger's buffer is drained first.
func ReloadGlobalLogger() {
	logger, closer := NewLogger(OptionsFromConfig())

	Flush()

	log.Logger = *logger
	zerolog.DefaultContextLogger = &log.Logger
	current = closer
}

// Flush drains buffered log lines. It is safe to call more than once.
func Flush() {
	if current == nil {
		return
	}

	_ = current.Close()
	current = nil
}
