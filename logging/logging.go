package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Altinity/site-sync/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

// Options describes where and how log lines are written.
type Options struct {
	Format     string
	Output     string
	Level      string
	TimeFormat string
	Colors     bool
}

// OptionsFromConfig reads the logging.* keys.
func OptionsFromConfig() Options {
	return Options{
		Format:     config.LoggingFormat.String(),
		Output:     config.LoggingOutput.String(),
		Level:      config.LoggingLevel.String(),
		TimeFormat: config.LoggingTimeFormat.String(),
		Colors:     config.LoggingColors.Bool(),
	}
}

// NewLogger returns a logger writing through a non-blocking diode buffer,
// and a closer that drains the buffer.
func NewLogger(opts Options) (*zerolog.Logger, io.Closer) {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.TimeFieldFormat = time.RFC3339

	// Closing the diode closes its writer too; stdout must survive a reload.
	out := struct{ io.Writer }{newLogWriter(opts)}

	wr := diode.NewWriter(out, 1000, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "dropped %d log messages\n", missed)
	})

	logger := zerolog.New(zerolog.MultiLevelWriter(wr)).With().Timestamp().Logger()

	if lvl, err := zerolog.ParseLevel(opts.Level); err == nil && opts.Level != "" {
		logger = logger.Level(lvl)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return &logger, wr
}
