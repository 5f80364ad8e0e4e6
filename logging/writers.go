package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// newLogWriter picks the destination and encoding for log lines. Unknown
// combinations fall back to stdout.
func newLogWriter(opts Options) io.Writer {
	switch opts.Format {
	case "json":
		switch opts.Output {
		case "stdout":
			return os.Stdout
		case "stderr":
			return os.Stderr
		default:
			return openLogFile(opts.Output)
		}

	case "text":
		switch opts.Output {
		case "stdout":
			return consoleWriter(os.Stdout, opts)
		case "stderr":
			return consoleWriter(os.Stderr, opts)
		default:
			c := consoleWriter(openLogFile(opts.Output), opts)
			c.NoColor = true
			return c
		}
	}

	if opts.Output != "" && opts.Format != "" {
		fmt.Println("[WARN] Unknown log format / output combination, defaulting to stdout")
	}

	return os.Stdout
}

func openLogFile(name string) io.Writer {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Println("[ERROR] Failed to open log file:", err)
		fmt.Println("[WARN] Defaulting to stdout")

		return os.Stdout
	}

	return f
}

// consoleWriter formats log lines for humans.
func consoleWriter(out io.Writer, opts Options) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: opts.TimeFormat,
		NoColor:    !opts.Colors,
	}

	writer.PartsOrder = []string{
		zerolog.TimestampFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}

	return writer
}
