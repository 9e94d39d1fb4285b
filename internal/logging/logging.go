// Package logging builds the zerolog logger used by the CLI: a console
// sink on stderr and an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/docsync/internal/constants"
)

// Options configures Setup.
type Options struct {
	Console      io.Writer // defaults to os.Stderr
	ConsoleLevel zerolog.Level
	NoColor      bool

	// File is appended to when set. Its directory is created on demand.
	File      string
	FileLevel zerolog.Level
}

// Setup builds a logger writing to the configured sinks and installs it as
// the global zerolog logger. The returned closer releases the log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
				Out:        console,
				TimeFormat: constants.TimeFormat,
				NoColor:    opts.NoColor,
			}},
			Level: opts.ConsoleLevel,
		},
	}
	minLevel := opts.ConsoleLevel

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
				Out:        f,
				TimeFormat: constants.TimeFormat,
				NoColor:    true,
			}},
			Level: opts.FileLevel,
		})
		minLevel = min(minLevel, opts.FileLevel)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(minLevel).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
