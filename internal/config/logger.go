package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/simp-lee/logger"
)

// SetupLogger builds the process logger from cfg and installs it as the slog
// default. Extra options are applied last, so callers can redirect console
// output (the admin console keeps stdout for its tables). Close the returned
// logger on exit.
func SetupLogger(cfg *LogConfig, extra ...logger.Option) (*logger.Logger, error) {
	if cfg == nil {
		return nil, errors.New("log config is nil")
	}

	log, err := logger.New(append(cfg.options(), extra...)...)
	if err != nil {
		return nil, err
	}
	log.SetDefault()
	return log, nil
}

func (c *LogConfig) options() []logger.Option {
	format := outputFormat(c.Format)
	color := c.Color == nil || *c.Color

	opts := []logger.Option{
		logger.WithLevel(parseLevel(c.Level)),
		logger.WithMiddleware(logger.ContextMiddleware()),
		logger.WithConsoleFormat(format),
		logger.WithConsoleColor(color),
	}
	if c.FilePath == "" {
		return opts
	}

	opts = append(opts, logger.WithFilePath(c.FilePath), logger.WithFileFormat(format))
	if c.MaxSizeMB > 0 {
		opts = append(opts, logger.WithMaxSizeMB(c.MaxSizeMB))
	}
	if c.RetentionDays > 0 {
		opts = append(opts, logger.WithRetentionDays(c.RetentionDays))
	}
	if c.MaxBackups > 0 {
		opts = append(opts, logger.WithMaxBackups(c.MaxBackups))
	}
	if c.CompressRotated != nil {
		opts = append(opts, logger.WithCompressRotated(*c.CompressRotated))
	}
	return opts
}

// outputFormat maps the configured name to a logger format. Unknown names use
// the custom console layout; Validate rejects them before this is reached.
func outputFormat(s string) logger.OutputFormat {
	switch strings.ToLower(s) {
	case "text":
		return logger.FormatText
	case "json":
		return logger.FormatJSON
	}
	return logger.FormatCustom
}

// parseLevel maps a level name to slog. "warning" is accepted for "warn" and
// anything unrecognised logs at info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
