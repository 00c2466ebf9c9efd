package utils

import (
	"io" // Writers for log output
	"os" // Stdout

	"github.com/sirupsen/logrus"       // Logrus for structured logging
	"gopkg.in/natefinch/lumberjack.v2" // Rotating log files
)

// LoggerOptions configures the global logrus logger
type LoggerOptions struct {
	Level      string // Level name, info when unparsable
	JSON       bool   // JSON output instead of text
	File       string // Rotated file, stdout only when empty
	MaxSize    int    // Megabytes per file
	MaxBackups int    // Rotated files kept
	MaxAge     int    // Days rotated files are kept
}

// SetupLogger configures the global logrus logger and returns its writer
func SetupLogger(opts LoggerOptions) io.Writer {
	level, err := logrus.ParseLevel(opts.Level) // Parse configured level
	if err != nil {
		level = logrus.InfoLevel // Fall back to info
	}
	logrus.SetLevel(level)
	if opts.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	var out io.Writer = os.Stdout // Always log to stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,       // Log file path
			MaxSize:    opts.MaxSize,    // Megabytes before rotation
			MaxBackups: opts.MaxBackups, // Old files kept
			MaxAge:     opts.MaxAge,     // Days old files are kept
			Compress:   true,            // Gzip rotated files
		})
	}
	logrus.SetOutput(out)
	return out
}
