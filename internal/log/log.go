package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Level logrus.Level

const (
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
	Logger.Level = logrus.InfoLevel
}

func SetLevel(level Level) {
	Logger.SetLevel(logrus.Level(level))
}

// Open points the logger at path; "-" keeps stderr, "" discards everything.
// The TUI owns the terminal, so diagnostics normally go to a file.
func Open(path string) (io.Closer, error) {
	switch path {
	case "-":
		Logger.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	case "":
		Logger.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	Logger.SetOutput(f)
	return f, nil
}

func WithField(key string, value any) *logrus.Entry {
	return Logger.WithField(key, value)
}

func Debugf(fmt string, args ...any) {
	Logger.Debugf(fmt, args...)
}

func Infof(fmt string, args ...any) {
	Logger.Infof(fmt, args...)
}

func Warnf(fmt string, args ...any) {
	Logger.Warnf(fmt, args...)
}

func Errorf(fmt string, args ...any) {
	Logger.Errorf(fmt, args...)
}
