package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConsoleLogger writes human-readable entries to w.
func ConsoleLogger(level logrus.Level, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// FileLogger mirrors console output into a rotating JSON log file at logPath.
// An empty logPath yields a stderr-only logger and a nil closer.
func FileLogger(level logrus.Level, logPath string) (io.Closer, *logrus.Logger, error) {
	logger := ConsoleLogger(level, os.Stderr)
	if logPath == "" {
		return nil, logger, nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	}
	logger.AddHook(&writerHook{
		writer:    rotator,
		formatter: &logrus.JSONFormatter{},
		levels:    logrus.AllLevels[:level+1],
	})
	return rotator, logger, nil
}

type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *writerHook) Levels() []logrus.Level {
	return h.levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}
