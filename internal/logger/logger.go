package logger

import "go.uber.org/zap"

// Log is process-wide logger, no-op until Initialize is called
var Log = zap.NewNop()

// New creates logger with log level
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	return cfg.Build()
}

// Initialize replaces Log with logger of the given level
func Initialize(level string) error {
	l, err := New(level)
	if err != nil {
		return err
	}
	Log = l
	return nil
}
