// Package logging builds the zap logger shared by the rest of the
// application. Log output goes to a file under the data directory so it
// never interleaves with streamed chat output on the terminal.
package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the application logger. Debug mode lowers the level and
// switches to the development encoder.
func New(dataDir string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if dataDir != "" {
		cfg.OutputPaths = []string{filepath.Join(dataDir, "aidbg.log")}
		cfg.ErrorOutputPaths = cfg.OutputPaths
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
