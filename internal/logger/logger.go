// README: Global zap logger initialisation.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Initialize builds a production zap logger at the given level and installs
// it as the process-wide default (zap.L / zap.S).
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building zap logger: %w", err)
	}

	zap.ReplaceGlobals(log)
	return nil
}
