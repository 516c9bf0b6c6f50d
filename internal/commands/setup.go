package commands

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onasu66/totalcash/internal/history"
	"github.com/onasu66/totalcash/internal/ledger"
)

// SetupLogger builds the process logger from the common config.
func SetupLogger(cfg CommonConfig) *log.Logger {
	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("Invalid log level", "error", err)
	}
	logger.SetLevel(level)
	return logger
}

// SetupLedger loads the timezone and opens the snapshot-backed ledger.
func SetupLedger(cfg CommonConfig, logger *log.Logger) (*ledger.Ledger, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	store, err := ledger.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	now := func() time.Time { return time.Now().In(loc) }
	return ledger.New(store, logger, now), nil
}

// SetupHistory opens the append-only history database.
func SetupHistory(cfg CommonConfig, logger *log.Logger) (*history.DB, error) {
	return history.New(cfg.DataDir, logger)
}
