package ledger

import (
	"fmt"
	"io"
	"log"

	"gorm.io/gorm"

	"appliance-alerts-backend/config"
)

// New builds the ledger selected by cfg.Backend. The returned closer releases
// backend resources and is never nil.
func New(cfg config.LedgerConfig, db *gorm.DB, logger *log.Logger) (Ledger, io.Closer, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.Retention), nopCloser{}, nil
	case "badger":
		b, err := OpenBadger(BadgerConfig{Path: cfg.Path, Retention: cfg.Retention, Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	case "database":
		if db == nil {
			return nil, nil, fmt.Errorf("ledger backend %q requires a database", cfg.Backend)
		}
		return NewDatabase(db), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
