package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"appliance-alerts-backend/internal/calendar"
)

const badgerPrefix = "shown/"

// BadgerConfig configures an embedded badger ledger.
type BadgerConfig struct {
	// Path is ignored when InMemory is set.
	Path      string
	InMemory  bool
	Retention time.Duration
	// Logger receives badger's internal messages. Nil silences them.
	Logger *log.Logger
}

// Badger persists the ledger in an embedded key-value store, letting badger
// expire entries through per-key TTLs.
type Badger struct {
	db        *badger.DB
	retention time.Duration
}

// badgerLogger adapts log.Logger to badger's Logger interface.
type badgerLogger struct {
	*log.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.Printf("ERROR: "+format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Printf("WARN: "+format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {}

func (l badgerLogger) Debugf(format string, args ...any) {}

// OpenBadger opens (creating if needed) a badger ledger.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger ledger: path is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create ledger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger ledger: %w", err)
	}
	return &Badger{db: db, retention: cfg.Retention}, nil
}

func (b *Badger) HasBeenShown(ctx context.Context, day calendar.Date, applianceID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	shown := false
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(badgerPrefix + Key(day, applianceID)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		shown = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("badger ledger lookup: %w", err)
	}
	return shown, nil
}

func (b *Badger) MarkShown(ctx context.Context, day calendar.Date, applianceID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerPrefix+Key(day, applianceID)), []byte(time.Now().UTC().Format(time.RFC3339)))
		if b.retention > 0 {
			e = e.WithTTL(b.retention)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger ledger write: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}
