// Package prefs persists the user's last-used presentation preferences
// in an embedded Badger database. Persistence is best-effort: callers
// log failures and carry on.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

const prefsKey = "preferences"

// BadgerStore stores the preference overlay under a single key.
// Concurrent writers race and the last committed write wins.
type BadgerStore struct {
	db     *badger.DB
	logger *utils.Logger
}

// BadgerStoreOptions contains options for creating a BadgerStore
type BadgerStoreOptions struct {
	Directory string
	InMemory  bool
	Logger    *utils.Logger
}

// NewBadgerStore creates a new BadgerStore
func NewBadgerStore(opts BadgerStoreOptions) (*BadgerStore, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := utils.EnsureDir(opts.Directory); err != nil {
			return nil, fmt.Errorf("failed to create prefs directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open prefs store: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &BadgerStore{
		db:     db,
		logger: logger.WithComponent("prefs"),
	}, nil
}

// Merge overlays the set fields of update onto the stored preferences.
// Nil fields in the update leave the stored values untouched.
func (s *BadgerStore) Merge(ctx context.Context, update domain.PreferencesUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		current := domain.PreferencesUpdate{}

		item, err := txn.Get([]byte(prefsKey))
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &current)
			}); err != nil {
				// Unreadable stored value; start over from the update.
				s.logger.Warn().Err(err).Msg("Discarding corrupt stored preferences")
				current = domain.PreferencesUpdate{}
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			// First write.
		default:
			return fmt.Errorf("failed to read preferences: %w", err)
		}

		merged := mergeUpdates(current, update)

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to encode preferences: %w", err)
		}

		return txn.Set([]byte(prefsKey), data)
	})
}

// Load returns the stored preference overlay, or an empty overlay when
// nothing has been persisted yet.
func (s *BadgerStore) Load(ctx context.Context) (*domain.PreferencesUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefs := &domain.PreferencesUpdate{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read preferences: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func mergeUpdates(current, update domain.PreferencesUpdate) domain.PreferencesUpdate {
	if update.Tone != nil {
		current.Tone = update.Tone
	}
	if update.Verbosity != nil {
		current.Verbosity = update.Verbosity
	}
	if update.Template != nil {
		current.Template = update.Template
	}
	if update.ExportAs != nil {
		current.ExportAs = update.ExportAs
	}
	if update.IncludeTitle != nil {
		current.IncludeTitle = update.IncludeTitle
	}
	if update.IncludeTOC != nil {
		current.IncludeTOC = update.IncludeTOC
	}
	if update.SlideCount != nil {
		current.SlideCount = update.SlideCount
	}
	return current
}
