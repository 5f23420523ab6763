package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/codespark/inspire/core"
	"github.com/codespark/inspire/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// entryWriteChunk bounds how many entries go into one transaction, staying
// well under badger's transaction size limit for readme-sized records.
const entryWriteChunk = 64

// Store is a BadgerDB-backed SnapshotStore. One database directory holds one
// snapshot: a manifest record plus the index entries keyed by insertion
// sequence. The manifest is written last on save and read first on load, so
// an interrupted save is never mistaken for a complete snapshot.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.SnapshotStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a snapshot store at the given directory path.
// Creates the directory if it doesn't exist. With inMemory set, path is
// ignored and nothing touches disk.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
				}
			} else {
				return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", core.ErrPersistence, filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot wholesale. Prior contents are dropped
// first and the manifest is committed after every entry, making it the
// completeness marker for Load.
func (s *Store) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	if s.db.IsClosed() {
		return fmt.Errorf("%w: %w", core.ErrPersistence, storage.ErrStorageClosed)
	}

	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("%w: dropping previous snapshot: %w", core.ErrPersistence, err)
	}

	for start := 0; start < len(snapshot.Entries); start += entryWriteChunk {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", core.ErrPersistence, err)
		}

		end := min(start+entryWriteChunk, len(snapshot.Entries))
		err := s.db.Update(func(tx *badger.Txn) error {
			for seq := start; seq < end; seq++ {
				data := storage.MarshalEntry(&snapshot.Entries[seq])
				if err := tx.Set(makeEntryKey(uint64(seq)), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: writing entries: %w", core.ErrPersistence, err)
		}
	}

	manifest := &storage.Manifest{
		Version:    storage.ManifestVersion,
		Dimension:  snapshot.Dimension,
		Metric:     snapshot.Metric,
		Normalized: snapshot.Normalized,
		Count:      len(snapshot.Entries),
	}
	err := s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeManifestKey(), storage.MarshalManifest(manifest))
	})
	if err != nil {
		return fmt.Errorf("%w: writing manifest: %w", core.ErrPersistence, err)
	}

	s.logger.Debug("snapshot saved", "entries", len(snapshot.Entries), "dimension", snapshot.Dimension)
	return nil
}

// Load reads the stored snapshot. The manifest and entry records must agree
// on the entry count; anything else is a persistence error, never a partial
// snapshot.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	if s.db.IsClosed() {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, storage.ErrStorageClosed)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	var snapshot *storage.Snapshot
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestKey())
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %w", storage.ErrManifestMismatch, storage.ErrNoSnapshot)
		}
		if err != nil {
			return err
		}

		var manifest *storage.Manifest
		err = item.Value(func(val []byte) error {
			manifest, err = storage.UnmarshalManifest(val)
			return err
		})
		if err != nil {
			return err
		}
		if manifest.Version != storage.ManifestVersion {
			return fmt.Errorf("unsupported snapshot version %d", manifest.Version)
		}

		entries := make([]storage.Entry, 0, manifest.Count)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Big-endian sequence keys make iteration order insertion order.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *storage.Entry
			err := iter.Item().Value(func(val []byte) error {
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(entry.Vector) != manifest.Dimension {
				return fmt.Errorf("entry %d has dimension %d, manifest says %d",
					len(entries), len(entry.Vector), manifest.Dimension)
			}
			entries = append(entries, *entry)
		}

		if len(entries) != manifest.Count {
			return fmt.Errorf("%w: manifest says %d entries, found %d",
				storage.ErrManifestMismatch, manifest.Count, len(entries))
		}

		snapshot = &storage.Snapshot{
			Dimension:  manifest.Dimension,
			Metric:     manifest.Metric,
			Normalized: manifest.Normalized,
			Entries:    entries,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	s.logger.Debug("snapshot loaded", "entries", len(snapshot.Entries), "dimension", snapshot.Dimension)
	return snapshot, nil
}
