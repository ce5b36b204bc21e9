// Package blob owns the durable key-value slots backing the store: the
// serialized database image, its schema-version tag, and the session record.
package blob

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"
)

const (
	// ImageKey is the slot holding the serialized database image.
	ImageKey = "calendario_db"
	// VersionKey is the slot holding the schema-version tag of the image.
	VersionKey = "calendario_db_version"
	// SessionKey is the slot holding the serialized auth session.
	SessionKey = "calendar_auth"
)

// ErrSlotNotFound is returned when a slot has no value.
var ErrSlotNotFound = errors.New("slot not found")

// Store is a badger-backed slot store.
type Store struct {
	db *badger.DB
}

// Options configures the store.
type Options struct {
	// Path is the badger directory. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// Open opens or creates a slot store at the given path.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create blob directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetBytes retrieves the raw value of a slot.
func (s *Store) GetBytes(key string) ([]byte, error) {
	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			result = make([]byte, len(val))
			copy(result, val)
			return nil
		})
	})
	return result, err
}

// SetBytes stores a raw value under a slot key.
func (s *Store) SetBytes(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Delete clears a slot. Deleting an absent slot is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists reports whether a slot has a value.
func (s *Store) Exists(key string) (bool, error) {
	var exists bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				exists = false
				return nil
			}
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// StoreImage writes the database image under ImageKey and stamps VersionKey.
// The image is base64-encoded so the slot always holds a string-safe value.
func (s *Store) StoreImage(image []byte, version string) error {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(image)))
	base64.StdEncoding.Encode(encoded, image)

	if err := s.SetBytes(ImageKey, encoded); err != nil {
		return fmt.Errorf("failed to write image slot: %w", err)
	}
	if err := s.SetBytes(VersionKey, []byte(version)); err != nil {
		return fmt.Errorf("failed to write version slot: %w", err)
	}
	return nil
}

// LoadImage returns the stored database image if its version tag matches
// expectedVersion. On a tag mismatch the stale image is discarded, the tag is
// rewritten to expectedVersion and (nil, nil) is returned, forcing the caller
// to recreate the schema. Absent slot also returns (nil, nil).
func (s *Store) LoadImage(expectedVersion string) ([]byte, error) {
	stored, err := s.GetBytes(VersionKey)
	if err != nil && !errors.Is(err, ErrSlotNotFound) {
		return nil, fmt.Errorf("failed to read version slot: %w", err)
	}

	encoded, imgErr := s.GetBytes(ImageKey)
	if imgErr != nil {
		if errors.Is(imgErr, ErrSlotNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read image slot: %w", imgErr)
	}

	if string(stored) != expectedVersion {
		slog.Info("Schema version changed, discarding stored database image",
			"stored", string(stored), "expected", expectedVersion)
		if err := s.Delete(ImageKey); err != nil {
			return nil, fmt.Errorf("failed to discard stale image: %w", err)
		}
		if err := s.SetBytes(VersionKey, []byte(expectedVersion)); err != nil {
			return nil, fmt.Errorf("failed to rewrite version slot: %w", err)
		}
		return nil, nil
	}

	image := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(image, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored image: %w", err)
	}
	return image[:n], nil
}
