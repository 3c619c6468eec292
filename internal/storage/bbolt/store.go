// Package bbolt provides the BoltDB-backed session snapshot store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/taylorbayouth/family-glitch-sub001/internal/persist"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
)

const (
	sessionBucket = "session"
	// snapshotKey is fixed: the store holds one snapshot at a time.
	snapshotKey = "current"
)

// Store provides a BoltDB-backed snapshot store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutSnapshot replaces the saved session snapshot.
func (s *Store) PutSnapshot(ctx context.Context, snapshot persist.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(snapshot.Setup.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Put([]byte(snapshotKey), payload)
	})
}

// GetSnapshot fetches the saved session snapshot.
func (s *Store) GetSnapshot(ctx context.Context) (persist.Session, error) {
	if err := ctx.Err(); err != nil {
		return persist.Session{}, err
	}
	if s == nil || s.db == nil {
		return persist.Session{}, fmt.Errorf("storage is not configured")
	}

	var snapshot persist.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := bucket.Get([]byte(snapshotKey))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return persist.Session{}, err
	}

	return snapshot, nil
}

// ClearSnapshot removes the saved snapshot, if any.
func (s *Store) ClearSnapshot(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Delete([]byte(snapshotKey))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		if err != nil {
			return fmt.Errorf("create session bucket: %w", err)
		}
		return nil
	})
}
