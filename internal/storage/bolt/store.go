package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/keys"
	"github.com/ericogr/vault-battles/internal/storage"
)

const sessionBucket = "session"

// Store provides a BoltDB-backed session store. bbolt serializes writers,
// so Transact never observes a conflict.
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

func (s *Store) CreateSession(ctx context.Context, sess *battle.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storage.PrepareNewSession(sess)
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		key := keys.SessionKey(sess.ID)
		if bucket.Get(key) != nil {
			return fmt.Errorf("session %s already exists", sess.ID)
		}
		return bucket.Put(key, payload)
	})
}

// GetSession fetches a session record by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*battle.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, storage.ErrNotFound
	}

	var sess battle.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := bucket.Get(keys.SessionKey(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &sess); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Transact runs fn inside a single bbolt read-write transaction.
func (s *Store) Transact(ctx context.Context, id string, fn storage.TxFunc) (*battle.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var committed battle.Session
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		key := keys.SessionKey(id)
		payload := bucket.Get(key)
		if payload == nil {
			return storage.ErrNotFound
		}
		// payload is only valid for the life of tx; Unmarshal copies it.
		var cur battle.Session
		if err := json.Unmarshal(payload, &cur); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		version := cur.Version
		if err := fn(&cur); err != nil {
			return err
		}
		cur.ID = id
		cur.Version = version + 1
		cur.UpdatedAt = time.Now().UTC()
		next, err := json.Marshal(&cur)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		if err := bucket.Put(key, next); err != nil {
			return err
		}
		committed = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &committed, nil
}

func (s *Store) FindIdleSessions(ctx context.Context, before time.Time) ([]battle.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]battle.Session, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			var sess battle.Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
			if sess.Status == battle.StatusActive && !sess.UpdatedAt.After(before) {
				out = append(out, sess)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
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
