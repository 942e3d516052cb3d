// Package bolt stores username records in an embedded bbolt database.
package bolt

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/AlexZinkM/paylink/internal/model"
)

var bucketUsernames = []byte("usernames")

// Registry persists username records keyed by name.
type Registry struct {
	db *bbolt.DB
}

// Open opens or creates the database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUsernames)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error { return r.db.Close() }

// Get returns nil, nil when name is not registered.
func (r *Registry) Get(ctx context.Context, name string) (*model.UsernameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *model.UsernameRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUsernames).Get([]byte(name))
		if data == nil {
			return nil
		}
		rec = &model.UsernameRecord{}
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(rec); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt: get %q: %w", name, err)
	}
	return rec, nil
}

// Create inserts rec unless its name is already present, in which case it returns model.ErrNameTaken.
// The check and the write share one read-write transaction, and bbolt allows only one at a time.
func (r *Registry) Create(ctx context.Context, rec *model.UsernameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("bolt: encode record: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsernames)
		key := []byte(rec.Name)
		if b.Get(key) != nil {
			return fmt.Errorf("%q: %w", rec.Name, model.ErrNameTaken)
		}
		if err := b.Put(key, buf.Bytes()); err != nil {
			return fmt.Errorf("bolt: put record: %w", err)
		}
		return nil
	})
}
