package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	usersBucket       = "users"
	usersByEmail      = "users_by_email"
	profilesBucket    = "profiles"
	roomsBucket       = "rooms"
	roomUsersBucket   = "room_users"
	invitationsBucket = "invitations"
)

var buckets = []string{
	usersBucket,
	usersByEmail,
	profilesBucket,
	roomsBucket,
	roomUsersBucket,
	invitationsBucket,
}

// Bolt is a BoltDB backed implementation of Records and Accounts.
type Bolt struct {
	db  *bolt.DB
	now func() time.Time
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a held file lock surfaces as a timeout
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrFocusRunning
		}

		return nil, err
	}

	return db, nil
}

// OpenBolt opens the database at path, creating the required buckets.
func OpenBolt(path string) (*Bolt, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	b, err := NewBolt(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

// NewBolt wraps an open database, creating the required buckets.
func NewBolt(db *bolt.DB) (*Bolt, error) {
	err := db.Update(migrate)
	if err != nil {
		return nil, err
	}

	return &Bolt{
		db:  db,
		now: time.Now,
	}, nil
}

// DB exposes the underlying database so that other components can share the
// file lock.
func (b *Bolt) DB() *bolt.DB {
	return b.db
}

// Close releases the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.View(fn)
}

func (b *Bolt) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(fn)
}

// getJSON decodes the value stored at key into a T, or returns ErrNotFound.
func getJSON[T any](tx *bolt.Tx, bucket, key string) (T, error) {
	var v T

	data := tx.Bucket([]byte(bucket)).Get([]byte(key))
	if data == nil {
		return v, ErrNotFound
	}

	err := json.Unmarshal(data, &v)

	return v, err
}

func putJSON(tx *bolt.Tx, bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
}

// scanJSON decodes every value in bucket and returns those accepted by keep.
func scanJSON[T any](tx *bolt.Tx, bucket string, keep func(T) bool) ([]T, error) {
	var result []T

	cur := tx.Bucket([]byte(bucket)).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var item T

		err := json.Unmarshal(v, &item)
		if err != nil {
			return nil, err
		}

		if keep == nil || keep(item) {
			result = append(result, item)
		}
	}

	return result, nil
}
