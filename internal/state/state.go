// Package state persists the small amount of client state that survives a
// restart: the active room and the session token.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	localBucket    = "local"
	activeRoomKey  = "active_room"
	sessionKeyName = "session_token"
)

// ErrLocked is returned when another process holds the state file.
var ErrLocked = errors.New("state file is in use by another focusroom process")

// ActiveRoom is the room the user last entered.
type ActiveRoom struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Slots reads and writes the local bucket.
type Slots struct {
	db   *bolt.DB
	owns bool
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Slots, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrLocked
		}

		return nil, err
	}

	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s.owns = true

	return s, nil
}

// New uses an already open database.
func New(db *bolt.DB) (*Slots, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(localBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Slots{db: db}, nil
}

// Close closes the database if it was opened by Open.
func (s *Slots) Close() error {
	if !s.owns {
		return nil
	}

	return s.db.Close()
}

func (s *Slots) get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var v []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(localBucket)).Get([]byte(key)); data != nil {
			v = append([]byte(nil), data...)
		}

		return nil
	})

	return v, err
}

func (s *Slots) put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(localBucket))
		if value == nil {
			return b.Delete([]byte(key))
		}

		return b.Put([]byte(key), value)
	})
}

// ActiveRoom returns the persisted active room. ok is false if none is set.
func (s *Slots) ActiveRoom(ctx context.Context) (room ActiveRoom, ok bool, err error) {
	data, err := s.get(ctx, activeRoomKey)
	if err != nil || data == nil {
		return ActiveRoom{}, false, err
	}

	err = json.Unmarshal(data, &room)
	if err != nil || room.ID == "" {
		// an unreadable slot is treated as empty
		return ActiveRoom{}, false, nil
	}

	return room, true, nil
}

// SetActiveRoom persists room as the active room.
func (s *Slots) SetActiveRoom(ctx context.Context, room ActiveRoom) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	return s.put(ctx, activeRoomKey, data)
}

// ClearActiveRoom removes the active room.
func (s *Slots) ClearActiveRoom(ctx context.Context) error {
	return s.put(ctx, activeRoomKey, nil)
}

// SessionToken returns the stored session token, or "" if none.
func (s *Slots) SessionToken(ctx context.Context) (string, error) {
	data, err := s.get(ctx, sessionKeyName)

	return string(data), err
}

// SetSessionToken stores the session token.
func (s *Slots) SetSessionToken(ctx context.Context, token string) error {
	return s.put(ctx, sessionKeyName, []byte(token))
}

// ClearSessionToken removes the session token.
func (s *Slots) ClearSessionToken(ctx context.Context) error {
	return s.put(ctx, sessionKeyName, nil)
}
