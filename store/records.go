package store

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
	bolt "go.etcd.io/bbolt"
)

// GetProfile retrieves the profile with the given id.
func (b *Bolt) GetProfile(ctx context.Context, id string) (Profile, error) {
	var p Profile

	err := b.view(ctx, func(tx *bolt.Tx) error {
		var err error

		p, err = getJSON[Profile](tx, profilesBucket, id)

		return err
	})

	return p, err
}

// ListProfiles retrieves the profiles for ids. Ids without a profile are
// skipped.
func (b *Bolt) ListProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	return listByID[Profile](ctx, b, profilesBucket, ids)
}

// InsertProfile creates a profile. It fails with ErrConflict if one exists.
func (b *Bolt) InsertProfile(ctx context.Context, p Profile) error {
	if p.ID == "" {
		return ErrNotFound
	}

	return b.update(ctx, func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(profilesBucket)).Get([]byte(p.ID)) != nil {
			return ErrConflict
		}

		return putJSON(tx, profilesBucket, p.ID, p)
	})
}

// UpdateProfile overwrites an existing profile.
func (b *Bolt) UpdateProfile(ctx context.Context, p Profile) error {
	return b.update(ctx, func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(profilesBucket)).Get([]byte(p.ID)) == nil {
			return ErrNotFound
		}

		return putJSON(tx, profilesBucket, p.ID, p)
	})
}

// InsertRoom creates a room with a generated id.
func (b *Bolt) InsertRoom(ctx context.Context, name string) (Room, error) {
	r := Room{
		ID:   uuid.NewString(),
		Name: name,
	}

	err := b.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, roomsBucket, r.ID, r)
	})
	if err != nil {
		return Room{}, err
	}

	return r, nil
}

// GetRoom retrieves a room by id.
func (b *Bolt) GetRoom(ctx context.Context, id string) (Room, error) {
	var r Room

	err := b.view(ctx, func(tx *bolt.Tx) error {
		var err error

		r, err = getJSON[Room](tx, roomsBucket, id)

		return err
	})

	return r, err
}

// ListRooms retrieves the rooms for ids. Unknown ids are skipped.
func (b *Bolt) ListRooms(ctx context.Context, ids []string) ([]Room, error) {
	return listByID[Room](ctx, b, roomsBucket, ids)
}

// InsertRoomUser adds a membership row. Duplicate pairs are not rejected.
func (b *Bolt) InsertRoomUser(
	ctx context.Context,
	roomID, userID string,
) (RoomUser, error) {
	ru := RoomUser{
		ID:     uuid.NewString(),
		RoomID: roomID,
		UserID: userID,
	}

	err := b.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, roomUsersBucket, ru.ID, ru)
	})
	if err != nil {
		return RoomUser{}, err
	}

	return ru, nil
}

// ListRoomUsers returns the membership rows matching f.
func (b *Bolt) ListRoomUsers(
	ctx context.Context,
	f RoomUserFilter,
) ([]RoomUser, error) {
	var rows []RoomUser

	err := b.view(ctx, func(tx *bolt.Tx) error {
		var err error

		rows, err = scanJSON(tx, roomUsersBucket, f.Match)

		return err
	})

	return rows, err
}

// DeleteRoomUsers deletes the membership rows matching f.
func (b *Bolt) DeleteRoomUsers(ctx context.Context, f RoomUserFilter) (int, error) {
	if f.Empty() {
		return 0, ErrInvalidFilter
	}

	var n int

	err := b.update(ctx, func(tx *bolt.Tx) error {
		rows, err := scanJSON(tx, roomUsersBucket, f.Match)
		if err != nil {
			return err
		}

		bucket := tx.Bucket([]byte(roomUsersBucket))

		for _, ru := range rows {
			err = bucket.Delete([]byte(ru.ID))
			if err != nil {
				return err
			}
		}

		n = len(rows)

		return nil
	})

	return n, err
}

// InsertInvitation stores a new invitation with a generated id. The status
// defaults to pending and the creation time to now.
func (b *Bolt) InsertInvitation(
	ctx context.Context,
	inv Invitation,
) (Invitation, error) {
	id, err := shortid.Generate()
	if err != nil {
		return Invitation{}, err
	}

	inv.ID = id
	inv.ToUserEmail = NormalizeEmail(inv.ToUserEmail)

	if inv.Status == "" {
		inv.Status = StatusPending
	}

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = b.now().UTC()
	}

	err = b.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, invitationsBucket, inv.ID, inv)
	})
	if err != nil {
		return Invitation{}, err
	}

	return inv, nil
}

// ListInvitations returns the invitations matching f, oldest first.
func (b *Bolt) ListInvitations(
	ctx context.Context,
	f InvitationFilter,
) ([]Invitation, error) {
	f.ToUserEmail = NormalizeEmail(f.ToUserEmail)

	var invites []Invitation

	err := b.view(ctx, func(tx *bolt.Tx) error {
		var err error

		invites, err = scanJSON(tx, invitationsBucket, f.Match)

		return err
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(invites, func(a, b Invitation) int {
		return cmp.Or(
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return invites, nil
}

// UpdateInvitationStatus moves an invitation to status. A terminal status
// cannot be changed, but re-applying the same status succeeds.
func (b *Bolt) UpdateInvitationStatus(
	ctx context.Context,
	id string,
	status InvitationStatus,
) (Invitation, error) {
	if !status.Valid() {
		return Invitation{}, ErrInvalidTransition
	}

	var inv Invitation

	err := b.update(ctx, func(tx *bolt.Tx) error {
		var err error

		inv, err = getJSON[Invitation](tx, invitationsBucket, id)
		if err != nil {
			return err
		}

		if inv.Status == status {
			return nil
		}

		if inv.Status.Terminal() {
			return ErrInvalidTransition
		}

		inv.Status = status

		return putJSON(tx, invitationsBucket, id, inv)
	})

	return inv, err
}

func listByID[T any](
	ctx context.Context,
	b *Bolt,
	bucket string,
	ids []string,
) ([]T, error) {
	result := make([]T, 0, len(ids))

	err := b.view(ctx, func(tx *bolt.Tx) error {
		seen := make(map[string]bool, len(ids))

		for _, id := range ids {
			if seen[id] {
				continue
			}

			seen[id] = true

			v, err := getJSON[T](tx, bucket, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}

			if err != nil {
				return err
			}

			result = append(result, v)
		}

		return nil
	})

	return result, err
}
