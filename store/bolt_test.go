package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/testutil"
	"github.com/ayoisaiah/focusroom/store"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBolt(t)

	u, err := b.CreateUser(ctx, "  Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	_, err = b.CreateUser(ctx, "ada@example.com", "another")
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	_, err = b.CreateUser(ctx, "bob@example.com", "12345")
	assert.ErrorIs(t, err, store.ErrWeakPassword)

	_, err = b.CreateUser(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, store.ErrInvalidEmail)

	got, err := b.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBolt(t)

	u, err := b.CreateUser(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	got, err := b.Authenticate(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = b.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = b.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	require.NoError(t, b.SetPassword(ctx, u.ID, "changed1"))

	_, err = b.Authenticate(ctx, "ada@example.com", "changed1")
	assert.NoError(t, err)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBolt(t)

	p := store.Profile{ID: "u1", Username: "ada"}

	require.NoError(t, b.InsertProfile(ctx, p))
	assert.ErrorIs(t, b.InsertProfile(ctx, p), store.ErrConflict)

	p.AvatarURL = "file:///tmp/avatars/u1.png"
	require.NoError(t, b.UpdateProfile(ctx, p))

	got, err := b.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = b.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = b.UpdateProfile(ctx, store.Profile{ID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := b.ListProfiles(ctx, []string{"u1", "missing", "u1"})
	require.NoError(t, err)
	assert.Equal(t, []store.Profile{p}, list)
}

func TestRoomUsers(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBolt(t)

	r, err := b.InsertRoom(ctx, "Study")
	require.NoError(t, err)

	other, err := b.InsertRoom(ctx, "Gym")
	require.NoError(t, err)

	rooms, err := b.ListRooms(ctx, []string{r.ID, other.ID, "nope"})
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	_, err = b.InsertRoomUser(ctx, r.ID, "u1")
	require.NoError(t, err)

	// duplicates are allowed at this level
	_, err = b.InsertRoomUser(ctx, r.ID, "u1")
	require.NoError(t, err)

	_, err = b.InsertRoomUser(ctx, r.ID, "u2")
	require.NoError(t, err)

	_, err = b.InsertRoomUser(ctx, other.ID, "u1")
	require.NoError(t, err)

	rows, err := b.ListRoomUsers(ctx, store.RoomUserFilter{RoomID: r.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = b.DeleteRoomUsers(ctx, store.RoomUserFilter{})
	assert.ErrorIs(t, err, store.ErrInvalidFilter)

	n, err := b.DeleteRoomUsers(
		ctx,
		store.RoomUserFilter{RoomID: r.ID, UserID: "u1"},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err = b.ListRoomUsers(ctx, store.RoomUserFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, other.ID, rows[0].RoomID)

	// rooms survive membership removal
	_, err = b.GetRoom(ctx, r.ID)
	assert.NoError(t, err)
}

func TestInvitations(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBolt(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	second, err := b.InsertInvitation(ctx, store.Invitation{
		RoomID:      "r1",
		FromUser:    "u1",
		ToUserEmail: "Bob@Example.com",
		CreatedAt:   base.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, store.StatusPending, second.Status)
	assert.Equal(t, "bob@example.com", second.ToUserEmail)

	first, err := b.InsertInvitation(ctx, store.Invitation{
		RoomID:      "r2",
		FromUser:    "u1",
		ToUserEmail: "bob@example.com",
		CreatedAt:   base,
	})
	require.NoError(t, err)

	_, err = b.InsertInvitation(ctx, store.Invitation{
		RoomID:      "r2",
		FromUser:    "u1",
		ToUserEmail: "carol@example.com",
	})
	require.NoError(t, err)

	list, err := b.ListInvitations(ctx, store.InvitationFilter{
		ToUserEmail: "BOB@example.com",
		Status:      store.StatusPending,
	})
	require.NoError(t, err)

	if diff := cmp.Diff([]store.Invitation{first, second}, list); diff != "" {
		t.Fatalf("invitations mismatch (-want +got):\n%s", diff)
	}

	accepted, err := b.UpdateInvitationStatus(ctx, first.ID, store.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, store.StatusAccepted, accepted.Status)

	_, err = b.UpdateInvitationStatus(ctx, first.ID, store.StatusAccepted)
	assert.NoError(t, err)

	_, err = b.UpdateInvitationStatus(ctx, first.ID, store.StatusRejected)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = b.UpdateInvitationStatus(ctx, first.ID, store.StatusPending)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = b.UpdateInvitationStatus(ctx, "missing", store.StatusRejected)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err = b.ListInvitations(ctx, store.InvitationFilter{
		ToUserEmail: "bob@example.com",
		Status:      store.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, []store.Invitation{second}, list)
}

func TestCancelledContext(t *testing.T) {
	b := testutil.NewBolt(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.InsertRoom(ctx, "never")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLockedDatabase(t *testing.T) {
	path := t.TempDir() + "/locked.db"

	b, err := store.OpenBolt(path)
	require.NoError(t, err)

	defer b.Close()

	_, err = store.OpenBolt(path)
	assert.ErrorIs(t, err, store.ErrFocusRunning)
}
