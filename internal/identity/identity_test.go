package identity

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/internal/testutil"
	"github.com/ayoisaiah/focusroom/store"
)

// countingAuth records calls to UpdatePassword.
type countingAuth struct {
	store.Auth
	passwordCalls int
}

func (c *countingAuth) UpdatePassword(ctx context.Context, pw string) error {
	c.passwordCalls++
	return c.Auth.UpdatePassword(ctx, pw)
}

// countingRecords records profile inserts.
type countingRecords struct {
	store.Records
	profileInserts int
}

func (c *countingRecords) InsertProfile(ctx context.Context, p store.Profile) error {
	c.profileInserts++
	return c.Records.InsertProfile(ctx, p)
}

// failingAssets fails every removal.
type failingAssets struct {
	store.Assets
}

func (failingAssets) Remove(context.Context, []string) error {
	return errors.New("permission denied")
}

type fixture struct {
	client  *store.Local
	auth    *countingAuth
	records *countingRecords
	gate    *Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c := testutil.NewLocal(t)
	auth := &countingAuth{Auth: c}
	records := &countingRecords{Records: c}

	return &fixture{
		client:  c,
		auth:    auth,
		records: records,
		gate:    NewGate(auth, records, c),
	}
}

func TestSignUpProvisionsProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.gate.SignUp(ctx, "ada.lovelace@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace", id.DisplayName)
	assert.Empty(t, id.AvatarURL)

	p, err := f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace", p.Username)

	current, ok := f.gate.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestProvisioningIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.gate.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	restored, ok, err := f.gate.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id.UserID, restored.UserID)

	assert.Equal(t, 1, f.records.profileInserts)

	profiles, err := f.client.ListProfiles(ctx, []string{id.UserID})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestRestoreWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, ok, err := f.gate.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignInErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gate.SignIn(ctx, " ", "secret1")
	assert.True(t, apperr.IsValidation(err))

	_, err = f.gate.SignIn(ctx, "nobody@example.com", "secret1")
	require.Error(t, err)
	assert.True(t, apperr.IsStore(err))
	assert.Equal(t, store.ErrInvalidCredentials.Error(), err.Error())

	_, err = f.gate.SignUp(ctx, "ada@example.com", "12345")
	assert.True(t, apperr.IsValidation(err))
}

func TestOnChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var seen []*Identity

	unsubscribe := f.gate.OnChange(func(id *Identity) {
		seen = append(seen, id)
	})

	_, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.gate.SignOut(ctx))

	unsubscribe()

	_, err = f.gate.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "ada", seen[0].DisplayName)
	assert.Nil(t, seen[1])
}

func TestFollowsSessionEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	var seen []*Identity

	f.gate.OnChange(func(id *Identity) {
		seen = append(seen, id)
	})

	// ended outside the gate, e.g. by another command sharing the store
	require.NoError(t, f.client.SignOut(ctx))

	_, ok := f.gate.Current()
	assert.False(t, ok)
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	require.NoError(t, f.gate.SignOut(ctx))
	assert.Len(t, seen, 1)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	for _, pw := range []string{"", "12345", "  123  "} {
		err = f.gate.ChangePassword(ctx, pw)
		assert.True(t, apperr.IsValidation(err), pw)
	}

	assert.Zero(t, f.auth.passwordCalls)

	require.NoError(t, f.gate.ChangePassword(ctx, "changed1"))
	assert.Equal(t, 1, f.auth.passwordCalls)

	require.NoError(t, f.gate.SignOut(ctx))

	err = f.gate.ChangePassword(ctx, "changed2")
	require.Error(t, err)
	assert.True(t, apperr.IsStore(err))
	assert.Equal(t, store.ErrUnauthenticated.Error(), err.Error())
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.True(t, apperr.IsValidation(f.gate.Rename(ctx, "Ada")))

	id, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	assert.True(t, apperr.IsValidation(f.gate.Rename(ctx, "   ")))

	require.NoError(t, f.gate.Rename(ctx, " Ada L. "))

	p, err := f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", p.Username)

	current, _ := f.gate.Current()
	assert.Equal(t, "Ada L.", current.DisplayName)
}

func TestAvatarLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.gate.UploadAvatar(ctx, "me.PNG", strings.NewReader("png")))

	p, err := f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)

	pngPath, ok := f.client.PathFromURL(p.AvatarURL)
	require.True(t, ok)
	assert.Equal(t, "avatars/"+id.UserID+".png", pngPath)

	require.NoError(t, f.gate.UploadAvatar(ctx, "me.jpg", strings.NewReader("jpg")))

	p, err = f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.AvatarURL, id.UserID+".jpg"))

	// the previous asset is removed once replaced
	_, err = os.Stat(strings.TrimPrefix(f.client.PublicURL(pngPath), "file://"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, f.gate.DeleteAvatar(ctx))

	p, err = f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)

	current, _ := f.gate.Current()
	assert.Empty(t, current.AvatarURL)

	// nothing left to delete
	require.NoError(t, f.gate.DeleteAvatar(ctx))
}

func TestDeleteAvatarToleratesMissingAsset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.gate.UploadAvatar(ctx, "me.png", strings.NewReader("png")))

	require.NoError(t, f.client.Remove(ctx, []string{AvatarPath(id.UserID, "me.png")}))
	require.NoError(t, f.gate.DeleteAvatar(ctx))
}

func TestDeleteAvatarIgnoresRemovalFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.gate = NewGate(f.auth, f.records, failingAssets{Assets: f.client})

	id, err := f.gate.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.gate.UploadAvatar(ctx, "me.png", strings.NewReader("png")))
	require.NoError(t, f.gate.DeleteAvatar(ctx))

	p, err := f.client.GetProfile(ctx, id.UserID)
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)
}
