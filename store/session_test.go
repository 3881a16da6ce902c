package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/testutil"
	"github.com/ayoisaiah/focusroom/store"
)

func TestTokens(t *testing.T) {
	tokens := store.NewTokens("secret", time.Hour)
	u := store.User{ID: "u1", Email: "ada@example.com"}

	token, exp, err := tokens.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	got, _, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, _, err = store.NewTokens("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, store.ErrUnauthenticated)

	_, _, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}

func TestLocalAuthLifecycle(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewLocal(t)

	var events []*store.Session

	unsubscribe := c.OnSessionChange(func(s *store.Session) {
		events = append(events, s)
	})

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = c.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.User.Email)

	restored, err := c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, s.User, restored.User)

	require.NoError(t, c.UpdatePassword(ctx, "changed1"))
	assert.ErrorIs(t, c.UpdatePassword(ctx, "123"), store.ErrWeakPassword)

	require.NoError(t, c.SignOut(ctx))

	s, err = c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	assert.ErrorIs(t, c.UpdatePassword(ctx, "changed2"), store.ErrUnauthenticated)

	_, err = c.SignIn(ctx, "ada@example.com", "secret1")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	unsubscribe()

	_, err = c.SignIn(ctx, "ada@example.com", "changed1")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.NotNil(t, events[0])
	assert.Nil(t, events[1])
}

func TestGetSessionDropsInvalidToken(t *testing.T) {
	ctx := context.Background()
	slots := testutil.NewSlots(t)

	c := store.NewLocal(
		testutil.NewBolt(t),
		store.NewDirAssets(t.TempDir(), ""),
		store.NewTokens("secret", time.Hour),
		slots,
	)

	require.NoError(t, slots.SetSessionToken(ctx, "stale"))

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	token, err := slots.SessionToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
