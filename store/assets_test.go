package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/store"
)

func TestCleanAssetPath(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "avatars/u1.png", want: "avatars/u1.png"},
		{in: "/avatars/u1.png", want: "avatars/u1.png"},
		{in: "avatars/./u1.png", want: "avatars/u1.png"},
		{in: "", wantErr: true},
		{in: "../etc/passwd", wantErr: true},
		{in: "avatars/../../x", wantErr: true},
		{in: `avatars\u1.png`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := store.CleanAssetPath(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, store.ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDirAssets(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	a := store.NewDirAssets(root, "")

	err := a.Upload(ctx, "avatars/u1.png", strings.NewReader("one"), store.UploadOptions{})
	require.NoError(t, err)

	err = a.Upload(ctx, "avatars/u1.png", strings.NewReader("two"), store.UploadOptions{})
	assert.ErrorIs(t, err, store.ErrConflict)

	err = a.Upload(
		ctx,
		"avatars/u1.png",
		strings.NewReader("two"),
		store.UploadOptions{Upsert: true},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "avatars", "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	u := a.PublicURL("avatars/u1.png")
	assert.True(t, strings.HasPrefix(u, "file://"))

	p, ok := a.PathFromURL(u)
	require.True(t, ok)
	assert.Equal(t, "avatars/u1.png", p)

	_, ok = a.PathFromURL("https://elsewhere.example/avatars/u1.png")
	assert.False(t, ok)

	require.NoError(t, a.Remove(ctx, []string{"avatars/u1.png", "avatars/none.png"}))

	_, err = os.Stat(filepath.Join(root, "avatars", "u1.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirAssetsBaseURL(t *testing.T) {
	a := store.NewDirAssets(t.TempDir(), "http://localhost:8420/assets/")

	u := a.PublicURL("avatars/u1.png")
	assert.Equal(t, "http://localhost:8420/assets/avatars/u1.png", u)

	p, ok := a.PathFromURL(u)
	require.True(t, ok)
	assert.Equal(t, "avatars/u1.png", p)
}
