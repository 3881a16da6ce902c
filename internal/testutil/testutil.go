package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/osutil"
	"github.com/ayoisaiah/focusroom/internal/state"
	"github.com/ayoisaiah/focusroom/store"
)

type GoldenTest interface {
	Output() ([]byte, string)
}

// CompareGoldenFile verifies that the output of an operation matches
// the expected output.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		t.Skip("skipping golden file test in Windows")
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir("testdata"),
	)

	output, goldenFileName := tc.Output()

	if output != nil {
		g.Assert(t, goldenFileName, output)
		return
	}

	f := filepath.Join("testdata", goldenFileName+".golden")
	if _, err := os.Stat(f); err == nil || errors.Is(err, os.ErrExist) {
		t.Fatalf("expected no output, but golden file exists: %s", f)
	}
}

// NewBolt opens an embedded store in a temporary directory.
func NewBolt(t *testing.T) *store.Bolt {
	t.Helper()

	b, err := store.OpenBolt(filepath.Join(t.TempDir(), "focusroom.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = b.Close()
	})

	return b
}

// NewSlots opens a local state database in a temporary directory.
func NewSlots(t *testing.T) *state.Slots {
	t.Helper()

	s, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewLocal assembles an embedded client backed by temporary files.
func NewLocal(t *testing.T) *store.Local {
	t.Helper()

	return store.NewLocal(
		NewBolt(t),
		store.NewDirAssets(filepath.Join(t.TempDir(), "assets"), ""),
		store.NewTokens("test-secret", time.Hour),
		NewSlots(t),
	)
}
