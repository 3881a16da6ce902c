// Package identity tracks the signed in user and their profile.
package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/store"
)

var (
	errEmptyEmail    = apperr.Validation("email cannot be empty")
	errShortPassword = apperr.Validation(
		"password should be at least 6 characters",
	)
	errEmptyName = apperr.Validation("display name cannot be empty")
	errSignedOut = apperr.Validation("you are not signed in")

	// store errors carry the cause text verbatim
	errStore = &apperr.Error{Kind: apperr.KindStore}
)

// avatarDir is the asset directory holding profile pictures.
const avatarDir = "avatars"

// Identity is the authenticated user and their public profile.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Gate holds the current identity, if any.
type Gate struct {
	auth      store.Auth
	records   store.Records
	assets    store.Assets
	current   *Identity
	listeners map[int]func(*Identity)
	next      int
	mu        sync.Mutex
}

// NewGate returns a signed out Gate. The Gate follows the sessions ended by
// auth, so a sign out or a rejected token seen by another caller of auth
// also signs the Gate out.
func NewGate(auth store.Auth, records store.Records, assets store.Assets) *Gate {
	g := &Gate{
		auth:      auth,
		records:   records,
		assets:    assets,
		listeners: make(map[int]func(*Identity)),
	}

	auth.OnSessionChange(func(s *store.Session) {
		if s == nil {
			g.signedOut()
		}
	})

	return g
}

// LocalPart returns the part of an email before the @.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Current returns the signed in identity.
func (g *Gate) Current() (Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return Identity{}, false
	}

	return *g.current, true
}

// OnChange registers fn to be called with the new identity after sign in,
// restore and sign out (nil). The returned function unregisters it.
func (g *Gate) OnChange(fn func(*Identity)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.next
	g.next++
	g.listeners[id] = fn

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Gate) set(id *Identity) {
	g.mu.Lock()

	g.current = id

	fns := make([]func(*Identity), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}

	g.mu.Unlock()

	for _, fn := range fns {
		if id == nil {
			fn(nil)
			continue
		}

		cp := *id
		fn(&cp)
	}
}

// signedOut clears the identity. Listeners are only notified if someone was
// signed in.
func (g *Gate) signedOut() {
	g.mu.Lock()
	wasSignedIn := g.current != nil
	g.mu.Unlock()

	if wasSignedIn {
		g.set(nil)
	}
}

func (g *Gate) update(fn func(id *Identity)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != nil {
		fn(g.current)
	}
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return errEmptyEmail
	}

	if len(strings.TrimSpace(password)) < store.MinPasswordLength {
		return errShortPassword
	}

	return nil
}

// SignUp registers an account and signs it in.
func (g *Gate) SignUp(ctx context.Context, email, password string) (Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return Identity{}, err
	}

	s, err := g.auth.SignUp(ctx, email, password)
	if err != nil {
		return Identity{}, errStore.Wrap(err)
	}

	return g.establish(ctx, s)
}

// SignIn starts a session for an existing account.
func (g *Gate) SignIn(ctx context.Context, email, password string) (Identity, error) {
	if strings.TrimSpace(email) == "" {
		return Identity{}, errEmptyEmail
	}

	s, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		return Identity{}, errStore.Wrap(err)
	}

	return g.establish(ctx, s)
}

// Restore resumes the stored session. ok is false if there is none.
func (g *Gate) Restore(ctx context.Context) (id Identity, ok bool, err error) {
	s, err := g.auth.GetSession(ctx)
	if err != nil {
		return Identity{}, false, errStore.Wrap(err)
	}

	if s == nil {
		g.signedOut()
		return Identity{}, false, nil
	}

	id, err = g.establish(ctx, s)
	if err != nil {
		return Identity{}, false, err
	}

	return id, true, nil
}

// SignOut ends the session.
func (g *Gate) SignOut(ctx context.Context) error {
	err := g.auth.SignOut(ctx)
	if err != nil {
		return errStore.Wrap(err)
	}

	g.signedOut()

	return nil
}

func (g *Gate) establish(ctx context.Context, s *store.Session) (Identity, error) {
	p, err := g.provision(ctx, s.User)
	if err != nil {
		return Identity{}, errStore.Wrap(err)
	}

	id := Identity{
		UserID:      s.User.ID,
		Email:       s.User.Email,
		DisplayName: p.Username,
		AvatarURL:   p.AvatarURL,
	}

	g.set(&id)

	return id, nil
}

// provision returns the profile of u, creating the default one if it does
// not exist yet.
func (g *Gate) provision(ctx context.Context, u store.User) (store.Profile, error) {
	p, err := g.records.GetProfile(ctx, u.ID)
	if err == nil {
		return p, nil
	}

	if !errors.Is(err, store.ErrNotFound) {
		return store.Profile{}, err
	}

	p = store.Profile{
		ID:       u.ID,
		Username: LocalPart(u.Email),
	}

	err = g.records.InsertProfile(ctx, p)
	if errors.Is(err, store.ErrConflict) {
		return g.records.GetProfile(ctx, u.ID)
	}

	if err != nil {
		return store.Profile{}, err
	}

	slog.Info("profile created", slog.String("user_id", u.ID))

	return p, nil
}

func (g *Gate) profile(ctx context.Context) (store.Profile, error) {
	id, ok := g.Current()
	if !ok {
		return store.Profile{}, errSignedOut
	}

	p, err := g.provision(ctx, store.User{ID: id.UserID, Email: id.Email})
	if err != nil {
		return store.Profile{}, errStore.Wrap(err)
	}

	return p, nil
}

// AvatarPath returns the asset path of the avatar of userID for a file with
// the given name.
func AvatarPath(userID, filename string) string {
	return path.Join(avatarDir, userID+strings.ToLower(filepath.Ext(filename)))
}

// UploadAvatar stores r as the avatar of the current user, replacing any
// previous one.
func (g *Gate) UploadAvatar(ctx context.Context, filename string, r io.Reader) error {
	p, err := g.profile(ctx)
	if err != nil {
		return err
	}

	assetPath := AvatarPath(p.ID, filename)

	err = g.assets.Upload(ctx, assetPath, r, store.UploadOptions{Upsert: true})
	if err != nil {
		return errStore.Wrap(err)
	}

	oldURL := p.AvatarURL
	p.AvatarURL = g.assets.PublicURL(assetPath)

	err = g.records.UpdateProfile(ctx, p)
	if err != nil {
		return errStore.Wrap(err)
	}

	g.update(func(id *Identity) {
		id.AvatarURL = p.AvatarURL
	})

	if oldPath, ok := g.assets.PathFromURL(oldURL); ok && oldPath != assetPath {
		g.removeAsset(ctx, oldPath)
	}

	return nil
}

// DeleteAvatar clears the avatar of the current user and removes the stored
// asset if possible.
func (g *Gate) DeleteAvatar(ctx context.Context) error {
	p, err := g.profile(ctx)
	if err != nil {
		return err
	}

	if p.AvatarURL == "" {
		return nil
	}

	oldURL := p.AvatarURL
	p.AvatarURL = ""

	err = g.records.UpdateProfile(ctx, p)
	if err != nil {
		return errStore.Wrap(err)
	}

	g.update(func(id *Identity) {
		id.AvatarURL = ""
	})

	if oldPath, ok := g.assets.PathFromURL(oldURL); ok {
		g.removeAsset(ctx, oldPath)
	}

	return nil
}

func (g *Gate) removeAsset(ctx context.Context, assetPath string) {
	err := g.assets.Remove(ctx, []string{assetPath})
	if err != nil {
		slog.Warn(
			"could not remove avatar",
			slog.String("path", assetPath),
			slog.Any("error", err),
		)
	}
}

// Rename changes the display name of the current user.
func (g *Gate) Rename(ctx context.Context, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return errEmptyName
	}

	p, err := g.profile(ctx)
	if err != nil {
		return err
	}

	p.Username = displayName

	err = g.records.UpdateProfile(ctx, p)
	if err != nil {
		return errStore.Wrap(err)
	}

	g.update(func(id *Identity) {
		id.DisplayName = displayName
	})

	return nil
}

// ChangePassword sets a new password for the current user.
func (g *Gate) ChangePassword(ctx context.Context, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < store.MinPasswordLength {
		return errShortPassword
	}

	err := g.auth.UpdatePassword(ctx, newPassword)
	if err != nil {
		return errStore.Wrap(err)
	}

	return nil
}
