package store

import (
	"context"
	"errors"
	"sync"
)

// TokenSlot persists the session token between runs.
type TokenSlot interface {
	SessionToken(ctx context.Context) (string, error)
	SetSessionToken(ctx context.Context, token string) error
	ClearSessionToken(ctx context.Context) error
}

// SessionListeners is a set of session change callbacks.
type SessionListeners struct {
	fns  map[int]func(*Session)
	mu   sync.Mutex
	next int
}

// Add registers fn and returns a function that removes it.
func (l *SessionListeners) Add(fn func(*Session)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(*Session))
	}

	id := l.next
	l.next++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// Notify calls every registered callback with s.
func (l *SessionListeners) Notify(s *Session) {
	l.mu.Lock()

	fns := make([]func(*Session), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}

	l.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// LocalAuth implements Auth against local accounts, keeping the session
// token in a TokenSlot.
type LocalAuth struct {
	accounts  Accounts
	tokens    *Tokens
	slot      TokenSlot
	listeners SessionListeners
}

// NewLocalAuth returns an Auth backed by accounts.
func NewLocalAuth(accounts Accounts, tokens *Tokens, slot TokenSlot) *LocalAuth {
	return &LocalAuth{
		accounts: accounts,
		tokens:   tokens,
		slot:     slot,
	}
}

func (a *LocalAuth) establish(ctx context.Context, u User) (*Session, error) {
	token, exp, err := a.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	err = a.slot.SetSessionToken(ctx, token)
	if err != nil {
		return nil, err
	}

	s := &Session{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        u,
	}

	a.listeners.Notify(s)

	return s, nil
}

// SignUp creates an account and signs it in.
func (a *LocalAuth) SignUp(
	ctx context.Context,
	email, password string,
) (*Session, error) {
	u, err := a.accounts.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return a.establish(ctx, u)
}

// SignIn verifies the credentials and starts a session.
func (a *LocalAuth) SignIn(
	ctx context.Context,
	email, password string,
) (*Session, error) {
	u, err := a.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return a.establish(ctx, u)
}

// SignOut forgets the stored session.
func (a *LocalAuth) SignOut(ctx context.Context) error {
	err := a.slot.ClearSessionToken(ctx)
	if err != nil {
		return err
	}

	a.listeners.Notify(nil)

	return nil
}

// GetSession returns the stored session. An expired or unknown token is
// discarded and reported as no session.
func (a *LocalAuth) GetSession(ctx context.Context) (*Session, error) {
	token, err := a.slot.SessionToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, nil
	}

	u, exp, err := a.tokens.Parse(token)
	if err == nil {
		u, err = a.accounts.GetUser(ctx, u.ID)
	}

	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrNotFound) {
		if err = a.slot.ClearSessionToken(ctx); err != nil {
			return nil, err
		}

		a.listeners.Notify(nil)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        u,
	}, nil
}

// OnSessionChange registers fn for session changes.
func (a *LocalAuth) OnSessionChange(fn func(*Session)) func() {
	return a.listeners.Add(fn)
}

// UpdatePassword changes the password of the signed in user.
func (a *LocalAuth) UpdatePassword(ctx context.Context, newPassword string) error {
	s, err := a.GetSession(ctx)
	if err != nil {
		return err
	}

	if s == nil {
		return ErrUnauthenticated
	}

	return a.accounts.SetPassword(ctx, s.User.ID, newPassword)
}

// Local is the embedded Client: bbolt records, directory assets and local
// authentication.
type Local struct {
	*Bolt
	*DirAssets
	*LocalAuth
}

// NewLocal assembles an embedded Client.
func NewLocal(b *Bolt, assets *DirAssets, tokens *Tokens, slot TokenSlot) *Local {
	return &Local{
		Bolt:      b,
		DirAssets: assets,
		LocalAuth: NewLocalAuth(b, tokens, slot),
	}
}

var _ Client = (*Local)(nil)
