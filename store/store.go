// Package store defines the data store collaborator used by focusroom and
// provides an embedded bbolt implementation of it. The collaborator offers
// authentication, record CRUD over profiles, rooms, room memberships and
// invitations, and binary asset storage.
package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("not allowed to modify this record")
	ErrInvalidTransition  = errors.New("invitation is no longer pending")
	ErrInvalidFilter      = errors.New("at least one filter field is required")
	ErrInvalidPath        = errors.New("invalid asset path")
	ErrFocusRunning       = errors.New(
		"is focusroom already running? Only one instance can use the local store at a time",
	)
)

// MinPasswordLength is the shortest password accepted by the store.
const MinPasswordLength = 6

// User is an authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an established authentication session.
type Session struct {
	ExpiresAt   time.Time `json:"expires_at"`
	AccessToken string    `json:"access_token"`
	User        User      `json:"user"`
}

// Profile is the public record of a user.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Room is a shared context that users join.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomUser is a membership row. The store does not enforce uniqueness of
// (RoomID, UserID) pairs.
type RoomUser struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusRejected InvitationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether s can no longer change.
func (s InvitationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Invitation is an offer of membership addressed to an email.
type Invitation struct {
	CreatedAt   time.Time        `json:"created_at"`
	ID          string           `json:"id"`
	RoomID      string           `json:"room_id"`
	FromUser    string           `json:"from_user"`
	ToUserEmail string           `json:"to_user_email"`
	Status      InvitationStatus `json:"status"`
}

// RoomUserFilter selects membership rows by equality. Empty fields match
// anything.
type RoomUserFilter struct {
	RoomID string
	UserID string
}

// Empty reports whether no field is set.
func (f RoomUserFilter) Empty() bool {
	return f.RoomID == "" && f.UserID == ""
}

// Match reports whether ru satisfies the filter.
func (f RoomUserFilter) Match(ru RoomUser) bool {
	return (f.RoomID == "" || f.RoomID == ru.RoomID) &&
		(f.UserID == "" || f.UserID == ru.UserID)
}

// InvitationFilter selects invitations by equality. Empty fields match
// anything.
type InvitationFilter struct {
	RoomID      string
	ToUserEmail string
	Status      InvitationStatus
}

// Match reports whether inv satisfies the filter.
func (f InvitationFilter) Match(inv Invitation) bool {
	return (f.RoomID == "" || f.RoomID == inv.RoomID) &&
		(f.ToUserEmail == "" || f.ToUserEmail == inv.ToUserEmail) &&
		(f.Status == "" || f.Status == inv.Status)
}

// UploadOptions controls asset uploads.
type UploadOptions struct {
	// Upsert replaces an existing asset at the same path.
	Upsert bool
}

// Auth is the authentication provider.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns the current session, or nil if signed out.
	GetSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers fn to be called with the new session (nil on
	// sign out). The returned function unregisters it.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	UpdatePassword(ctx context.Context, newPassword string) error
}

// Records provides CRUD over the four record kinds. Single-row fetches return
// ErrNotFound when the row is absent.
type Records interface {
	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context, ids []string) ([]Profile, error)
	InsertProfile(ctx context.Context, p Profile) error
	UpdateProfile(ctx context.Context, p Profile) error

	InsertRoom(ctx context.Context, name string) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, ids []string) ([]Room, error)

	InsertRoomUser(ctx context.Context, roomID, userID string) (RoomUser, error)
	ListRoomUsers(ctx context.Context, f RoomUserFilter) ([]RoomUser, error)
	// DeleteRoomUsers deletes all rows matching f and returns how many were
	// removed. An empty filter is rejected.
	DeleteRoomUsers(ctx context.Context, f RoomUserFilter) (int, error)

	InsertInvitation(ctx context.Context, inv Invitation) (Invitation, error)
	ListInvitations(ctx context.Context, f InvitationFilter) ([]Invitation, error)
	UpdateInvitationStatus(
		ctx context.Context,
		id string,
		status InvitationStatus,
	) (Invitation, error)
}

// Assets is binary asset storage addressed by slash-separated paths.
type Assets interface {
	Upload(ctx context.Context, path string, r io.Reader, opts UploadOptions) error
	PublicURL(path string) string
	// PathFromURL maps a URL produced by PublicURL back to its path.
	PathFromURL(url string) (string, bool)
	// Remove deletes the assets at paths. Missing assets are ignored.
	Remove(ctx context.Context, paths []string) error
}

// Accounts is the server side of authentication: credential storage and
// verification.
type Accounts interface {
	CreateUser(ctx context.Context, email, password string) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	SetPassword(ctx context.Context, id, password string) error
}

// Client is the full collaborator used by the application.
type Client interface {
	Auth
	Records
	Assets
	Close() error
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
