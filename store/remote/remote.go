// Package remote implements the store collaborator against a focusroomd
// service over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ayoisaiah/focusroom/internal/storeserver"
	"github.com/ayoisaiah/focusroom/store"
)

const requestTimeout = 15 * time.Second

// sentinels are matched against error messages sent by the service.
var sentinels = []error{
	store.ErrNotFound,
	store.ErrConflict,
	store.ErrInvalidCredentials,
	store.ErrEmailTaken,
	store.ErrWeakPassword,
	store.ErrInvalidEmail,
	store.ErrUnauthenticated,
	store.ErrForbidden,
	store.ErrInvalidTransition,
	store.ErrInvalidFilter,
	store.ErrInvalidPath,
}

// Client talks to the store service. The session token is kept in a
// TokenSlot and sent as a bearer token.
type Client struct {
	http      *http.Client
	slot      store.TokenSlot
	base      string
	listeners store.SessionListeners
}

// New returns a client for the service at baseURL.
func New(baseURL string, slot store.TokenSlot) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		slot: slot,
		http: &http.Client{Timeout: requestTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) endpoint(query url.Values, elem ...string) (string, error) {
	u, err := url.JoinPath(c.base, elem...)
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u, nil
}

// decodeError maps an error response back to a store sentinel.
func decodeError(resp *http.Response) error {
	var env storeserver.ErrorEnvelope

	err := json.NewDecoder(resp.Body).Decode(&env)
	if err != nil {
		return fmt.Errorf("store service: %s", resp.Status)
	}

	for _, s := range sentinels {
		if env.Error.Message == s.Error() {
			return s
		}
	}

	switch env.Error.Code {
	case storeserver.CodeNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, env.Error.Message)
	case storeserver.CodeConflict:
		return fmt.Errorf("%w: %s", store.ErrConflict, env.Error.Message)
	case storeserver.CodeUnauthorized:
		return store.ErrUnauthenticated
	case storeserver.CodeForbidden:
		return store.ErrForbidden
	}

	return fmt.Errorf("store service: %s", env.Error.Message)
}

// send performs a request. A body implementing io.Reader is sent as is,
// anything else is encoded as JSON. When out is non-nil the response is
// decoded into it.
func (c *Client) send(
	ctx context.Context,
	method, target string,
	body, out any,
) error {
	var (
		r           io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
		contentType = "application/octet-stream"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}

		r = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.slot.SessionToken(ctx)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store service: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) call(
	ctx context.Context,
	method string,
	query url.Values,
	body, out any,
	elem ...string,
) error {
	target, err := c.endpoint(query, elem...)
	if err != nil {
		return err
	}

	return c.send(ctx, method, target, body, out)
}

func idQuery(ids []string) url.Values {
	return url.Values{"id": {strings.Join(ids, ",")}}
}

func roomUserQuery(f store.RoomUserFilter) url.Values {
	q := url.Values{}

	if f.RoomID != "" {
		q.Set("room_id", f.RoomID)
	}

	if f.UserID != "" {
		q.Set("user_id", f.UserID)
	}

	return q
}

// tokenExpiry reads the expiry of a token without verifying it. The service
// verifies the token on every request.
func tokenExpiry(token string) time.Time {
	var c jwt.RegisteredClaims

	_, _, err := jwt.NewParser().ParseUnverified(token, &c)
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}
	}

	return c.ExpiresAt.Time
}

func (c *Client) establish(
	ctx context.Context,
	resp storeserver.AuthResponse,
) (*store.Session, error) {
	err := c.slot.SetSessionToken(ctx, resp.Token)
	if err != nil {
		return nil, err
	}

	s := &store.Session{
		AccessToken: resp.Token,
		ExpiresAt:   resp.ExpiresAt,
		User:        resp.User,
	}

	c.listeners.Notify(s)

	return s, nil
}

func (c *Client) authenticate(
	ctx context.Context,
	path, email, password string,
) (*store.Session, error) {
	var resp storeserver.AuthResponse

	body := map[string]string{"email": email, "password": password}

	err := c.call(ctx, http.MethodPost, nil, body, &resp, "auth", path)
	if err != nil {
		return nil, err
	}

	return c.establish(ctx, resp)
}

// SignUp creates an account and signs it in.
func (c *Client) SignUp(
	ctx context.Context,
	email, password string,
) (*store.Session, error) {
	return c.authenticate(ctx, "signup", email, password)
}

// SignIn starts a session.
func (c *Client) SignIn(
	ctx context.Context,
	email, password string,
) (*store.Session, error) {
	return c.authenticate(ctx, "signin", email, password)
}

// SignOut forgets the stored token.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.slot.ClearSessionToken(ctx)
	if err != nil {
		return err
	}

	c.listeners.Notify(nil)

	return nil
}

// GetSession checks the stored token with the service. A rejected token is
// discarded and reported as no session.
func (c *Client) GetSession(ctx context.Context) (*store.Session, error) {
	token, err := c.slot.SessionToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, nil
	}

	var resp struct {
		User store.User `json:"user"`
	}

	err = c.call(ctx, http.MethodGet, nil, nil, &resp, "auth", "user")
	if errors.Is(err, store.ErrUnauthenticated) {
		if err = c.slot.ClearSessionToken(ctx); err != nil {
			return nil, err
		}

		c.listeners.Notify(nil)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &store.Session{
		AccessToken: token,
		ExpiresAt:   tokenExpiry(token),
		User:        resp.User,
	}, nil
}

// OnSessionChange registers fn for session changes made through c.
func (c *Client) OnSessionChange(fn func(*store.Session)) func() {
	return c.listeners.Add(fn)
}

// UpdatePassword changes the password of the signed in user.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	body := map[string]string{"password": newPassword}

	return c.call(ctx, http.MethodPut, nil, body, nil, "auth", "password")
}

func (c *Client) GetProfile(ctx context.Context, id string) (store.Profile, error) {
	var p store.Profile

	if id == "" {
		return p, store.ErrNotFound
	}

	err := c.call(ctx, http.MethodGet, nil, nil, &p, "profiles", id)

	return p, err
}

func (c *Client) ListProfiles(
	ctx context.Context,
	ids []string,
) ([]store.Profile, error) {
	if len(ids) == 0 {
		return []store.Profile{}, nil
	}

	var profiles []store.Profile

	err := c.call(ctx, http.MethodGet, idQuery(ids), nil, &profiles, "profiles")

	return profiles, err
}

func (c *Client) InsertProfile(ctx context.Context, p store.Profile) error {
	return c.call(ctx, http.MethodPost, nil, p, nil, "profiles")
}

func (c *Client) UpdateProfile(ctx context.Context, p store.Profile) error {
	if p.ID == "" {
		return store.ErrNotFound
	}

	return c.call(ctx, http.MethodPut, nil, p, nil, "profiles", p.ID)
}

func (c *Client) InsertRoom(ctx context.Context, name string) (store.Room, error) {
	var r store.Room

	body := map[string]string{"name": name}
	err := c.call(ctx, http.MethodPost, nil, body, &r, "rooms")

	return r, err
}

func (c *Client) GetRoom(ctx context.Context, id string) (store.Room, error) {
	var r store.Room

	if id == "" {
		return r, store.ErrNotFound
	}

	err := c.call(ctx, http.MethodGet, nil, nil, &r, "rooms", id)

	return r, err
}

func (c *Client) ListRooms(ctx context.Context, ids []string) ([]store.Room, error) {
	if len(ids) == 0 {
		return []store.Room{}, nil
	}

	var rooms []store.Room

	err := c.call(ctx, http.MethodGet, idQuery(ids), nil, &rooms, "rooms")

	return rooms, err
}

func (c *Client) InsertRoomUser(
	ctx context.Context,
	roomID, userID string,
) (store.RoomUser, error) {
	var ru store.RoomUser

	body := map[string]string{"room_id": roomID, "user_id": userID}
	err := c.call(ctx, http.MethodPost, nil, body, &ru, "room_users")

	return ru, err
}

func (c *Client) ListRoomUsers(
	ctx context.Context,
	f store.RoomUserFilter,
) ([]store.RoomUser, error) {
	var rows []store.RoomUser

	err := c.call(ctx, http.MethodGet, roomUserQuery(f), nil, &rows, "room_users")

	return rows, err
}

func (c *Client) DeleteRoomUsers(
	ctx context.Context,
	f store.RoomUserFilter,
) (int, error) {
	if f.Empty() {
		return 0, store.ErrInvalidFilter
	}

	var resp struct {
		Deleted int `json:"deleted"`
	}

	err := c.call(ctx, http.MethodDelete, roomUserQuery(f), nil, &resp, "room_users")

	return resp.Deleted, err
}

func (c *Client) InsertInvitation(
	ctx context.Context,
	inv store.Invitation,
) (store.Invitation, error) {
	var created store.Invitation

	err := c.call(ctx, http.MethodPost, nil, inv, &created, "invitations")

	return created, err
}

func (c *Client) ListInvitations(
	ctx context.Context,
	f store.InvitationFilter,
) ([]store.Invitation, error) {
	q := url.Values{}

	if f.RoomID != "" {
		q.Set("room_id", f.RoomID)
	}

	if f.ToUserEmail != "" {
		q.Set("to_user_email", store.NormalizeEmail(f.ToUserEmail))
	}

	if f.Status != "" {
		q.Set("status", string(f.Status))
	}

	var invs []store.Invitation

	err := c.call(ctx, http.MethodGet, q, nil, &invs, "invitations")

	return invs, err
}

func (c *Client) UpdateInvitationStatus(
	ctx context.Context,
	id string,
	status store.InvitationStatus,
) (store.Invitation, error) {
	var inv store.Invitation

	body := map[string]store.InvitationStatus{"status": status}
	err := c.call(ctx, http.MethodPatch, nil, body, &inv, "invitations", id)

	return inv, err
}

// Upload sends the asset at path to the service.
func (c *Client) Upload(
	ctx context.Context,
	path string,
	r io.Reader,
	opts store.UploadOptions,
) error {
	cleaned, err := store.CleanAssetPath(path)
	if err != nil {
		return err
	}

	var q url.Values
	if opts.Upsert {
		q = url.Values{"upsert": {strconv.FormatBool(true)}}
	}

	return c.call(ctx, http.MethodPut, q, r, nil, "assets", cleaned)
}

// PublicURL returns the service URL of the asset at path.
func (c *Client) PublicURL(path string) string {
	return c.base + "/assets/" + strings.TrimPrefix(path, "/")
}

// PathFromURL maps a URL returned by PublicURL back to its asset path.
func (c *Client) PathFromURL(u string) (string, bool) {
	p, ok := strings.CutPrefix(u, c.base+"/assets/")
	if !ok || p == "" {
		return "", false
	}

	return p, true
}

// Remove deletes the assets at paths one request at a time.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	var errs []error

	for _, p := range paths {
		cleaned, err := store.CleanAssetPath(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = c.call(ctx, http.MethodDelete, nil, nil, nil, "assets", cleaned)
		if err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", cleaned, err))
		}
	}

	return errors.Join(errs...)
}

var _ store.Client = (*Client)(nil)
