// Package room manages the rooms a user belongs to, the active room and the
// invitations addressed to the user.
package room

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/internal/state"
	"github.com/ayoisaiah/focusroom/store"
)

const (
	// UnknownUser is shown for members without a profile.
	UnknownUser = "Unknown user"
	// UnknownRoom is shown for invitations to a room that cannot be found.
	UnknownRoom = "Unknown room"
)

var (
	errEmptyRoomName = apperr.Validation("room name cannot be empty")
	errEmptyEmail    = apperr.Validation("invitee email cannot be empty")
	errExitUnknown   = apperr.Validation(
		"both a room and a user are required to leave a room",
	)

	errListRooms    = apperr.Store("could not list your rooms")
	errCreateRoom   = apperr.Store("could not create room")
	errJoinRoom     = apperr.Store("could not join room")
	errExitRoom     = apperr.Store("could not leave room")
	errListMembers  = apperr.Store("could not list room members")
	errSendInvite   = apperr.Store("could not send invitation")
	errListInvites  = apperr.Store("could not list invitations")
	errUpdateInvite = apperr.Store("could not update invitation")
	errActiveRoom   = apperr.Store("could not save the active room")
)

// ActiveRoom is the room the user is currently in.
type ActiveRoom = state.ActiveRoom

// Slot persists the active room between runs.
type Slot interface {
	ActiveRoom(ctx context.Context) (state.ActiveRoom, bool, error)
	SetActiveRoom(ctx context.Context, room state.ActiveRoom) error
	ClearActiveRoom(ctx context.Context) error
}

// Summary identifies a room the user belongs to.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Member is a roster entry.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// IncomingInvite is a pending invitation with the name of its room.
type IncomingInvite struct {
	RoomName string `json:"room_name"`
	store.Invitation
}

// Manager holds the active room and pending invitations of one session.
type Manager struct {
	records store.Records
	slot    Slot
	active  *ActiveRoom
	pending []IncomingInvite
	mu      sync.Mutex
}

// NewManager returns a Manager with no active room.
func NewManager(records store.Records, slot Slot) *Manager {
	return &Manager{
		records: records,
		slot:    slot,
	}
}

// Restore loads the persisted active room.
func (m *Manager) Restore(ctx context.Context) error {
	r, ok, err := m.slot.ActiveRoom(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = nil
	if ok {
		m.active = &r
	}

	return nil
}

// Clear drops the in-memory state. The persisted slot is kept.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = nil
	m.pending = nil
}

// Active returns the active room, if any.
func (m *Manager) Active() (ActiveRoom, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ActiveRoom{}, false
	}

	return *m.active, true
}

// Pending returns the invitations fetched by the last ListIncomingInvites
// that have not been answered since.
func (m *Manager) Pending() []IncomingInvite {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.pending)
}

func (m *Manager) setActive(ctx context.Context, r ActiveRoom) error {
	err := m.slot.SetActiveRoom(ctx, r)
	if err != nil {
		return errActiveRoom.Wrap(err)
	}

	m.mu.Lock()
	m.active = &r
	m.mu.Unlock()

	return nil
}

func (m *Manager) clearActive(ctx context.Context) error {
	err := m.slot.ClearActiveRoom(ctx)
	if err != nil {
		return errActiveRoom.Wrap(err)
	}

	m.mu.Lock()
	m.active = nil
	m.mu.Unlock()

	return nil
}

func (m *Manager) dropPending(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = slices.DeleteFunc(m.pending, func(inv IncomingInvite) bool {
		return inv.ID == id
	})
}

// ListMyRooms returns the rooms userID is a member of, sorted by name.
func (m *Manager) ListMyRooms(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := m.records.ListRoomUsers(ctx, store.RoomUserFilter{UserID: userID})
	if err != nil {
		return nil, errListRooms.Wrap(err)
	}

	ids := make([]string, 0, len(rows))
	for _, ru := range rows {
		ids = append(ids, ru.RoomID)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	rooms, err := m.records.ListRooms(ctx, ids)
	if err != nil {
		return nil, errListRooms.Wrap(err)
	}

	result := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, Summary{ID: r.ID, Name: r.Name})
	}

	slices.SortFunc(result, func(a, b Summary) int {
		return compareNatural(a.Name, b.Name)
	})

	return result, nil
}

// CreateRoom creates a room owned by ownerID and makes it the active room.
func (m *Manager) CreateRoom(
	ctx context.Context,
	name, ownerID string,
) (Summary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Summary{}, errEmptyRoomName
	}

	r, err := m.records.InsertRoom(ctx, name)
	if err != nil {
		return Summary{}, errCreateRoom.Wrap(err)
	}

	_, err = m.records.InsertRoomUser(ctx, r.ID, ownerID)
	if err != nil {
		return Summary{}, errCreateRoom.Wrap(err)
	}

	slog.Info("room created", slog.String("room_id", r.ID))

	err = m.setActive(ctx, ActiveRoom{ID: r.ID, Name: r.Name})
	if err != nil {
		return Summary{}, err
	}

	return Summary{ID: r.ID, Name: r.Name}, nil
}

// SelectRoom makes roomID the active room. Membership is not checked.
func (m *Manager) SelectRoom(ctx context.Context, roomID, name string) error {
	return m.setActive(ctx, ActiveRoom{ID: roomID, Name: name})
}

// ExitRoom removes the membership of userID in roomID and clears the active
// room. The room and the other members are left untouched.
func (m *Manager) ExitRoom(ctx context.Context, roomID, userID string) error {
	// an empty field would match every row
	if strings.TrimSpace(roomID) == "" || strings.TrimSpace(userID) == "" {
		return errExitUnknown
	}

	_, err := m.records.DeleteRoomUsers(ctx, store.RoomUserFilter{
		RoomID: roomID,
		UserID: userID,
	})
	if err != nil {
		return errExitRoom.Wrap(err)
	}

	return m.clearActive(ctx)
}

// ListMembers returns the roster of roomID keyed by user id.
func (m *Manager) ListMembers(
	ctx context.Context,
	roomID string,
) (map[string]Member, error) {
	rows, err := m.records.ListRoomUsers(ctx, store.RoomUserFilter{RoomID: roomID})
	if err != nil {
		return nil, errListMembers.Wrap(err)
	}

	ids := make([]string, 0, len(rows))
	for _, ru := range rows {
		ids = append(ids, ru.UserID)
	}

	profiles, err := m.records.ListProfiles(ctx, ids)
	if err != nil {
		return nil, errListMembers.Wrap(err)
	}

	return JoinProfiles(ids, profiles), nil
}

// JoinProfiles left-joins user ids with their profiles. Users without a
// profile get the UnknownUser display name.
func JoinProfiles(userIDs []string, profiles []store.Profile) map[string]Member {
	byID := make(map[string]store.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	members := make(map[string]Member, len(userIDs))

	for _, id := range userIDs {
		member := Member{
			UserID:      id,
			DisplayName: UnknownUser,
		}

		if p, ok := byID[id]; ok {
			member.AvatarURL = p.AvatarURL

			if p.Username != "" {
				member.DisplayName = p.Username
			}
		}

		members[id] = member
	}

	return members
}

// SortMembers returns the roster ordered by display name.
func SortMembers(members map[string]Member) []Member {
	list := make([]Member, 0, len(members))
	for _, member := range members {
		list = append(list, member)
	}

	slices.SortFunc(list, func(a, b Member) int {
		if c := compareNatural(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}

		return strings.Compare(a.UserID, b.UserID)
	})

	return list
}

// SendInvite creates a pending invitation to toEmail.
func (m *Manager) SendInvite(
	ctx context.Context,
	roomID, fromUserID, toEmail string,
) (store.Invitation, error) {
	toEmail = store.NormalizeEmail(toEmail)
	if toEmail == "" {
		return store.Invitation{}, errEmptyEmail
	}

	inv, err := m.records.InsertInvitation(ctx, store.Invitation{
		RoomID:      roomID,
		FromUser:    fromUserID,
		ToUserEmail: toEmail,
		Status:      store.StatusPending,
	})
	if err != nil {
		return store.Invitation{}, errSendInvite.Wrap(err)
	}

	return inv, nil
}

// ListIncomingInvites returns the pending invitations addressed to email and
// remembers them as the pending list.
func (m *Manager) ListIncomingInvites(
	ctx context.Context,
	email string,
) ([]IncomingInvite, error) {
	invites, err := m.records.ListInvitations(ctx, store.InvitationFilter{
		ToUserEmail: store.NormalizeEmail(email),
		Status:      store.StatusPending,
	})
	if err != nil {
		return nil, errListInvites.Wrap(err)
	}

	ids := make([]string, 0, len(invites))
	for _, inv := range invites {
		ids = append(ids, inv.RoomID)
	}

	names := make(map[string]string)

	if len(ids) > 0 {
		rooms, err := m.records.ListRooms(ctx, ids)
		if err != nil {
			return nil, errListInvites.Wrap(err)
		}

		for _, r := range rooms {
			names[r.ID] = r.Name
		}
	}

	result := make([]IncomingInvite, 0, len(invites))

	for _, inv := range invites {
		name, ok := names[inv.RoomID]
		if !ok {
			name = UnknownRoom
		}

		result = append(result, IncomingInvite{Invitation: inv, RoomName: name})
	}

	m.mu.Lock()
	m.pending = slices.Clone(result)
	m.mu.Unlock()

	return result, nil
}

// AcceptInvite joins userID to the invitation's room and marks the
// invitation accepted. If userID is already a member, only the status is
// updated, so a retry after a failed status update cannot create a second
// membership.
func (m *Manager) AcceptInvite(
	ctx context.Context,
	inv IncomingInvite,
	userID string,
) error {
	status, err := m.inviteStatus(ctx, inv.Invitation)
	if err != nil {
		return errJoinRoom.Wrap(err)
	}

	if status == store.StatusRejected {
		m.dropPending(inv.ID)
		return errUpdateInvite.Wrap(store.ErrInvalidTransition)
	}

	rows, err := m.records.ListRoomUsers(ctx, store.RoomUserFilter{
		RoomID: inv.RoomID,
		UserID: userID,
	})
	if err != nil {
		return errJoinRoom.Wrap(err)
	}

	if len(rows) > 0 {
		_, err = m.records.UpdateInvitationStatus(ctx, inv.ID, store.StatusAccepted)
		if err != nil {
			return errUpdateInvite.Wrap(err)
		}

		m.dropPending(inv.ID)

		return nil
	}

	_, err = m.records.InsertRoomUser(ctx, inv.RoomID, userID)
	if err != nil {
		return errJoinRoom.Wrap(err)
	}

	_, err = m.records.UpdateInvitationStatus(ctx, inv.ID, store.StatusAccepted)
	if err != nil {
		return errUpdateInvite.Wrap(err)
	}

	m.dropPending(inv.ID)

	return m.setActive(ctx, ActiveRoom{ID: inv.RoomID, Name: inv.RoomName})
}

// inviteStatus reads the stored status of inv, which may have changed since
// it was listed.
func (m *Manager) inviteStatus(
	ctx context.Context,
	inv store.Invitation,
) (store.InvitationStatus, error) {
	invs, err := m.records.ListInvitations(ctx, store.InvitationFilter{
		RoomID:      inv.RoomID,
		ToUserEmail: inv.ToUserEmail,
	})
	if err != nil {
		return "", err
	}

	for _, v := range invs {
		if v.ID == inv.ID {
			return v.Status, nil
		}
	}

	return "", store.ErrNotFound
}

// RejectInvite marks the invitation rejected.
func (m *Manager) RejectInvite(ctx context.Context, inv IncomingInvite) error {
	_, err := m.records.UpdateInvitationStatus(ctx, inv.ID, store.StatusRejected)
	if err != nil {
		return errUpdateInvite.Wrap(err)
	}

	m.dropPending(inv.ID)

	return nil
}

func compareNatural(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}
