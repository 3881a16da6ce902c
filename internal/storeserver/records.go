package storeserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

type roomRequest struct {
	Name string `json:"name"`
}

type roomUserRequest struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

type statusRequest struct {
	Status store.InvitationStatus `json:"status"`
}

// splitIDs parses a comma separated id list.
func splitIDs(raw string) []string {
	var ids []string

	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

func roomUserFilter(c *gin.Context) store.RoomUserFilter {
	return store.RoomUserFilter{
		RoomID: c.Query("room_id"),
		UserID: c.Query("user_id"),
	}
}

// ensure a non-nil slice so that empty lists encode as [].
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

func (s *Server) listProfiles(c *gin.Context) {
	profiles, err := s.backend.ListProfiles(
		c.Request.Context(),
		splitIDs(c.Query("id")),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(profiles))
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.backend.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) insertProfile(c *gin.Context) {
	var p store.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	if p.ID != currentUser(c).ID {
		writeError(c, store.ErrForbidden)
		return
	}

	if err := s.backend.InsertProfile(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProfile(c *gin.Context) {
	var p store.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	p.ID = c.Param("id")

	if p.ID != currentUser(c).ID {
		writeError(c, store.ErrForbidden)
		return
	}

	if err := s.backend.UpdateProfile(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) listRooms(c *gin.Context) {
	rooms, err := s.backend.ListRooms(
		c.Request.Context(),
		splitIDs(c.Query("id")),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(rooms))
}

func (s *Server) getRoom(c *gin.Context) {
	r, err := s.backend.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) insertRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	r, err := s.backend.InsertRoom(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

func (s *Server) listRoomUsers(c *gin.Context) {
	rows, err := s.backend.ListRoomUsers(c.Request.Context(), roomUserFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(rows))
}

func (s *Server) insertRoomUser(c *gin.Context) {
	var req roomUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	ru, err := s.backend.InsertRoomUser(
		c.Request.Context(),
		req.RoomID,
		req.UserID,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ru)
}

func (s *Server) deleteRoomUsers(c *gin.Context) {
	f := roomUserFilter(c)

	// members may only remove their own rows
	if !f.Empty() && f.UserID != currentUser(c).ID {
		writeError(c, store.ErrForbidden)
		return
	}

	n, err := s.backend.DeleteRoomUsers(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (s *Server) listInvitations(c *gin.Context) {
	f := store.InvitationFilter{
		RoomID:      c.Query("room_id"),
		ToUserEmail: c.Query("to_user_email"),
		Status:      store.InvitationStatus(c.Query("status")),
	}

	invs, err := s.backend.ListInvitations(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(invs))
}

func (s *Server) insertInvitation(c *gin.Context) {
	var inv store.Invitation
	if err := c.ShouldBindJSON(&inv); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	inv.FromUser = currentUser(c).ID

	inv, err := s.backend.InsertInvitation(c.Request.Context(), inv)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (s *Server) updateInvitation(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	inv, err := s.backend.UpdateInvitationStatus(
		c.Request.Context(),
		c.Param("id"),
		req.Status,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}
