package storeserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign up and sign in.
type AuthResponse struct {
	ExpiresAt time.Time  `json:"expires_at"`
	Token     string     `json:"token"`
	User      store.User `json:"user"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) respondWithToken(c *gin.Context, status int, u store.User) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(status, AuthResponse{Token: token, ExpiresAt: exp, User: u})
}

func (s *Server) signUp(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	u, err := s.backend.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	s.respondWithToken(c, http.StatusCreated, u)
}

func (s *Server) signIn(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	u, err := s.backend.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	s.respondWithToken(c, http.StatusOK, u)
}

func (s *Server) getUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (s *Server) updatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("invalid request body"))
		return
	}

	err := s.backend.SetPassword(
		c.Request.Context(),
		currentUser(c).ID,
		req.Password,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
