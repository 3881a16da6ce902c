// Package storeserver exposes an embedded store over HTTP so that several
// focusroom clients can share rooms.
package storeserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

// Backend is the record and account storage served by the Server.
type Backend interface {
	store.Records
	store.Accounts
}

// Server holds the handlers' dependencies.
type Server struct {
	backend Backend
	assets  *store.DirAssets
	tokens  *store.Tokens
}

// New returns the HTTP handler of the store service.
func New(
	backend Backend,
	assets *store.DirAssets,
	tokens *store.Tokens,
	logger *slog.Logger,
) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		backend: backend,
		assets:  assets,
		tokens:  tokens,
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := engine.Group("/auth")
	authGroup.POST("/signup", s.signUp)
	authGroup.POST("/signin", s.signIn)

	engine.GET("/assets/*path", s.getAsset)

	private := engine.Group("/")
	private.Use(auth(tokens, backend))

	private.GET("/auth/user", s.getUser)
	private.PUT("/auth/password", s.updatePassword)

	private.GET("/profiles", s.listProfiles)
	private.POST("/profiles", s.insertProfile)
	private.GET("/profiles/:id", s.getProfile)
	private.PUT("/profiles/:id", s.updateProfile)

	private.GET("/rooms", s.listRooms)
	private.POST("/rooms", s.insertRoom)
	private.GET("/rooms/:id", s.getRoom)

	private.GET("/room_users", s.listRoomUsers)
	private.POST("/room_users", s.insertRoomUser)
	private.DELETE("/room_users", s.deleteRoomUsers)

	private.GET("/invitations", s.listInvitations)
	private.POST("/invitations", s.insertInvitation)
	private.PATCH("/invitations/:id", s.updateInvitation)

	private.PUT("/assets/*path", s.uploadAsset)
	private.DELETE("/assets/*path", s.removeAsset)

	return engine
}
