package storeserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

const userContextKey = "user"

var (
	errMissingAuth = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: "missing authorization header",
	}
	errAuthFormat = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: "invalid authorization format",
	}
)

// auth rejects requests without a valid bearer token.
func auth(tokens *store.Tokens, accounts store.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, errMissingAuth)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)

		if !ok || token == "" {
			writeError(c, errAuthFormat)
			return
		}

		u, _, err := tokens.Parse(token)
		if err != nil {
			writeError(c, err)
			return
		}

		// tokens outlive deleted accounts
		u, err = accounts.GetUser(c.Request.Context(), u.ID)
		if err != nil {
			writeError(c, store.ErrUnauthenticated)
			return
		}

		c.Set(userContextKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) store.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return store.User{}
	}

	u, _ := v.(store.User)

	return u
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info(
			"request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
