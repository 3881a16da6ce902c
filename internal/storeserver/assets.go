package storeserver

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

func (s *Server) uploadAsset(c *gin.Context) {
	opts := store.UploadOptions{Upsert: c.Query("upsert") == "true"}

	err := s.assets.Upload(
		c.Request.Context(),
		c.Param("path"),
		c.Request.Body,
		opts,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": s.assets.PublicURL(c.Param("path"))})
}

func (s *Server) removeAsset(c *gin.Context) {
	err := s.assets.Remove(c.Request.Context(), []string{c.Param("path")})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) getAsset(c *gin.Context) {
	f, err := s.assets.Open(c.Param("path"))
	if err != nil {
		writeError(c, err)
		return
	}

	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(c, err)
		return
	}

	http.ServeContent(c.Writer, c.Request, path.Base(info.Name()), info.ModTime(), f)
}
