package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wedplan/pkg/storage"
	"wedplan/pkg/utils"
)

type MediaController struct {
	store storage.Storage
	log   *zap.Logger
}

func NewMediaController(store storage.Storage, log *zap.Logger) *MediaController {
	return &MediaController{store: store, log: log}
}

// Serve godoc
// @Summary Stored moodboard image
// @Tags Media
// @Produce octet-stream
// @Param path path string true "Storage path"
// @Success 200 {file} binary
// @Failure 404 {object} utils.APIResponse
// @Router /media/{path} [get]
func (m *MediaController) Serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || strings.Contains(path, "..") {
		utils.RespondError(c, http.StatusNotFound, "File not found")
		return
	}

	rc, err := m.store.Download(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "File not found")
			return
		}
		m.log.Error("media download failed", zap.String("path", path), zap.Error(err))
		utils.RespondError(c, http.StatusInternalServerError, "Could not read file")
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Content-Type", storage.ContentType(path))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		m.log.Debug("media copy interrupted", zap.String("path", path), zap.Error(err))
	}
}
