package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/captionly/captionly/internal/application"
	"github.com/captionly/captionly/internal/domain/entity"
	"github.com/captionly/captionly/internal/interface/middleware"
	"github.com/captionly/captionly/pkg/response"
	"github.com/captionly/captionly/pkg/validation"
)

// CaptionHandler exposes the owner-scoped caption endpoints.
type CaptionHandler struct {
	Svc    *application.CaptionService
	Logger *logrus.Logger
}

func NewCaptionHandler(svc *application.CaptionService, logger *logrus.Logger) *CaptionHandler {
	return &CaptionHandler{Svc: svc, Logger: logger}
}

type generateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func captionJSON(c *entity.Caption) gin.H {
	return gin.H{
		"id":         c.ID,
		"prompt":     c.Prompt,
		"caption":    c.Caption,
		"created_at": c.CreatedAt,
	}
}

// Generate POST /api/captions/generate {prompt}
func (h *CaptionHandler) Generate(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Generate(c.Request.Context(), uid, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmptyPrompt):
			response.Error[any](c, http.StatusBadRequest, "prompt is required", nil)
		case errors.Is(err, application.ErrGenerationFailed):
			response.Error[any](c, http.StatusBadGateway, "failed to generate caption", nil)
		default:
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("user_id", uid).Error("caption generation error")
			}
			response.Error[any](c, http.StatusInternalServerError, "failed to generate caption", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"caption":    res.Caption.Caption,
		"caption_id": res.Caption.ID,
		"saved":      res.Saved,
	}, "caption generated", nil)
}

// List GET /api/captions?limit&skip
func (h *CaptionHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	limit := queryInt(c, "limit", application.DefaultListLimit)
	skip := queryInt(c, "skip", 0)
	if skip < 0 {
		// has_more is computed from skip below; it must match the page served
		skip = 0
	}

	captions, total, err := h.Svc.List(c.Request.Context(), uid, limit, skip)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("caption list failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch captions", nil)
		return
	}

	items := make([]gin.H, 0, len(captions))
	for i := range captions {
		items = append(items, captionJSON(&captions[i]))
	}

	response.Success(c, http.StatusOK, gin.H{
		"captions": items,
		"total":    total,
		"has_more": int64(skip+len(captions)) < total,
	}, "captions", nil)
}

// Get GET /api/captions/:id
func (h *CaptionHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error[any](c, http.StatusNotFound, "caption not found", nil)
		return
	}

	capt, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		if errors.Is(err, application.ErrCaptionNotFound) {
			response.Error[any](c, http.StatusNotFound, "caption not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("caption fetch failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch caption", nil)
		return
	}

	response.Success(c, http.StatusOK, captionJSON(capt), "caption", nil)
}

// Delete DELETE /api/captions/:id
func (h *CaptionHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		// Malformed ids behave like missing ones.
		response.Error[any](c, http.StatusNotFound, "caption not found", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		if errors.Is(err, application.ErrCaptionNotFound) {
			response.Error[any](c, http.StatusNotFound, "caption not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("caption delete failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete caption", nil)
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{"success": true}, "caption deleted", nil)
}

// Search GET /api/captions/search?q&size
func (h *CaptionHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size := queryInt(c, "size", 10)

	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("caption search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"captions": hits}, "search results", nil)
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
