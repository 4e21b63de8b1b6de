package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/nutrilog-backend/internal/http/response"
	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/services"
)

type EntryHandler struct {
	nutrition services.NutritionService
}

func NewEntryHandler(nutrition services.NutritionService) *EntryHandler {
	return &EntryHandler{nutrition: nutrition}
}

// POST /api/entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req services.LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	entry, err := h.nutrition.LogEntry(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"entry": entry})
}

// PATCH /api/entries/:id
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}
	var req services.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	entry, err := h.nutrition.UpdateEntry(c.Request.Context(), ctxutil.UserID(c.Request.Context()), entryID, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entry": entry})
}

// DELETE /api/entries/:id
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}
	if err := h.nutrition.DeleteEntry(c.Request.Context(), ctxutil.UserID(c.Request.Context()), entryID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func entryIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entry_id", errors.New("entry id must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}
