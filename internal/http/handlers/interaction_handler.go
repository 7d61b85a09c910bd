// Interaction HTTP handlers.
//
// This file exposes REST endpoints for the conversation thread of a ticket:
//   - GET    /tickets/{id}/interactions  (list in creation order)
//   - POST   /tickets/{id}/interactions  (append a message)
//   - GET    /interactions/{id}          (fetch)
//   - PUT    /interactions/{id}          (edit message, author only)
//   - DELETE /interactions/{id}          (delete, author only)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customercar/go-support-backend/internal/http/middleware"
	"github.com/customercar/go-support-backend/internal/services"
)

// InteractionRequest is the JSON payload for creating or editing a message.
type InteractionRequest struct {
	Message string `json:"message"`
}

// failInteractionErr translates interaction service errors into HTTP
// responses.
func failInteractionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
	case errors.Is(err, services.ErrInteractionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "interaction not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not allowed to modify this interaction")
	default:
		if ve := services.AsValidation(err); ve != nil {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "interaction operation failed")
	}
}

// ListInteractions returns every interaction of a ticket, oldest first.
func (h *Handlers) ListInteractions(c *gin.Context) {
	items, err := h.interactionSvc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		failInteractionErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateInteraction appends a message to a ticket on behalf of the
// authenticated user.
func (h *Handlers) CreateInteraction(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	item, err := h.interactionSvc.Create(c.Request.Context(), c.Param("id"), user.ID, req.Message)
	if err != nil {
		failInteractionErr(c, err)
		return
	}
	ok(c, http.StatusCreated, item)
}

// GetInteraction returns a single interaction with its author embedded.
func (h *Handlers) GetInteraction(c *gin.Context) {
	item, err := h.interactionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failInteractionErr(c, err)
		return
	}
	ok(c, http.StatusOK, item)
}

// UpdateInteraction replaces the message body. Only the author may edit,
// regardless of role.
func (h *Handlers) UpdateInteraction(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	item, err := h.interactionSvc.Update(c.Request.Context(), user, c.Param("id"), req.Message)
	if err != nil {
		failInteractionErr(c, err)
		return
	}
	ok(c, http.StatusOK, item)
}

// DeleteInteraction removes an interaction. Only the author may delete it.
func (h *Handlers) DeleteInteraction(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	if err := h.interactionSvc.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		failInteractionErr(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "interaction deleted"})
}
