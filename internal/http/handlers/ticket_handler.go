// Ticket HTTP handlers.
//
// This file exposes REST endpoints for ticket resources:
//   - GET    /tickets       (list, filtered + paginated, ETag support)
//   - POST   /tickets       (create)
//   - GET    /tickets/{id}  (fetch)
//   - PUT    /tickets/{id}  (partial update)
//   - DELETE /tickets/{id}  (delete with interactions)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/http/middleware"
	"github.com/customercar/go-support-backend/internal/repo"
	"github.com/customercar/go-support-backend/internal/services"
	"github.com/customercar/go-support-backend/internal/utils"
)

//
// DTOs
//

// CreateTicketRequest is the JSON payload for opening a ticket.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTicketRequest is the JSON payload for a partial ticket update.
// Absent fields are left untouched; an empty agent_id clears the assignment.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AgentID     *string `json:"agent_id"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListTicketsResponse wraps a page of tickets and pagination information.
type ListTicketsResponse struct {
	Tickets    []domain.Ticket `json:"tickets"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and per_page query params to sane
// defaults and limits, returning (page, perPage).
func clampPagination(c *gin.Context) (page, perPage int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage = utils.AtoiDefault(c.Query("per_page"), services.DefaultPerPage)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > services.MaxPerPage {
		perPage = services.MaxPerPage
	}
	return
}

// ticketFilter builds a repo filter from the list query parameters. It
// reports an error for an unknown status value.
func ticketFilter(c *gin.Context) (repo.TicketFilter, error) {
	var f repo.TicketFilter
	if raw := c.Query("status"); raw != "" {
		st := domain.TicketStatus(raw)
		if !st.Valid() {
			return f, fmt.Errorf("unknown status %q", raw)
		}
		f.Status = &st
	}
	if v := c.Query("user_id"); v != "" {
		f.UserID = &v
	}
	if v := c.Query("agent_id"); v != "" {
		f.AgentID = &v
	}
	return f, nil
}

// failTicketErr translates ticket service errors into HTTP responses.
func failTicketErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "you are not allowed to modify this ticket")
	default:
		if ve := services.AsValidation(err); ve != nil {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "ticket operation failed")
	}
}

//
// Handlers
//

// ListTickets returns a filtered page of tickets. It supports weak ETags
// via If-None-Match and may answer 304 without touching the page query.
func (h *Handlers) ListTickets(c *gin.Context) {
	ctx := c.Request.Context()
	page, perPage := clampPagination(c)

	filter, err := ticketFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.ticketSvc.(*services.TicketService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.TicketsStats(ctx, db, filter)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"tickets:%s:%d:%d"`, filterKey(filter), count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.ticketSvc.List(ctx, filter, page, perPage)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to list tickets")
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	resp := ListTicketsResponse{
		Tickets: items,
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// filterKey renders a ticket filter as a stable ETag component.
func filterKey(f repo.TicketFilter) string {
	s, u, a := "", "", ""
	if f.Status != nil {
		s = string(*f.Status)
	}
	if f.UserID != nil {
		u = *f.UserID
	}
	if f.AgentID != nil {
		a = *f.AgentID
	}
	return s + "|" + u + "|" + a
}

// CreateTicket opens a ticket owned by the authenticated user.
func (h *Handlers) CreateTicket(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ticket, err := h.ticketSvc.Create(c.Request.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusCreated, ticket)
}

// GetTicket returns a single ticket with owner and agent summaries.
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.ticketSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, ticket)
}

// UpdateTicket applies a partial update to a ticket. Only the owner or an
// admin may modify it.
func (h *Handlers) UpdateTicket(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ticket, err := h.ticketSvc.Update(c.Request.Context(), user, c.Param("id"), services.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AgentID:     req.AgentID,
	})
	if err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, ticket)
}

// DeleteTicket removes a ticket together with its interactions. Only the
// owner or an admin may delete it.
func (h *Handlers) DeleteTicket(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}

	if err := h.ticketSvc.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		failTicketErr(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "ticket deleted"})
}
