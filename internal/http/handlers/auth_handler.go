// Auth HTTP handlers.
//
// This file exposes the authentication endpoints:
//   - POST /register  (create account, returns user + token)
//   - POST /login     (verify credentials, returns user + fresh token)
//   - POST /logout    (revoke all tokens of the current user)
//   - GET  /me        (return the authenticated account)
//
// Handlers are transport-thin: they validate input shape, call application
// services, and translate results into HTTP responses. Field-level
// validation lives in the service layer so that 422 responses carry the
// complete per-field message map.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/http/middleware"
	"github.com/customercar/go-support-backend/internal/repo"
	"github.com/customercar/go-support-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AuthService defines the account and session operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use.
type AuthService interface {
	// Register creates an account and issues a bearer token.
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and issues a fresh bearer token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Logout revokes every token issued to userID.
	Logout(ctx context.Context, userID string) error
}

// TicketService defines ticket lifecycle operations consumed by HTTP handlers.
type TicketService interface {
	// List returns a page of tickets matching the filter and the total count.
	List(ctx context.Context, f repo.TicketFilter, page, perPage int) ([]domain.Ticket, int64, error)
	// Create opens a ticket owned by ownerID.
	Create(ctx context.Context, ownerID, title, description string) (*domain.Ticket, error)
	// Get fetches a ticket with embedded owner/agent summaries.
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	// Update applies a partial patch on behalf of actor.
	Update(ctx context.Context, actor *domain.User, id string, patch services.TicketPatch) (*domain.Ticket, error)
	// Delete removes a ticket and its interactions on behalf of actor.
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// InteractionService defines conversation-thread operations consumed by
// HTTP handlers.
type InteractionService interface {
	// List returns all interactions of a ticket in creation order.
	List(ctx context.Context, ticketID string) ([]domain.Interaction, error)
	// Create appends a message to a ticket.
	Create(ctx context.Context, ticketID, authorID, message string) (*domain.Interaction, error)
	// Get fetches an interaction with its author embedded.
	Get(ctx context.Context, id string) (*domain.Interaction, error)
	// Update replaces the message body on behalf of actor.
	Update(ctx context.Context, actor *domain.User, id, message string) (*domain.Interaction, error)
	// Delete removes an interaction on behalf of actor.
	Delete(ctx context.Context, actor *domain.User, id string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for auth, tickets, and interactions.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	authSvc        AuthService
	ticketSvc      TicketService
	interactionSvc InteractionService
}

// New constructs a Handlers instance bound to the given services.
func New(authSvc AuthService, ticketSvc TicketService, interactionSvc InteractionService) *Handlers {
	return &Handlers{authSvc: authSvc, ticketSvc: ticketSvc, interactionSvc: interactionSvc}
}

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account. Field-level
// rules are enforced by the service so violations come back as a 422 map.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

// LoginRequest is the JSON payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries an account plus its freshly issued bearer token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// MessageResponse is the generic {message} success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

//
// Handlers
//

// Register creates an account and returns it with a bearer token.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), services.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Role:                 req.Role,
	})
	if err != nil {
		if ve := services.AsValidation(err); ve != nil {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "registration failed")
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Login verifies credentials and returns the user with a fresh token.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "the provided credentials are incorrect")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout revokes every token of the current user, ending all sessions.
func (h *Handlers) Logout(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no authenticated user")
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), user.ID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "logout failed")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *gin.Context) {
	user := middleware.AuthUser(c)
	if user == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no authenticated user")
		return
	}
	ok(c, http.StatusOK, user)
}
