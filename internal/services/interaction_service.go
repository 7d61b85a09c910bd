// Package services – InteractionService
//
// This file implements the InteractionService, which manages the messages
// attached to a ticket. It verifies ticket existence before listing or
// appending, and restricts edits and deletions to the original author via
// the policy predicates.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel/attribute"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/policy"
	"github.com/customercar/go-support-backend/internal/repo"
)

// InteractionService provides the conversation-thread operations of a ticket.
type InteractionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewInteractionService constructs an InteractionService.
func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{DB: db}
}

// List returns all interactions for a ticket in creation order, each with
// its author embedded. Returns ErrTicketNotFound when the ticket is absent.
func (s *InteractionService) List(ctx context.Context, ticketID string) ([]domain.Interaction, error) {
	ctx, span := tracer.Start(ctx, "InteractionService.List")
	defer span.End()
	span.SetAttributes(attribute.String("ticket.id", ticketID))

	if err := s.ticketExists(ctx, ticketID); err != nil {
		return nil, err
	}
	return repo.ListInteractions(ctx, s.DB, ticketID)
}

// Create appends a message to a ticket on behalf of authorID. The message
// must be non-empty and the ticket must exist.
func (s *InteractionService) Create(ctx context.Context, ticketID, authorID, message string) (*domain.Interaction, error) {
	ctx, span := tracer.Start(ctx, "InteractionService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("ticket.id", ticketID), attribute.String("user.id", authorID))

	message = strings.TrimSpace(message)
	if message == "" {
		ve := newValidation()
		ve.add("message", "message is required")
		return nil, ve
	}
	if err := s.ticketExists(ctx, ticketID); err != nil {
		return nil, err
	}

	it, err := repo.CreateInteraction(ctx, s.DB, ticketID, authorID, message)
	if err != nil {
		return nil, err
	}
	// Reload with the author embedded, matching Get/List output.
	return s.Get(ctx, it.ID)
}

// Get fetches an interaction with its author, or ErrInteractionNotFound.
func (s *InteractionService) Get(ctx context.Context, id string) (*domain.Interaction, error) {
	it, err := repo.GetInteraction(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, err
	}
	return it, nil
}

// Update replaces the message body. Existence is checked first
// (ErrInteractionNotFound), then authorship (ErrForbidden), then the
// message is validated (*ValidationError) before the store mutation.
func (s *InteractionService) Update(ctx context.Context, actor *domain.User, id, message string) (*domain.Interaction, error) {
	ctx, span := tracer.Start(ctx, "InteractionService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("interaction.id", id))

	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyInteraction(actor, it) {
		return nil, ErrForbidden
	}

	message = strings.TrimSpace(message)
	if message == "" {
		ve := newValidation()
		ve.add("message", "message is required")
		return nil, ve
	}

	if err := repo.UpdateInteractionMessage(ctx, s.DB, id, message); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an interaction. Author only.
func (s *InteractionService) Delete(ctx context.Context, actor *domain.User, id string) error {
	ctx, span := tracer.Start(ctx, "InteractionService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("interaction.id", id))

	it, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanModifyInteraction(actor, it) {
		return ErrForbidden
	}
	return repo.DeleteInteraction(ctx, s.DB, id)
}

// ticketExists maps a missing ticket to ErrTicketNotFound.
func (s *InteractionService) ticketExists(ctx context.Context, ticketID string) error {
	if _, err := repo.GetTicket(ctx, s.DB, ticketID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	return nil
}
