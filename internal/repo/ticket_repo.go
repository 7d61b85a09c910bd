// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ticket
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a ticket is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.TicketService) which enforces validation and authorization.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// TicketFilter narrows ticket queries. Nil fields place no restriction;
// set fields combine with AND semantics.
type TicketFilter struct {
	Status  *domain.TicketStatus
	UserID  *string
	AgentID *string
}

// apply composes the filter onto a ticket query.
func (f TicketFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.AgentID != nil {
		q = q.Where("agent_id = ?", *f.AgentID)
	}
	return q
}

// CreateTicket inserts a new Ticket row owned by userID. Status starts as
// "open" and no agent is assigned. The ticket ID is a randomly generated
// UUID, and CreatedAt is set to UTC.
func CreateTicket(ctx context.Context, db *gorm.DB, userID, title, description string) (*domain.Ticket, error) {
	t := &domain.Ticket{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      domain.StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTicket fetches a single ticket by ID with its owner and agent
// summaries preloaded, or ErrNotFound if missing.
func GetTicket(ctx context.Context, db *gorm.DB, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Agent").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CountTickets returns the number of tickets matching the filter.
func CountTickets(ctx context.Context, db *gorm.DB, f TicketFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Ticket{})).Count(&total).Error
	return total, err
}

// ListTicketsPage returns a page of tickets matching the filter, ordered
// deterministically (CreatedAt ASC, ID ASC) with owner/agent preloaded.
func ListTicketsPage(ctx context.Context, db *gorm.DB, f TicketFilter, offset, limit int) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := f.apply(db.WithContext(ctx).Model(&domain.Ticket{})).
		Preload("User").
		Preload("Agent").
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateTicketFields applies the provided column/value pairs to a ticket.
// Returns ErrNotFound when the ticket does not exist. Callers are expected
// to have validated the values and checked authorization beforehand.
func UpdateTicketFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTicket removes a ticket and all of its interactions. The two
// deletes run on the handle as given; callers wrap this in a transaction
// so a partial cascade can never be observed.
func DeleteTicket(ctx context.Context, db *gorm.DB, id string) error {
	h := db.WithContext(ctx)
	if err := h.Where("ticket_id = ?", id).Delete(&domain.Interaction{}).Error; err != nil {
		return err
	}
	res := h.Where("id = ?", id).Delete(&domain.Ticket{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
