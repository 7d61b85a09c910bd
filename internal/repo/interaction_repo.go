// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Interaction model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/customercar/go-support-backend/internal/domain"
)

// CreateInteraction inserts a new message row on a ticket.
func CreateInteraction(ctx context.Context, db *gorm.DB, ticketID, userID, message string) (*domain.Interaction, error) {
	it := &domain.Interaction{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

// ListInteractions returns all interactions for a ticket in creation order
// (CreatedAt ASC, ID ASC) with the author preloaded.
func ListInteractions(ctx context.Context, db *gorm.DB, ticketID string) ([]domain.Interaction, error) {
	var out []domain.Interaction
	err := db.WithContext(ctx).
		Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// GetInteraction fetches an interaction by ID with its author preloaded,
// or ErrNotFound if missing.
func GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.Interaction, error) {
	var it domain.Interaction
	err := db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateInteractionMessage replaces the message body of an interaction.
// Returns ErrNotFound when the interaction does not exist.
func UpdateInteractionMessage(ctx context.Context, db *gorm.DB, id, message string) error {
	res := db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Where("id = ?", id).
		Update("message", message)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInteraction removes a single interaction row.
// Returns ErrNotFound when the interaction does not exist.
func DeleteInteraction(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Interaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
