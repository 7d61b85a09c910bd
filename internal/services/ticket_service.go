// Package services – TicketService
//
// This file implements the TicketService, which manages the ticket
// lifecycle: filtered and paginated listing, creation with defaults,
// partial updates, and transactional deletion that cascades to the
// ticket's interactions. Authorization is evaluated through the pure
// predicates in internal/policy before any mutation touches the store.
//
// Observability: public methods are OpenTelemetry-instrumented; spans
// include ticket/user identifiers and pagination parameters.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/customercar/go-support-backend/internal/domain"
	"github.com/customercar/go-support-backend/internal/policy"
	"github.com/customercar/go-support-backend/internal/repo"
)

const (
	maxTitleRunes = 255

	// DefaultPerPage matches the API default page size for ticket listings.
	DefaultPerPage = 10
	// MaxPerPage caps client-requested page sizes.
	MaxPerPage = 100
)

// tracer instruments the ticket and interaction services.
var tracer = otel.Tracer("github.com/customercar/go-support-backend/internal/services")

// TicketService provides ticket-level operations. It enforces field
// validation and ownership rules and coordinates repository calls.
type TicketService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTicketService constructs a TicketService.
func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{DB: db}
}

// TicketPatch is a partial update. Nil fields are left untouched.
// A non-nil empty AgentID clears the assignment.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *string
	AgentID     *string
}

// List returns a page of tickets matching the filter and the total count.
// Page defaults to 1; perPage defaults to DefaultPerPage and is capped at
// MaxPerPage. An absent filter field places no restriction.
func (s *TicketService) List(ctx context.Context, f repo.TicketFilter, page, perPage int) ([]domain.Ticket, int64, error) {
	ctx, span := tracer.Start(ctx, "TicketService.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	span.SetAttributes(attribute.Int("page", page), attribute.Int("per_page", perPage))

	total, err := repo.CountTickets(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Ticket{}, 0, nil
	}

	items, err := repo.ListTicketsPage(ctx, s.DB, f, (page-1)*perPage, perPage)
	return items, total, err
}

// Create opens a new ticket for ownerID. Title and description are
// required; status starts as "open" with no agent assigned.
func (s *TicketService) Create(ctx context.Context, ownerID, title, description string) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", ownerID))

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	ve := newValidation()
	if title == "" {
		ve.add("title", "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleRunes {
		ve.add("title", "title must be at most 255 characters")
	}
	if description == "" {
		ve.add("description", "description is required")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	return repo.CreateTicket(ctx, s.DB, ownerID, title, description)
}

// Get fetches a ticket with its owner/agent summaries, or ErrTicketNotFound.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("ticket.id", id))

	t, err := repo.GetTicket(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies the provided patch fields to a ticket.
//
// Ordering per the error contract: existence first (ErrTicketNotFound),
// then authorization (ErrForbidden, owner or admin only), then field
// validation (*ValidationError), and only then the store mutation.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, id string, patch TicketPatch) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("ticket.id", id))

	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyTicket(actor, ticket) {
		return nil, ErrForbidden
	}

	fields, err := s.patchFields(ctx, patch)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return ticket, nil
	}

	if err := repo.UpdateTicketFields(ctx, s.DB, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a ticket and its interactions in one transaction so a
// partial cascade can never be observed. Owner or admin only.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, id string) error {
	ctx, span := tracer.Start(ctx, "TicketService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("ticket.id", id))

	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanModifyTicket(actor, ticket) {
		return ErrForbidden
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteTicket(ctx, tx, id)
	})
}

// patchFields validates a patch and converts it into column updates.
func (s *TicketService) patchFields(ctx context.Context, patch TicketPatch) (map[string]any, error) {
	fields := map[string]any{}
	ve := newValidation()

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		switch {
		case title == "":
			ve.add("title", "title must not be empty")
		case utf8.RuneCountInString(title) > maxTitleRunes:
			ve.add("title", "title must be at most 255 characters")
		default:
			fields["title"] = title
		}
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			ve.add("description", "description must not be empty")
		} else {
			fields["description"] = desc
		}
	}
	if patch.Status != nil {
		status := domain.TicketStatus(*patch.Status)
		if !status.Valid() {
			ve.add("status", "status must be one of open, in_progress, resolved, closed")
		} else {
			fields["status"] = status
		}
	}
	if patch.AgentID != nil {
		agentID := strings.TrimSpace(*patch.AgentID)
		if agentID == "" {
			// Explicit unassignment.
			fields["agent_id"] = gorm.Expr("NULL")
		} else if _, err := repo.GetUser(ctx, s.DB, agentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				ve.add("agent_id", "agent_id must reference an existing user")
			} else {
				return nil, err
			}
		} else {
			fields["agent_id"] = agentID
		}
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}
	return fields, nil
}
