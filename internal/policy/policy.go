// Package policy holds the authorization predicates for tickets and
// interactions. Each predicate is a pure function over (actor, entity):
// no database access, no side effects, so callers can evaluate them before
// any mutation and tests can cover them exhaustively.
package policy

import "github.com/customercar/go-support-backend/internal/domain"

// CanModifyTicket reports whether user may update or delete ticket.
// Ticket owners and admins may; everyone else, including the assigned
// agent, may not.
func CanModifyTicket(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil {
		return false
	}
	return user.ID == ticket.UserID || user.Role.IsAdmin()
}

// CanModifyInteraction reports whether user may update or delete interaction.
// Only the original author may; admin does not override authorship here.
func CanModifyInteraction(user *domain.User, interaction *domain.Interaction) bool {
	if user == nil || interaction == nil {
		return false
	}
	return user.ID == interaction.UserID
}
