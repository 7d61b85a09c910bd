package policy

import (
	"testing"

	"github.com/customercar/go-support-backend/internal/domain"
)

func TestCanModifyTicket(t *testing.T) {
	owner := &domain.User{ID: "u-owner", Role: domain.RoleClient}
	admin := &domain.User{ID: "u-admin", Role: domain.RoleAdmin}
	agent := &domain.User{ID: "u-agent", Role: domain.RoleAgent}
	other := &domain.User{ID: "u-other", Role: domain.RoleClient}

	agentID := agent.ID
	ticket := &domain.Ticket{ID: "t1", UserID: owner.ID, AgentID: &agentID}

	tests := []struct {
		name string
		user *domain.User
		want bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"assigned agent", agent, false},
		{"other client", other, false},
		{"nil user", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModifyTicket(tc.user, ticket); got != tc.want {
				t.Fatalf("CanModifyTicket = %v, want %v", got, tc.want)
			}
		})
	}

	if CanModifyTicket(owner, nil) {
		t.Fatal("nil ticket must never be modifiable")
	}
}

func TestCanModifyInteraction(t *testing.T) {
	author := &domain.User{ID: "u-author", Role: domain.RoleClient}
	admin := &domain.User{ID: "u-admin", Role: domain.RoleAdmin}
	other := &domain.User{ID: "u-other", Role: domain.RoleClient}

	it := &domain.Interaction{ID: "i1", TicketID: "t1", UserID: author.ID}

	if !CanModifyInteraction(author, it) {
		t.Fatal("author must be allowed")
	}
	// Authorship is strict: even admins cannot edit someone else's message.
	if CanModifyInteraction(admin, it) {
		t.Fatal("admin must not override authorship")
	}
	if CanModifyInteraction(other, it) {
		t.Fatal("non-author must be denied")
	}
	if CanModifyInteraction(nil, it) || CanModifyInteraction(author, nil) {
		t.Fatal("nil actor or entity must be denied")
	}
}
