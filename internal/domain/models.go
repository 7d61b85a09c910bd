// Package domain defines the persistence models for users, tickets, and
// interactions. These types are mapped with GORM and form the core data
// layer of the support-desk application.
package domain

import "time"

// Role classifies an account. The set is closed: authorization code switches
// exhaustively over these values instead of comparing ad-hoc strings.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleClient:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants administrative privileges.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the known ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// User represents an account. Passwords are stored as bcrypt hashes and are
// never serialized to JSON.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / Email: profile data; email is unique and used for login.
//   - Password: bcrypt hash of the account password.
//   - Role: one of admin, agent, client (enforced by DB constraint).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	Email     string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password  string    `json:"-"          gorm:"type:varchar(255);not null"`
	Role      Role      `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('admin','agent','client')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Ticket is a customer support request. It is owned by the client who opened
// it and may be assigned to an agent. Deleting the owner cascades to the
// ticket; deleting an assigned agent only clears the assignment.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the ticket (indexed, cascade on owner delete).
//   - AgentID: assigned support agent, nil while unassigned (SET NULL on
//     agent delete).
//   - Title / Description: client-provided request content.
//   - Status: lifecycle state, defaults to "open".
//   - User / Agent: embedded account summaries for API responses.
type Ticket struct {
	ID          string       `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID      string       `json:"user_id"     gorm:"type:char(36);not null;index:idx_tickets_user"`
	AgentID     *string      `json:"agent_id"    gorm:"type:char(36);index:idx_tickets_agent"`
	Title       string       `json:"title"       gorm:"type:varchar(255);not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	Status      TicketStatus `json:"status"      gorm:"type:varchar(16);not null;default:'open';index:idx_tickets_status;check:status IN ('open','in_progress','resolved','closed')"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	User  *User `json:"user,omitempty"  gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Agent *User `json:"agent,omitempty" gorm:"foreignKey:AgentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// Interaction is a single message in a ticket's conversation thread.
// Interactions belong to exactly one ticket and are removed with it.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - TicketID: owning ticket (indexed, cascade on ticket delete).
//   - UserID: author of the message.
//   - Message: message body, non-empty.
//   - User: embedded author summary for API responses.
type Interaction struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	TicketID  string    `json:"ticket_id" gorm:"type:char(36);not null;index:idx_interactions_ticket,priority:1"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index"`
	Message   string    `json:"message"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_interactions_ticket,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	Ticket *Ticket `json:"-"               gorm:"foreignKey:TicketID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User   *User   `json:"user,omitempty"  gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Interaction.
func (Interaction) TableName() string { return "interactions" }
