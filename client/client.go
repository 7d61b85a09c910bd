// Package client provides a typed Go client for the support API.
//
// A Client talks to the public endpoints (register, login); authenticating
// returns a Session that carries the bearer token and exposes the
// ticket and interaction operations. Types are declared locally so the
// package is usable without reaching into server internals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User is an account as returned by the API. Password hashes are never
// serialized by the server.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket is a support request with optional embedded owner and agent.
type Ticket struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AgentID     *string   `json:"agent_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        *User     `json:"user,omitempty"`
	Agent       *User     `json:"agent,omitempty"`
}

// Interaction is one message in a ticket's conversation thread.
type Interaction struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"user,omitempty"`
}

// Pagination mirrors the server's list envelope metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// TicketPage is one page of tickets plus metadata.
type TicketPage struct {
	Tickets    []Ticket   `json:"tickets"`
	Pagination Pagination `json:"pagination"`
}

// RegisterInput is the payload for Client.Register.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

// TicketUpdate is a partial ticket patch. Nil fields are left untouched; an
// empty AgentID clears the assignment.
type TicketUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	AgentID     *string `json:"agent_id,omitempty"`
}

// ListTicketsOptions filters and paginates Session.ListTickets. Zero values
// are omitted from the query string.
type ListTicketsOptions struct {
	Status  string
	UserID  string
	AgentID string
	Page    int
	PerPage int
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	RequestID  string              `json:"request_id"`
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Fields     map[string][]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to the public (unauthenticated) API surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the API at baseURL. A nil httpClient falls back
// to a client with a sane timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Session is an authenticated API handle. It is safe for concurrent use.
type Session struct {
	Token string
	User  User

	c *Client
}

// authResponse matches the server's {user, token} payload.
type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Register creates an account and returns an authenticated session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/register", "", in, &out); err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, User: out.User, c: c}, nil
}

// Login exchanges credentials for an authenticated session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, User: out.User, c: c}, nil
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Logout revokes every token of the session's user. The session must not be
// used afterwards.
func (s *Session) Logout(ctx context.Context) error {
	return s.c.do(ctx, http.MethodPost, "/logout", s.Token, nil, nil)
}

// Me returns the account behind the session token.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.c.do(ctx, http.MethodGet, "/me", s.Token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTicket opens a ticket owned by the session user.
func (s *Session) CreateTicket(ctx context.Context, title, description string) (*Ticket, error) {
	body := map[string]string{"title": title, "description": description}
	var out Ticket
	if err := s.c.do(ctx, http.MethodPost, "/tickets", s.Token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTickets returns a filtered page of tickets.
func (s *Session) ListTickets(ctx context.Context, opts ListTicketsOptions) (*TicketPage, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.UserID != "" {
		q.Set("user_id", opts.UserID)
	}
	if opts.AgentID != "" {
		q.Set("agent_id", opts.AgentID)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	path := "/tickets"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out TicketPage
	if err := s.c.do(ctx, http.MethodGet, path, s.Token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTicket fetches one ticket with its owner and agent embedded.
func (s *Session) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	var out Ticket
	if err := s.c.do(ctx, http.MethodGet, "/tickets/"+url.PathEscape(id), s.Token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTicket applies a partial patch and returns the updated ticket.
func (s *Session) UpdateTicket(ctx context.Context, id string, patch TicketUpdate) (*Ticket, error) {
	var out Ticket
	if err := s.c.do(ctx, http.MethodPut, "/tickets/"+url.PathEscape(id), s.Token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTicket removes a ticket together with its interactions.
func (s *Session) DeleteTicket(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), s.Token, nil, nil)
}

// ListInteractions returns a ticket's conversation thread, oldest first.
func (s *Session) ListInteractions(ctx context.Context, ticketID string) ([]Interaction, error) {
	var out []Interaction
	path := "/tickets/" + url.PathEscape(ticketID) + "/interactions"
	if err := s.c.do(ctx, http.MethodGet, path, s.Token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInteraction appends a message to a ticket.
func (s *Session) CreateInteraction(ctx context.Context, ticketID, message string) (*Interaction, error) {
	body := map[string]string{"message": message}
	var out Interaction
	path := "/tickets/" + url.PathEscape(ticketID) + "/interactions"
	if err := s.c.do(ctx, http.MethodPost, path, s.Token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInteraction fetches a single interaction.
func (s *Session) GetInteraction(ctx context.Context, id string) (*Interaction, error) {
	var out Interaction
	if err := s.c.do(ctx, http.MethodGet, "/interactions/"+url.PathEscape(id), s.Token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInteraction replaces the message body (author only).
func (s *Session) UpdateInteraction(ctx context.Context, id, message string) (*Interaction, error) {
	body := map[string]string{"message": message}
	var out Interaction
	if err := s.c.do(ctx, http.MethodPut, "/interactions/"+url.PathEscape(id), s.Token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInteraction removes an interaction (author only).
func (s *Session) DeleteInteraction(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/interactions/"+url.PathEscape(id), s.Token, nil, nil)
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "unexpected_response"
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
