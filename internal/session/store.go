package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session is one in-flight USSD dialog, keyed by the gateway's session id.
type Session struct {
	SessionID   string            `json:"session_id"`
	PhoneNumber string            `json:"phone_number"`
	ServiceCode string            `json:"service_code,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	FlowData    map[string]string `json:"flow_data"`

	// Completed is set once a terminal response has been produced.
	// Later turns replay LastResponse instead of re-running the flow.
	Completed bool `json:"completed"`
	Turns     int  `json:"turns"`

	LastText        string `json:"last_text"`
	LastServiceCode string `json:"last_service_code"`
	LastResponse    string `json:"last_response,omitempty"`
	LastAction      string `json:"last_action,omitempty"`
}

// New returns a fresh session with empty flow data.
func New(sessionID, phoneNumber string, now time.Time) *Session {
	return &Session{
		SessionID:   sessionID,
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
		FlowData:    map[string]string{},
	}
}

// IsReplay reports whether text/serviceCode repeat the last processed turn.
func (s *Session) IsReplay(text, serviceCode string) bool {
	return s.Turns > 0 &&
		s.LastResponse != "" &&
		s.LastText == text &&
		s.LastServiceCode == serviceCode
}

// Store owns session records and their lifecycle.
// GetOrCreate never reports a missing session: absent and fresh are the same.
type Store interface {
	GetOrCreate(ctx context.Context, sessionID, phoneNumber string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	ScheduleExpiry(ctx context.Context, sessionID string, delay time.Duration) error
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]Session, error)
}
