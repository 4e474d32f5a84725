// Package incident carries finalized USSD dialogs to the systems that act on
// them: the incident database, the dispatch exchange and the logs.
package incident

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AlertKind string

const (
	KindEmergency          AlertKind = "EMERGENCY"
	KindSuspiciousActivity AlertKind = "SUSPICIOUS_ACTIVITY"
	KindOfflineSync        AlertKind = "OFFLINE_SYNC"
)

const SourceUSSD = "USSD"

// Alert is an emergency raised by a caller.
type Alert struct {
	ID            uuid.UUID `json:"id"`
	Kind          AlertKind `json:"kind"`
	Source        string    `json:"source"`
	SessionID     string    `json:"session_id,omitempty"`
	PhoneNumber   string    `json:"phone_number"`
	EmergencyType string    `json:"emergency_type,omitempty"`
	Location      string    `json:"location,omitempty"`
	Description   string    `json:"description,omitempty"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// Report is a crime report filed by a caller.
type Report struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	SessionID   string    `json:"session_id,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	CrimeType   string    `json:"crime_type"`
	Timeframe   string    `json:"timeframe"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAlert(kind AlertKind, now time.Time) Alert {
	return Alert{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    SourceUSSD,
		CreatedAt: now,
	}
}

func NewReport(now time.Time) Report {
	return Report{
		ID:        uuid.New(),
		Source:    SourceUSSD,
		CreatedAt: now,
	}
}

type AlertCreator interface {
	CreateAlert(ctx context.Context, a Alert) error
}

type ReportCreator interface {
	CreateReport(ctx context.Context, r Report) error
}

// Sink accepts both kinds of finalized incidents.
type Sink interface {
	AlertCreator
	ReportCreator
}
