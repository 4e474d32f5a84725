package incident

import (
	"context"

	"github.com/charly-com/safenaija/internal/logger"
)

// LogSink records incidents in the service log. It is always part of the
// fan-out so every acknowledgment leaves a trace.
type LogSink struct{}

func (LogSink) CreateAlert(_ context.Context, a Alert) error {
	logger.Info("ussd alert created", map[string]any{
		"alert_id":       a.ID.String(),
		"kind":           string(a.Kind),
		"reference":      a.Reference,
		"session_id":     a.SessionID,
		"phone":          logger.MaskPhone(a.PhoneNumber),
		"emergency_type": a.EmergencyType,
		"location":       a.Location,
	})
	return nil
}

func (LogSink) CreateReport(_ context.Context, r Report) error {
	logger.Info("ussd crime report created", map[string]any{
		"report_id":  r.ID.String(),
		"reference":  r.Reference,
		"session_id": r.SessionID,
		"phone":      logger.MaskPhone(r.PhoneNumber),
		"crime_type": r.CrimeType,
		"timeframe":  r.Timeframe,
		"location":   r.Location,
	})
	return nil
}
