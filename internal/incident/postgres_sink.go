package incident

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresSink persists incidents in the ussd_alerts / ussd_reports tables.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (p *PostgresSink) CreateAlert(ctx context.Context, a Alert) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO ussd_alerts
		(id, kind, source, session_id, phone_number, emergency_type,
		 location, description, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`,
		a.ID,
		string(a.Kind),
		a.Source,
		a.SessionID,
		a.PhoneNumber,
		a.EmergencyType,
		a.Location,
		a.Description,
		a.Reference,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("incident: insert alert: %w", err)
	}
	return nil
}

func (p *PostgresSink) CreateReport(ctx context.Context, r Report) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO ussd_reports
		(id, source, session_id, phone_number, crime_type, timeframe,
		 location, description, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`,
		r.ID,
		r.Source,
		r.SessionID,
		r.PhoneNumber,
		r.CrimeType,
		r.Timeframe,
		r.Location,
		r.Description,
		r.Reference,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("incident: insert report: %w", err)
	}
	return nil
}
