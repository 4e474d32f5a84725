package db

import (
	"context"
	"database/sql"
)

const incidentMigration = `
CREATE TABLE IF NOT EXISTS ussd_alerts (
    id uuid PRIMARY KEY,
    kind text NOT NULL,
    source text NOT NULL DEFAULT 'USSD',
    session_id text,
    phone_number text NOT NULL,
    emergency_type text,
    location text,
    description text,
    reference text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS ussd_alerts_created_at_idx
ON ussd_alerts (created_at);

CREATE TABLE IF NOT EXISTS ussd_reports (
    id uuid PRIMARY KEY,
    source text NOT NULL DEFAULT 'USSD',
    session_id text,
    phone_number text NOT NULL,
    crime_type text NOT NULL,
    timeframe text NOT NULL,
    location text NOT NULL,
    description text,
    reference text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS ussd_reports_location_lower_idx
ON ussd_reports (LOWER(location), created_at);
`

func RunIncidentMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, incidentMigration)
	return err
}
