package safety

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ReportDensityChecker grades an area by the number of crime reports filed
// for the same location inside Window.
type ReportDensityChecker struct {
	db     *sql.DB
	Window time.Duration
	now    func() time.Time
}

func NewReportDensityChecker(db *sql.DB) *ReportDensityChecker {
	return &ReportDensityChecker{
		db:     db,
		Window: 24 * time.Hour,
		now:    time.Now,
	}
}

func (c *ReportDensityChecker) CheckArea(ctx context.Context, location string) (Assessment, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return AssessmentFor(LevelLow), nil
	}

	var count int
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM ussd_reports
		WHERE LOWER(location) = LOWER($1)
		  AND created_at >= $2
	`, location, c.now().Add(-c.Window)).Scan(&count)
	if err != nil {
		return Assessment{}, fmt.Errorf("safety: count reports: %w", err)
	}

	return AssessmentFor(levelForCount(count)), nil
}

func levelForCount(n int) Level {
	switch {
	case n >= 3:
		return LevelHigh
	case n >= 1:
		return LevelMedium
	default:
		return LevelLow
	}
}
