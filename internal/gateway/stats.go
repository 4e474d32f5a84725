package gateway

import (
	"context"
	"fmt"
	"time"
)

// Stats summarizes the live sessions for the operations console.
type Stats struct {
	TotalSessions            int     `json:"total_sessions"`
	ActiveSessions           int     `json:"active_sessions"`
	CompletedToday           int     `json:"completed_today"`
	AverageCompletionSeconds float64 `json:"average_completion_seconds"`
}

func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	sessions, err := e.store.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("gateway: stats: %w", err)
	}

	now := e.now()
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var (
		st       = Stats{TotalSessions: len(sessions)}
		total    time.Duration
		finished int
	)

	for _, s := range sessions {
		if !s.Completed || s.CompletedAt == nil {
			st.ActiveSessions++
			continue
		}

		finished++
		total += s.CompletedAt.Sub(s.CreatedAt)
		if !s.CompletedAt.Before(midnight) {
			st.CompletedToday++
		}
	}

	if finished > 0 {
		st.AverageCompletionSeconds = total.Seconds() / float64(finished)
	}

	return st, nil
}
