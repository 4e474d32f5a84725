package incident

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	alerts  []Alert
	reports []Report
	err     error
}

func (r *recordingSink) CreateAlert(_ context.Context, a Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return r.err
}

func (r *recordingSink) CreateReport(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return r.err
}

func TestFanoutDeliversToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	f := NewFanout().Add("a", a).Add("b", b)
	require.Equal(t, 2, f.Len())

	alert := NewAlert(KindEmergency, time.Now())
	alert.Reference = "EMG123456"
	require.NoError(t, f.CreateAlert(context.Background(), alert))

	report := NewReport(time.Now())
	report.Reference = "CR123456"
	require.NoError(t, f.CreateReport(context.Background(), report))

	for _, s := range []*recordingSink{a, b} {
		require.Len(t, s.alerts, 1)
		assert.Equal(t, "EMG123456", s.alerts[0].Reference)
		require.Len(t, s.reports, 1)
		assert.Equal(t, "CR123456", s.reports[0].Reference)
	}
}

func TestFanoutJoinsFailures(t *testing.T) {
	boom := errors.New("connection refused")
	ok := &recordingSink{}
	bad := &recordingSink{err: boom}

	f := NewFanout().Add("postgres", bad).Add("log", ok)
	err := f.CreateAlert(context.Background(), NewAlert(KindEmergency, time.Now()))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "postgres")
	assert.Len(t, ok.alerts, 1, "healthy sinks still receive the alert")
}

func TestNewAlertAssignsIdentity(t *testing.T) {
	now := time.Now()
	a := NewAlert(KindSuspiciousActivity, now)
	b := NewAlert(KindSuspiciousActivity, now)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, SourceUSSD, a.Source)
	assert.Equal(t, now, a.CreatedAt)
}

func TestLogSinkNeverFails(t *testing.T) {
	var s LogSink
	assert.NoError(t, s.CreateAlert(context.Background(), NewAlert(KindEmergency, time.Now())))
	assert.NoError(t, s.CreateReport(context.Background(), NewReport(time.Now())))
}
