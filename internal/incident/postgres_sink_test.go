package incident

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSinkCreateAlert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := NewAlert(KindEmergency, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	a.SessionID = "sid-1"
	a.PhoneNumber = "+2348123456789"
	a.EmergencyType = "Medical"
	a.Location = "GPS_CURRENT"
	a.Description = "Fire in building"
	a.Reference = "EMG654321"

	mock.ExpectExec("INSERT INTO ussd_alerts").
		WithArgs(a.ID, "EMERGENCY", "USSD", "sid-1", "+2348123456789", "Medical",
			"GPS_CURRENT", "Fire in building", "EMG654321", a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewPostgresSink(db).CreateAlert(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkCreateReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewReport(time.Now())
	r.PhoneNumber = "+2347098765432"
	r.CrimeType = "Robbery/Theft"
	r.Timeframe = "Happening now"
	r.Location = "Ikeja"
	r.Reference = "CR000001"

	mock.ExpectExec("INSERT INTO ussd_reports").
		WithArgs(r.ID, "USSD", "", "+2347098765432", "Robbery/Theft", "Happening now",
			"Ikeja", "", "CR000001", r.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewPostgresSink(db).CreateReport(context.Background(), r))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkWrapsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("relation does not exist")
	mock.ExpectExec("INSERT INTO ussd_reports").WillReturnError(boom)

	err = NewPostgresSink(db).CreateReport(context.Background(), NewReport(time.Now()))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert report")
}
