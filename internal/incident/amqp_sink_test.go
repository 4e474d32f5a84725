package incident

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	exchange string
	kind     string
	body     []byte
	err      error
}

func (f *fakePublisher) Publish(exchange, kind string, body []byte) error {
	f.exchange, f.kind, f.body = exchange, kind, body
	return f.err
}

func TestAMQPSinkPublishesAlert(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSink(pub, "ussd.incidents")

	a := NewAlert(KindEmergency, time.Now())
	a.Reference = "EMG111111"
	a.EmergencyType = "Fire"
	require.NoError(t, sink.CreateAlert(context.Background(), a))

	assert.Equal(t, "ussd.incidents", pub.exchange)
	assert.Equal(t, "EMERGENCY", pub.kind)

	var got Alert
	require.NoError(t, json.Unmarshal(pub.body, &got))
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Fire", got.EmergencyType)
}

func TestAMQPSinkPublishesReport(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSink(pub, "ussd.incidents")

	require.NoError(t, sink.CreateReport(context.Background(), NewReport(time.Now())))
	assert.Equal(t, "CRIME_REPORT", pub.kind)
}

func TestAMQPSinkPropagatesPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	sink := NewAMQPSink(&fakePublisher{err: boom}, "ussd.incidents")

	assert.ErrorIs(t, sink.CreateAlert(context.Background(), NewAlert(KindEmergency, time.Now())), boom)
}
