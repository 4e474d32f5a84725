package simulator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly-com/safenaija/internal/gateway"
	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/middleware"
	"github.com/charly-com/safenaija/internal/safety"
	"github.com/charly-com/safenaija/internal/session"
	"github.com/charly-com/safenaija/internal/ussd"
	"github.com/charly-com/safenaija/internal/webhook"
)

func newWebhook(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	router := ussd.NewRouter(ussd.DefaultServiceCodes(), safety.NewRandomChecker(7))
	engine := gateway.NewEngine(store, router, incident.LogSink{}, gateway.Options{})

	r := gin.New()
	webhook.NewHandler(engine, incident.LogSink{}, middleware.NewOpsKeyMiddleware("")).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/ussd/webhook"
}

func TestDialerEmergencyDialog(t *testing.T) {
	url := newWebhook(t)
	ctx := context.Background()

	d, err := NewDialer(url, "*234*911#", "+2348123456789")
	require.NoError(t, err)

	_, err = d.Send(ctx, "1")
	assert.Error(t, err)

	resp, err := d.Dial(ctx)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "EMERGENCY ALERT - SafeNaija")

	_, err = d.Send(ctx, "2*1")
	assert.ErrorIs(t, err, ErrSeparatorInInput)
	assert.Empty(t, d.Text())

	resp, err = d.Send(ctx, "2")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Emergency: Security")
	assert.Equal(t, "*2", d.Text())

	resp, err = d.Send(ctx, "1")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Location: Current GPS")

	resp, err = d.Send(ctx, "Armed men")
	require.NoError(t, err)
	assert.Equal(t, ussd.ActionEnd, resp.Action)
	assert.True(t, d.Ended())

	_, err = d.Send(ctx, "again")
	assert.ErrorIs(t, err, ErrDialogEnded)
}

func TestWalkStopsAtEnd(t *testing.T) {
	url := newWebhook(t)

	d, err := NewDialer(url, "*234#", "+2348000000000")
	require.NoError(t, err)

	tr, err := Walk(context.Background(), d, []string{"4", "1", "1"})
	require.NoError(t, err)
	assert.Len(t, tr, 2)
	assert.Contains(t, tr.Last().Text, "SafeNaija AI Command & Citizen Network")
}

func TestScriptsFromYAML(t *testing.T) {
	url := newWebhook(t)

	scripts, err := LoadScripts(strings.NewReader(`
- name: crime report skip
  service_code: "*234*100#"
  inputs: ["1", "1", "Ikeja", ""]
  expect: "CRIME REPORT SUBMITTED"
- name: safety tips
  service_code: "*234*199#"
  phone: "+2348111111111"
  inputs: ["2"]
  expect: "SAFETY TIPS:"
`))
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	for _, s := range scripts {
		tr, err := s.Run(context.Background(), url, "+2348000000000")
		require.NoError(t, err, s.Name)
		assert.Equal(t, ussd.ActionEnd, tr.Last().Action, s.Name)
	}

	bad := Script{Name: "wrong", ServiceCode: "*234*199#", Inputs: []string{"2"}, Expect: "nope"}
	_, err = bad.Run(context.Background(), url, "+234")
	assert.Error(t, err)
}

func TestLoadScriptsRequiresServiceCode(t *testing.T) {
	_, err := LoadScripts(strings.NewReader(`- name: x`))
	assert.Error(t, err)
}

func TestDialerWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d, err := NewDialer(srv.URL, "*234#", "+234")
	require.NoError(t, err)

	_, err = d.Dial(context.Background())
	assert.Error(t, err)
}
