package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charly-com/safenaija/internal/simulator"
)

// echoGateway ends the dialog once the caller has answered twice.
func echoGateway(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := "CON got " + req.Text
		action := "CON"
		if strings.Count(req.Text, "*") >= 2 {
			resp, action = "END bye", "END"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": resp, "action": action})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestInteract(t *testing.T) {
	d, err := simulator.NewDialer(echoGateway(t), "*234#", "+234")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)

	err = interact(cmd, d, strings.NewReader("1\n2\n3\n"), false)
	require.NoError(t, err)

	assert.Equal(t, "got \ngot *1\nbye\n", out.String())
	assert.True(t, d.Ended())
}

func TestWalkCommand(t *testing.T) {
	url := echoGateway(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"walk", "--url", url, "--input", "1,2", "--expect", "bye"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "== cli")
	assert.Contains(t, out.String(), "END bye")
}
