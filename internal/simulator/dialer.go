// Package simulator plays the handset side of a USSD dialog against the
// webhook, the way a gateway would relay a caller's key presses.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charly-com/safenaija/internal/session"
	"github.com/charly-com/safenaija/internal/ussd"
)

var (
	ErrDialogEnded = errors.New("simulator: dialog already ended")
	// ErrSeparatorInInput rejects answers that would add segments of their own.
	ErrSeparatorInInput = errors.New("simulator: input must not contain '*'")
)

type request struct {
	SessionID   string `json:"sessionId"`
	PhoneNumber string `json:"phoneNumber"`
	Text        string `json:"text"`
	ServiceCode string `json:"serviceCode"`
}

type response struct {
	Response string      `json:"response"`
	Action   ussd.Action `json:"action"`
}

// Dialer holds one simulated dialog. Every turn resends the whole
// "*"-joined input history, starting from an empty first turn.
type Dialer struct {
	client      *http.Client
	url         string
	serviceCode string
	phone       string
	sessionID   string

	text  string
	turns int
	ended bool
}

func NewDialer(webhookURL, serviceCode, phone string) (*Dialer, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("simulator: session id: %w", err)
	}

	return &Dialer{
		client:      &http.Client{Timeout: 10 * time.Second},
		url:         webhookURL,
		serviceCode: serviceCode,
		phone:       phone,
		sessionID:   id,
	}, nil
}

func (d *Dialer) SessionID() string { return d.sessionID }

// Text is the accumulated input that the next turn extends.
func (d *Dialer) Text() string { return d.text }

func (d *Dialer) Ended() bool { return d.ended }

// Dial opens the dialog.
func (d *Dialer) Dial(ctx context.Context) (ussd.Response, error) {
	if d.turns > 0 {
		return ussd.Response{}, errors.New("simulator: already dialed")
	}
	return d.post(ctx, "")
}

// Send answers the current menu with input. An empty input is sent as an
// empty segment, which skips optional prompts.
func (d *Dialer) Send(ctx context.Context, input string) (ussd.Response, error) {
	if d.turns == 0 {
		return ussd.Response{}, errors.New("simulator: dial first")
	}
	input = strings.TrimSpace(input)
	if strings.Contains(input, "*") {
		return ussd.Response{}, fmt.Errorf("%w: %q", ErrSeparatorInInput, input)
	}
	return d.post(ctx, d.text+"*"+input)
}

func (d *Dialer) post(ctx context.Context, text string) (ussd.Response, error) {
	if d.ended {
		return ussd.Response{}, ErrDialogEnded
	}

	body, err := json.Marshal(request{
		SessionID:   d.sessionID,
		PhoneNumber: d.phone,
		Text:        text,
		ServiceCode: d.serviceCode,
	})
	if err != nil {
		return ussd.Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return ussd.Response{}, fmt.Errorf("simulator: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return ussd.Response{}, fmt.Errorf("simulator: post turn: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return ussd.Response{}, fmt.Errorf("simulator: webhook returned %s", res.Status)
	}

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return ussd.Response{}, fmt.Errorf("simulator: decode response: %w", err)
	}

	resp, ok := ussd.ParseRendered(out.Response)
	if !ok {
		return ussd.Response{}, fmt.Errorf("simulator: unexpected response %q", out.Response)
	}

	d.text = text
	d.turns++
	d.ended = resp.IsTerminal()
	return resp, nil
}
