package simulator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charly-com/safenaija/internal/ussd"
)

// Script is a scripted dialog, usually loaded from a YAML file:
//
//	- name: emergency via gps
//	  service_code: "*234*911#"
//	  inputs: ["1", "1", "Fire in building"]
//	  expect: "EMERGENCY ALERT SENT!"
type Script struct {
	Name        string   `yaml:"name"`
	ServiceCode string   `yaml:"service_code"`
	Phone       string   `yaml:"phone"`
	Inputs      []string `yaml:"inputs"`
	Expect      string   `yaml:"expect"`
}

func LoadScripts(r io.Reader) ([]Script, error) {
	var scripts []Script
	if err := yaml.NewDecoder(r).Decode(&scripts); err != nil {
		return nil, fmt.Errorf("simulator: parse scripts: %w", err)
	}
	for i, s := range scripts {
		if s.ServiceCode == "" {
			return nil, fmt.Errorf("simulator: script %d (%s): missing service_code", i, s.Name)
		}
	}
	return scripts, nil
}

// Transcript is every response of one walked dialog, in order.
type Transcript []ussd.Response

func (t Transcript) Last() ussd.Response {
	if len(t) == 0 {
		return ussd.Response{}
	}
	return t[len(t)-1]
}

// Walk dials and feeds inputs until they run out or the dialog ends.
func Walk(ctx context.Context, d *Dialer, inputs []string) (Transcript, error) {
	resp, err := d.Dial(ctx)
	if err != nil {
		return nil, err
	}
	out := Transcript{resp}

	for _, in := range inputs {
		if d.Ended() {
			break
		}
		resp, err := d.Send(ctx, in)
		if err != nil {
			return out, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Run walks s against webhookURL and checks its expectation.
func (s Script) Run(ctx context.Context, webhookURL, defaultPhone string) (Transcript, error) {
	phone := s.Phone
	if phone == "" {
		phone = defaultPhone
	}

	d, err := NewDialer(webhookURL, s.ServiceCode, phone)
	if err != nil {
		return nil, err
	}

	tr, err := Walk(ctx, d, s.Inputs)
	if err != nil {
		return tr, err
	}

	if s.Expect != "" && !strings.Contains(tr.Last().Text, s.Expect) {
		return tr, fmt.Errorf("simulator: %s: last response %q does not contain %q", s.Name, tr.Last().Text, s.Expect)
	}
	return tr, nil
}
