// Package ussd implements the SafeNaija USSD dialogs: a router that picks a
// flow from the dialed service code and the step-indexed flow machines.
package ussd

import (
	"context"
	"strconv"
	"time"

	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/safety"
	"github.com/charly-com/safenaija/internal/session"
)

type FlowName string

const (
	FlowMain      FlowName = "main"
	FlowEmergency FlowName = "emergency"
	FlowCrime     FlowName = "crime"
	FlowSafety    FlowName = "safety"
)

// flowData keys shared by the router and the flows.
const (
	keyFlow     = "flow"
	keyFlowBase = "flowBase"

	keyEmergencyType  = "emergencyType"
	keyEmergencyStage = "emergencyStage"
	keyLocation       = "location"
	keyDescription    = "description"
	keyCrimeType      = "crimeType"
	keyTimeframe      = "timeframe"
	keyCheckLocation  = "checkingLocation"
	keyReportOrigin   = "reportOrigin"
)

// ServiceCodes maps dialed short-codes to their flows.
type ServiceCodes struct {
	Emergency   string
	CrimeReport string
	SafetyCheck string
}

func DefaultServiceCodes() ServiceCodes {
	return ServiceCodes{
		Emergency:   "*234*911#",
		CrimeReport: "*234*100#",
		SafetyCheck: "*234*199#",
	}
}

// Result is a computed turn. Alert and Report are set on the turn that
// finalizes a dialog; the caller decides whether to deliver them.
type Result struct {
	Response Response
	Flow     FlowName
	Step     int
	Alert    *incident.Alert
	Report   *incident.Report
}

type Router struct {
	codes  ServiceCodes
	safety safety.Checker
	now    func() time.Time
}

func NewRouter(codes ServiceCodes, checker safety.Checker) *Router {
	return &Router{
		codes:  codes,
		safety: checker,
		now:    time.Now,
	}
}

// dialog is the state one flow function works on.
type dialog struct {
	ctx    context.Context
	sess   *session.Session
	input  string
	step   int // relative to the active flow
	abs    int // step of the whole accumulated text
	segs   []string
	result *Result
}

// segment returns the input given at step rel of the active flow.
func (d *dialog) segment(rel int) string {
	i := d.abs - d.step + rel
	if i < 0 || i >= len(d.segs) {
		return ""
	}
	return d.segs[i]
}

// Route computes the response for one turn and mutates sess.FlowData.
// Step bounds are left to the flows.
func (r *Router) Route(ctx context.Context, sess *session.Session, text, serviceCode string) Result {
	if sess.FlowData == nil {
		sess.FlowData = map[string]string{}
	}

	t := ParseTurn(text)
	flow := r.flowFor(serviceCode)
	base := 0

	if name, ok := sess.FlowData[keyFlow]; ok {
		flow = FlowName(name)
		base, _ = strconv.Atoi(sess.FlowData[keyFlowBase])
	}

	res := &Result{}
	d := &dialog{
		ctx:    ctx,
		sess:   sess,
		input:  t.Input,
		step:   t.Step - base,
		abs:    t.Step,
		segs:   t.Segments,
		result: res,
	}

	res.Response = r.run(flow, d)
	if res.Flow == "" {
		res.Flow = flow
	}
	res.Step = d.step
	return *res
}

func (r *Router) flowFor(serviceCode string) FlowName {
	switch serviceCode {
	case r.codes.Emergency:
		return FlowEmergency
	case r.codes.CrimeReport:
		return FlowCrime
	case r.codes.SafetyCheck:
		return FlowSafety
	default:
		return FlowMain
	}
}

func (r *Router) run(flow FlowName, d *dialog) Response {
	if d.step < 0 {
		return End(msgInvalidSelection)
	}

	switch flow {
	case FlowEmergency:
		return r.emergency(d)
	case FlowCrime:
		return r.crimeReport(d)
	case FlowSafety:
		return r.safetyCheck(d)
	default:
		return r.mainMenu(d)
	}
}

// delegate hands the dialog to another flow at its step 0 and remembers
// where that flow started so later turns continue inside it.
func (r *Router) delegate(d *dialog, flow FlowName) Response {
	d.sess.FlowData[keyFlow] = string(flow)
	d.sess.FlowData[keyFlowBase] = strconv.Itoa(d.abs)

	d.step = 0
	d.input = ""
	d.result.Flow = flow
	return r.run(flow, d)
}
