package ussd

import (
	"fmt"

	"github.com/charly-com/safenaija/internal/incident"
)

var (
	crimeTypes = []string{"Robbery/Theft", "Kidnapping", "Assault", "Cybercrime/Fraud", "Drug-related", "Other Crime"}
	timeframes = []string{"Happening now", "Within last hour", "Today", "Yesterday", "Earlier"}
)

// skipToken is what a caller sends to leave the description empty. A
// trailing "*" in the accumulated text arrives as an empty last segment.
const skipToken = "*"

func (r *Router) crimeReport(d *dialog) Response {
	fd := d.sess.FlowData

	switch d.step {
	case 0:
		return Continue(`CRIME REPORT - SafeNaija
1. Robbery/Theft
2. Kidnapping
3. Assault
4. Cybercrime/Fraud
5. Drug-related
6. Other Crime`)

	case 1:
		fd[keyCrimeType] = pick(crimeTypes, d.input, "Other Crime")
		return Continue(fmt.Sprintf(`Crime: %s
When did this occur?
1. Happening now
2. Within last hour
3. Today
4. Yesterday
5. Earlier`, fd[keyCrimeType]))

	case 2:
		fd[keyTimeframe] = pick(timeframes, d.input, "Earlier")
		return Continue(fmt.Sprintf(`Time: %s
Location of incident:`, fd[keyTimeframe]))

	case 3:
		fd[keyLocation] = d.input
		return Continue(fmt.Sprintf(`Location: %s
Brief description (optional):
(Send * to skip)`, d.input))

	case 4:
		if d.input != skipToken && d.input != "" {
			fd[keyDescription] = d.input
		}
		return r.finalizeCrimeReport(d)
	}

	return End(msgInvalidSelection)
}

func (r *Router) finalizeCrimeReport(d *dialog) Response {
	fd := d.sess.FlowData
	now := r.now()
	ref := reference("CR", now)

	report := incident.NewReport(now)
	report.SessionID = d.sess.SessionID
	report.PhoneNumber = d.sess.PhoneNumber
	report.CrimeType = fd[keyCrimeType]
	report.Timeframe = fd[keyTimeframe]
	report.Location = fd[keyLocation]
	report.Description = fd[keyDescription]
	report.Reference = ref
	d.result.Report = &report

	// reports reached from Safety Check also go out as suspicious activity
	if fd[keyReportOrigin] == string(FlowSafety) {
		alert := incident.NewAlert(incident.KindSuspiciousActivity, now)
		alert.SessionID = report.SessionID
		alert.PhoneNumber = report.PhoneNumber
		alert.Location = report.Location
		alert.Description = report.Description
		alert.Reference = ref
		d.result.Alert = &alert
	}

	return End(fmt.Sprintf(`CRIME REPORT SUBMITTED
Reference: %s

Your report has been received and will be investigated.

Thank you for helping keep Nigeria safe.
- SafeNaija Team`, ref))
}
