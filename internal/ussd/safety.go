package ussd

import (
	"fmt"

	"github.com/charly-com/safenaija/internal/logger"
)

func (r *Router) safetyCheck(d *dialog) Response {
	fd := d.sess.FlowData

	switch d.step {
	case 0:
		return Continue(`SAFETY CHECK - SafeNaija
1. Check area safety status
2. Get safety tips
3. Report suspicious activity
4. Emergency contacts
5. Back to main menu`)

	case 1:
		switch d.input {
		case "1":
			fd[keyCheckLocation] = "true"
			return Continue("Enter your location to check safety status:")
		case "2":
			return End(`SAFETY TIPS:
• Always inform someone of your travel plans
• Avoid displaying expensive items
• Stay in well-lit areas at night
• Trust your instincts
• Keep emergency numbers handy

Stay safe! - SafeNaija`)
		case "3":
			fd[keyReportOrigin] = string(FlowSafety)
			return r.delegate(d, FlowCrime)
		case "4":
			return End(fmt.Sprintf(`EMERGENCY CONTACTS:
Police: 199
Fire Service: 199
Ambulance: 199
Emergency: 112

SafeNaija Hotline: %s

Save these numbers!`, r.codes.Emergency))
		default:
			return r.delegate(d, FlowMain)
		}

	case 2:
		if fd[keyCheckLocation] != "true" {
			return End(msgServiceError)
		}
		return r.areaStatus(d)
	}

	return End(msgInvalidSelection)
}

func (r *Router) areaStatus(d *dialog) Response {
	location := d.input

	status, err := r.safety.CheckArea(d.ctx, location)
	if err != nil {
		logger.Error("area safety check failed", map[string]any{
			"session_id": d.sess.SessionID,
			"error":      err.Error(),
		})
		return End(msgServiceError)
	}

	return End(fmt.Sprintf(`SAFETY STATUS: %s
Threat Level: %s
%s

Last Updated: %s
Stay vigilant and report any suspicious activity.`,
		location, status.Level, status.Message, r.now().Format("15:04:05")))
}
