package ussd

import (
	"fmt"

	"github.com/charly-com/safenaija/internal/incident"
)

// Stages of the emergency dialog. Steps 3 and 4 are read through the stage,
// since after the location choice both branches reach step 3.
const (
	StageAwaitingType           = "AwaitingType"
	StageAwaitingLocationChoice = "AwaitingLocationChoice"
	StageAwaitingManualLocation = "AwaitingManualLocation"
	StageAwaitingDescription    = "AwaitingDescription"
	StageCompleted              = "Completed"
)

const LocationGPSCurrent = "GPS_CURRENT"

var emergencyTypes = []string{"Medical", "Security", "Fire", "Accident", "Other"}

func (r *Router) emergency(d *dialog) Response {
	fd := d.sess.FlowData

	switch d.step {
	case 0:
		fd[keyEmergencyStage] = StageAwaitingType
		return Continue(`EMERGENCY ALERT - SafeNaija
1. Medical Emergency
2. Security Threat
3. Fire Emergency
4. Accident
5. Other Emergency`)

	case 1:
		fd[keyEmergencyType] = pick(emergencyTypes, d.input, "Other")
		fd[keyEmergencyStage] = StageAwaitingLocationChoice
		return Continue(fmt.Sprintf(`Emergency: %s
Please provide your location:
1. Use my current location
2. Enter location manually`, fd[keyEmergencyType]))

	case 2:
		if d.input == "1" {
			fd[keyLocation] = LocationGPSCurrent
			fd[keyEmergencyStage] = StageAwaitingDescription
			return Continue(`Location: Current GPS
Brief description of emergency:`)
		}
		fd[keyEmergencyStage] = StageAwaitingManualLocation
		return Continue(`Enter your location (e.g., "Mile 2 Bridge, Lagos"):`)

	case 3:
		recoverEmergency(d)
		switch fd[keyEmergencyStage] {
		case StageAwaitingDescription:
			fd[keyDescription] = d.input
			return r.finalizeEmergency(d)
		case StageAwaitingManualLocation:
			fd[keyLocation] = d.input
			fd[keyEmergencyStage] = StageAwaitingDescription
			return Continue(fmt.Sprintf(`Location: %s
Brief description of emergency:`, d.input))
		}

	case 4:
		recoverEmergency(d)
		if fd[keyEmergencyStage] == StageAwaitingDescription && fd[keyLocation] != LocationGPSCurrent {
			fd[keyDescription] = d.input
			return r.finalizeEmergency(d)
		}
	}

	return End(msgInvalidSelection)
}

// recoverEmergency rebuilds the dialog state from the accumulated text when
// the session lost it, so a caller deep in the dialog can still finish.
func recoverEmergency(d *dialog) {
	fd := d.sess.FlowData
	switch fd[keyEmergencyStage] {
	case StageAwaitingManualLocation, StageAwaitingDescription, StageCompleted:
		return
	}

	if _, ok := fd[keyEmergencyType]; !ok {
		fd[keyEmergencyType] = pick(emergencyTypes, d.segment(1), "Other")
	}

	switch {
	case d.segment(2) == "1":
		fd[keyLocation] = LocationGPSCurrent
		fd[keyEmergencyStage] = StageAwaitingDescription
	case d.step == 3:
		fd[keyEmergencyStage] = StageAwaitingManualLocation
	default:
		fd[keyLocation] = d.segment(3)
		fd[keyEmergencyStage] = StageAwaitingDescription
	}
}

func (r *Router) finalizeEmergency(d *dialog) Response {
	fd := d.sess.FlowData
	now := r.now()
	ref := reference("EMG", now)

	fd[keyEmergencyStage] = StageCompleted

	alert := incident.NewAlert(incident.KindEmergency, now)
	alert.SessionID = d.sess.SessionID
	alert.PhoneNumber = d.sess.PhoneNumber
	alert.EmergencyType = fd[keyEmergencyType]
	alert.Location = fd[keyLocation]
	alert.Description = fd[keyDescription]
	alert.Reference = ref
	d.result.Alert = &alert

	return End(fmt.Sprintf(`EMERGENCY ALERT SENT!
Reference: %s
Help is on the way.
Stay safe and keep your phone on.

For immediate assistance:
Call 199 or 112`, ref))
}
