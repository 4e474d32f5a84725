package ussd

import "fmt"

func (r *Router) mainMenu(d *dialog) Response {
	if d.step == 0 {
		return Continue(fmt.Sprintf(`Welcome to SafeNaija
1. Emergency Alert (%s)
2. Crime Report (%s)
3. Safety Check (%s)
4. About SafeNaija
5. Help`, r.codes.Emergency, r.codes.CrimeReport, r.codes.SafetyCheck))
	}

	// past step 0 the selection decides, not the step
	switch d.input {
	case "1":
		return r.delegate(d, FlowEmergency)
	case "2":
		return r.delegate(d, FlowCrime)
	case "3":
		return r.delegate(d, FlowSafety)
	case "4":
		return End(`SafeNaija AI Command & Citizen Network

Empowering Nigerian Police with AI-driven crime prediction and citizen reporting.

Working together for a safer Nigeria.

Visit: safenaija.gov.ng`)
	case "5":
		return End(fmt.Sprintf(`HELP - SafeNaija USSD Codes:

%s - Emergency Alert
%s - Crime Report
%s - Safety Check

For smartphone users:
Download SafeNaija app from Play Store

24/7 Support: 0800-SAFENAIJA`, r.codes.Emergency, r.codes.CrimeReport, r.codes.SafetyCheck))
	default:
		return End("Invalid selection. Please try again with a valid option.")
	}
}
