package ussd

// Action tells the gateway whether the dialog stays open.
type Action string

const (
	ActionContinue Action = "CON"
	ActionEnd      Action = "END"
)

const (
	MsgUnavailable      = "Service temporarily unavailable. Please try again later."
	msgInvalidSelection = "Invalid selection. Please try again."
	msgServiceError     = "Service error. Please try again."
)

// Response is the outcome of one dialog turn. Text never carries the
// CON/END prefix; Render adds it.
type Response struct {
	Text   string
	Action Action
}

func Continue(text string) Response {
	return Response{Text: text, Action: ActionContinue}
}

func End(text string) Response {
	return Response{Text: text, Action: ActionEnd}
}

// Unavailable is the uniform reply for anything that went wrong.
func Unavailable() Response {
	return End(MsgUnavailable)
}

// Render returns the gateway wire form, e.g. "CON Welcome to SafeNaija".
func (r Response) Render() string {
	return string(r.Action) + " " + r.Text
}

func (r Response) IsTerminal() bool {
	return r.Action == ActionEnd
}

// ParseRendered splits a rendered response back into its parts.
func ParseRendered(s string) (Response, bool) {
	switch {
	case len(s) >= 4 && s[:4] == "CON ":
		return Continue(s[4:]), true
	case len(s) >= 4 && s[:4] == "END ":
		return End(s[4:]), true
	}
	return Response{}, false
}
