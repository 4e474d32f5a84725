package ussd

import "strings"

// Turn is one gateway request's accumulated input, split into segments.
// Step is the number of segments minus one and Input the last segment.
type Turn struct {
	Segments []string
	Input    string
	Step     int
}

func ParseTurn(text string) Turn {
	segments := strings.Split(text, "*")
	return Turn{
		Segments: segments,
		Input:    segments[len(segments)-1],
		Step:     len(segments) - 1,
	}
}
