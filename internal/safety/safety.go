// Package safety assesses how risky an area is for the Safety Check flow.
package safety

import (
	"context"
	"math/rand/v2"
	"sync"
)

type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

var messages = map[Level]string{
	LevelLow:    "Area appears safe. Normal precautions advised.",
	LevelMedium: "Moderate risk detected. Stay alert and avoid isolated areas.",
	LevelHigh:   "High risk area. Exercise extreme caution or avoid if possible.",
}

type Assessment struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func AssessmentFor(level Level) Assessment {
	return Assessment{Level: level, Message: messages[level]}
}

// Checker classifies a free-text location.
type Checker interface {
	CheckArea(ctx context.Context, location string) (Assessment, error)
}

// RandomChecker picks a level uniformly. It stands in when no incident
// database is configured.
type RandomChecker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomChecker(seed uint64) *RandomChecker {
	return &RandomChecker{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *RandomChecker) CheckArea(_ context.Context, _ string) (Assessment, error) {
	levels := []Level{LevelLow, LevelMedium, LevelHigh}

	c.mu.Lock()
	i := c.rnd.IntN(len(levels))
	c.mu.Unlock()

	return AssessmentFor(levels[i]), nil
}
