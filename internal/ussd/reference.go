package ussd

import (
	"strconv"
	"strings"
	"time"
)

// reference builds a caller-facing reference: prefix plus the last six
// digits of the epoch millisecond timestamp.
func reference(prefix string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) < 6 {
		ms = strings.Repeat("0", 6-len(ms)) + ms
	}
	return prefix + ms[len(ms)-6:]
}

// pick resolves a 1-indexed menu selection, falling back on anything that
// is not a listed option.
func pick(options []string, input, fallback string) string {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(options) {
		return fallback
	}
	return options[n-1]
}
