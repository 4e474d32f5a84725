package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateID returns an opaque session id in the style aggregators use
// ("ATUid_" followed by 16 random bytes, hex encoded).
func GenerateID() (string, error) {

	const size = 16

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return "ATUid_" + hex.EncodeToString(b), nil

}
