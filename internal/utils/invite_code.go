package utils

import (
	"crypto/rand"
	"fmt"

	"teamtrack/internal/constants"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode generates a short random invite code, e.g. "K4TQ7N".
// The alphabet skips easily confused characters (0/O, 1/I).
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, constants.InviteCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := make([]byte, len(bytes))
	for i, b := range bytes {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}

	return string(code), nil
}
