package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"teamtrack/internal/constants"
)

func TestGenerateInviteCode_Format(t *testing.T) {
	code, err := GenerateInviteCode()
	require.NoError(t, err)
	require.Len(t, code, constants.InviteCodeLength)

	for _, r := range code {
		require.True(t, strings.ContainsRune(inviteCodeAlphabet, r), "unexpected character %q", r)
	}
}

func TestGenerateInviteCode_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	require.Greater(t, len(seen), 1)
}
