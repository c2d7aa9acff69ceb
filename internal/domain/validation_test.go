package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidLogin(t *testing.T) {
	for _, ok := range []string{"abcdefgh", "User1234", "00000000"} {
		require.True(t, ValidLogin(ok), ok)
	}
	for _, bad := range []string{"", "short1", "with space8", "юзер12345", "under_score8"} {
		require.False(t, ValidLogin(bad), bad)
	}
}

func TestValidPassword(t *testing.T) {
	require.True(t, ValidPassword("Passw0rd!"))
	for _, bad := range []string{"", "short1!", "alllower1!", "ALLUPPER1!", "NoDigits!!", "NoSymbol11"} {
		require.False(t, ValidPassword(bad), bad)
	}
}

func TestValidPathSegment(t *testing.T) {
	for _, ok := range []string{"docs", "my photos", "отчёты", "a.b"} {
		require.True(t, ValidPathSegment(ok), ok)
	}
	for _, bad := range []string{"", "   ", ".", "..", "a/b", `a\b`, "a..b", "a\x00b"} {
		require.False(t, ValidPathSegment(bad), bad)
	}
}
