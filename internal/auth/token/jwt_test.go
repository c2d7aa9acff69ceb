package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueParse(t *testing.T) {
	ctx := context.Background()
	m := New("test-secret", "cloudify", time.Hour)

	uid := uuid.New()
	raw, claims, err := m.Issue(ctx, uid, "testuser1")
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.Equal(t, uid, claims.UserID)
	require.Equal(t, "testuser1", claims.Login)

	parsed, err := m.Parse(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, claims.JTI, parsed.JTI)
	require.Equal(t, uid, parsed.UserID)
	require.Equal(t, "testuser1", parsed.Login)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	m := New("secret-a", "cloudify", time.Hour)
	other := New("secret-b", "cloudify", time.Hour)

	raw, _, err := m.Issue(ctx, uuid.New(), "testuser1")
	require.NoError(t, err)

	_, err = other.Parse(ctx, raw)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ctx := context.Background()
	m := New("test-secret", "cloudify", -time.Minute)

	raw, _, err := m.Issue(ctx, uuid.New(), "testuser1")
	require.NoError(t, err)

	_, err = m.Parse(ctx, raw)
	require.Error(t, err)
}
