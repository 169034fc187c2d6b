package auth

import (
	"testing"
	"time"

	"eventregistry/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestJWT_IssueAndVerify(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Issue("user-1", "alice", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWT_Verify_Failures(t *testing.T) {
	j := NewJWT("test-secret")

	t.Run("garbage token", func(t *testing.T) {
		_, err := j.Verify("not.a.token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWT("other-secret")
		token, err := other.Issue("user-1", "alice", domain.RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = j.Verify(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := j.Issue("user-1", "alice", domain.RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = j.Verify(token)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := j.Issue("", "alice", domain.RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = j.Verify(token)
		require.Error(t, err)
	})
}
