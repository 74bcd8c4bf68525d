package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: "test-secret", Issuer: "dashflow-test", TTL: ttl})
	require.NoError(t, err)
	return m
}

func TestGenerateAndVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, jti, expiresAt, err := m.Generate(42, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.IdentityID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	token, _, _, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)

	other, err := NewManager(Config{Secret: "wrong-secret", Issuer: "dashflow-test", TTL: time.Hour})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newTestManager(t, time.Hour)
	m.TTL = -time.Minute
	token, _, _, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, time.Hour)
	_, err := m.Verify("not.a.token")
	require.Error(t, err)
}

func TestJTIsAreUnique(t *testing.T) {
	m := newTestManager(t, time.Hour)
	_, jti1, _, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)
	_, jti2, _, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, jti1, jti2)
}
