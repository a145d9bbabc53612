package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := NewIssuer("short", time.Hour)
	assert.Error(t, err)
}

func TestIssueParse_RoundTrip(t *testing.T) {
	i, err := NewIssuer(secret, time.Hour)
	require.NoError(t, err)
	raw, err := i.Issue("4b1c2f7e", RoleUser)
	require.NoError(t, err)

	cl, err := i.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "4b1c2f7e", cl.Subject)
	assert.Equal(t, RoleUser, cl.Role)
}

func TestParse_Expired(t *testing.T) {
	i, err := NewIssuer(secret, time.Minute)
	require.NoError(t, err)
	issuedAt := time.Now().Add(-time.Hour)
	i.now = func() time.Time { return issuedAt }
	raw, err := i.Issue("7", RoleAdmin)
	require.NoError(t, err)

	i.now = time.Now
	_, err = i.Parse(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParse_WrongSecretOrGarbage(t *testing.T) {
	a, _ := NewIssuer(secret, time.Hour)
	b, _ := NewIssuer("another-secret-of-20b", time.Hour)
	raw, err := a.Issue("u1", RoleUser)
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = a.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalid)
}
