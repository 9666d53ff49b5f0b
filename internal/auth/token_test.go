package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	iss := NewIssuer("secret")
	raw, err := iss.IssueToken("42", " ops@example.com ", "admin")
	require.NoError(t, err)

	claims, err := iss.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	raw, err := NewIssuer("one").IssueToken("1", "a@b.c", "staff")
	require.NoError(t, err)

	_, err = NewIssuer("two").ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	iss := Issuer{Secret: []byte("s"), TTL: time.Hour, Now: func() time.Time { return past }}
	raw, err := iss.IssueToken("1", "", "")
	require.NoError(t, err)

	_, err = NewIssuer("s").ParseToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
