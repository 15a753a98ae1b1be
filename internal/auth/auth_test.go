package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	id, token, err := svc.IssueGuest("Anna")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "Anna", id.Name)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestIssueRequiresName(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	_, _, err := svc.IssueGuest("   ")
	assert.Error(t, err)
}

func TestValidateRejectsForgedToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	_, token, err := other.IssueGuest("Mallory")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)
	_, token, err := svc.IssueGuest("Anna")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
