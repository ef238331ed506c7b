package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return &Service{
		Secret:     []byte("test-secret-at-least-32-bytes-long!!"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := testService()
	pair, err := svc.issuePair("user-1", RoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, RoleCustomer, claims.Role)
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	svc := testService()
	pair, err := svc.issuePair("user-1", RoleAdmin)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := testService()
	pair, err := svc.issuePair("user-1", RoleCustomer)
	require.NoError(t, err)

	other := testService()
	other.Secret = []byte("a-completely-different-signing-key!!")
	_, err = other.VerifyAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := testService()
	svc.AccessTTL = -time.Minute
	pair, err := svc.issuePair("user-1", RoleCustomer)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := testService().VerifyAccessToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
