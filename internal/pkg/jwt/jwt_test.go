package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")
	want := Claims{UserID: "user-1", OrganizationID: "org-1", Role: user.RoleManager}

	token, expiresAt, err := svc.GenerateAccessToken(want)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), decoded, nil)

	got, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJWTService_InvalidExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "forever")
	_, _, err := svc.GenerateAccessToken(Claims{UserID: "u", OrganizationID: "o"})
	assert.Error(t, err)
}

func TestJWTService_SSEToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")
	want := Claims{UserID: "user-1", OrganizationID: "org-1", Role: user.RoleAdmin}

	token, expiresIn, err := svc.GenerateSSEToken(want)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJWTService_SSERejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")
	token, _, err := svc.GenerateAccessToken(Claims{UserID: "u", OrganizationID: "o"})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestClaimsFromMap_MissingOrganization(t *testing.T) {
	_, err := claimsFromMap(map[string]interface{}{"user_id": "u"})
	assert.ErrorContains(t, err, "organization_id")
}
