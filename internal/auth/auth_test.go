package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveydesk/internal/cache"
	"surveydesk/internal/model"
)

func TestHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9", HashPassword("admin123"))
	assert.Equal(t, HashPassword("gestor123"), HashPassword("gestor123"))
	assert.NotEqual(t, HashPassword("a"), HashPassword("b"))
}

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	user := &model.User{ID: 7, Username: "gestor", Role: model.RoleManager}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "gestor", claims.Username)
	assert.Equal(t, model.RoleManager, claims.Role)

	_, err = svc.ExtractTokenID(token)
	assert.Error(t, err, "access tokens carry no jti")

	claims, err = svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "gestor", claims.Username)
}

func TestJWTService_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, refresh, err := svc.GenerateRefreshToken(&model.User{ID: 1, Username: "admin", Role: model.RoleAdministrator})
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWTService_RejectsOtherSecretAndExpired(t *testing.T) {
	user := &model.User{ID: 1, Username: "admin", Role: model.RoleAdministrator}
	token, err := NewJWTService("one").GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = NewJWTService("two").ValidateToken(token)
	assert.Error(t, err)

	old := NewJWTService("one")
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := old.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = old.ValidateToken(expired)
	assert.Error(t, err)
}

func TestTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(cache.NewMemory(16))
	svc := NewJWTService("test-secret")

	tokenID, token, err := svc.GenerateRefreshToken(&model.User{ID: 3, Username: "ana", Role: model.RoleManager})
	require.NoError(t, err)
	extracted, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)

	require.NoError(t, store.StoreRefreshToken(ctx, tokenID, 3, "ana", RefreshTokenExpiry))
	userID, username, err := store.GetRefreshToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), userID)
	assert.Equal(t, "ana", username)

	require.NoError(t, store.DeleteRefreshToken(ctx, tokenID))
	_, _, err = store.GetRefreshToken(ctx, tokenID)
	assert.Error(t, err)
}

func TestTokenStore_SessionMemoryKeepsEarlyTokens(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(cache.NewSessionMemory(RefreshTokenExpiry))

	require.NoError(t, store.StoreRefreshToken(ctx, "first", 1, "admin", RefreshTokenExpiry))
	for i := 0; i < 256; i++ {
		require.NoError(t, store.StoreRefreshToken(ctx, fmt.Sprintf("later-%d", i), 2, "gestor", RefreshTokenExpiry))
	}

	userID, username, err := store.GetRefreshToken(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)
	assert.Equal(t, "admin", username)
}
