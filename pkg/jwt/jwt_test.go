package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(Identity{UserID: 42, Email: "admin@bookstore.com", Nickname: "admin", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	t.Run("Access Token携带角色", func(t *testing.T) {
		claims, err := m.ParseToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "ADMIN", claims.Role)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("Refresh Token只有UserID", func(t *testing.T) {
		claims, err := m.ParseToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Empty(t, claims.Role)
	})
}

func TestManager_ParseToken_Errors(t *testing.T) {
	m := NewManager("test-secret", time.Hour, time.Hour)
	pair, err := m.GenerateToken(Identity{UserID: 1, Role: "USER"})
	require.NoError(t, err)

	t.Run("过期", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()

		_, err := m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("密钥不同", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour, time.Hour)
		_, err := other.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("拒绝非HS256算法", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1, Role: "ADMIN"})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.ParseToken(s)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("乱码", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
