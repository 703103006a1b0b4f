package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookstore-bos/internal/domain/user"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/jwt"
)

var testConfig = &config.Config{
	JWT:  config.JWTConfig{Secret: "test-secret", AccessTokenExpire: time.Hour, RefreshTokenExpire: 24 * time.Hour},
	Auth: config.AuthConfig{AdminEmails: []string{"Admin@Bookstore.com"}},
}

func newUserService(t *testing.T) user.Service {
	t.Helper()
	return user.NewServiceWithCost(rdb.NewUserRepository(rdbtest.NewDB(t)), bcrypt.MinCost)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	uc := NewRegisterUseCase(newUserService(t), testConfig, zap.NewNop())

	t.Run("配置中的邮箱注册为管理员", func(t *testing.T) {
		resp, err := uc.Execute(ctx, RegisterRequest{Email: "admin@bookstore.com", Password: "secret123", Nickname: "admin"})
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", resp.Role)
		t.Log("✅ 管理员注册成功")
	})

	t.Run("其他邮箱为普通用户", func(t *testing.T) {
		resp, err := uc.Execute(ctx, RegisterRequest{Email: "reader@bookstore.com", Password: "secret123", Nickname: "reader"})
		require.NoError(t, err)
		assert.Equal(t, "USER", resp.Role)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := uc.Execute(ctx, RegisterRequest{Email: "reader@bookstore.com", Password: "secret123", Nickname: "again"})
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	_, err := NewRegisterUseCase(svc, testConfig, zap.NewNop()).
		Execute(ctx, RegisterRequest{Email: "reader@bookstore.com", Password: "secret123", Nickname: "reader"})
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager(testConfig.JWT.Secret, testConfig.JWT.AccessTokenExpire, testConfig.JWT.RefreshTokenExpire)

	now := time.Unix(1700000000, 0)
	login := NewLoginUseCase(svc, jwtManager, sessions, testConfig, zap.NewNop())
	login.now = func() time.Time { return now }

	t.Run("登录成功并保存会话", func(t *testing.T) {
		mock.ExpectSet("session:1",
			`{"user_id":1,"email":"reader@bookstore.com","role":"USER","ip":"10.0.0.1","login_at":1700000000}`,
			24*time.Hour).SetVal("OK")

		resp, err := login.Execute(ctx, LoginRequest{Email: "reader@bookstore.com", Password: "secret123", IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Equal(t, "USER", resp.User.Role)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := jwtManager.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, "USER", claims.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("会话保存失败不影响登录", func(t *testing.T) {
		mock.ExpectSet("session:1",
			`{"user_id":1,"email":"reader@bookstore.com","role":"USER","login_at":1700000000}`,
			24*time.Hour).SetErr(errors.New("connection refused"))

		resp, err := login.Execute(ctx, LoginRequest{Email: "reader@bookstore.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := login.Execute(ctx, LoginRequest{Email: "reader@bookstore.com", Password: "wrong1234"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("登出后Token进入黑名单", func(t *testing.T) {
		logout := NewLogoutUseCase(sessions)
		logout.now = func() time.Time { return now }

		token := "access-token"
		sum := sha256.Sum256([]byte(token))
		mock.ExpectDel("session:1").SetVal(1)
		mock.ExpectSet("blacklist:"+hex.EncodeToString(sum[:]), "revoked", 30*time.Minute).SetVal("OK")

		require.NoError(t, logout.Execute(ctx, 1, token, now.Add(30*time.Minute)))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
