package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/user"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-bos/pkg/jwt"
)

// LoginUseCase 用户登录
// Token对携带角色;会话写入Redis,有效期与Refresh Token一致
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	cfg *config.Config,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   cfg.JWT.RefreshTokenExpire,
		logger:       logger,
		now:          time.Now,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(jwt.Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     string(u.Role),
	})
	if err != nil {
		return nil, err
	}

	// 会话保存失败不影响登录
	session := redis.Session{
		UserID:  u.ID,
		Email:   u.Email,
		Role:    string(u.Role),
		IP:      req.IP,
		LoginAt: uc.now().Unix(),
	}
	if err := uc.sessionStore.SaveSession(ctx, session, uc.sessionTTL); err != nil {
		uc.logger.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User: UserInfo{
			ID:       u.ID,
			Email:    u.Email,
			Nickname: u.Nickname,
			Role:     string(u.Role),
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	now          func() time.Time
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, now: time.Now}
}

// Execute 执行登出
// Access Token在过期前加入黑名单，黑名单TTL取剩余有效期
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string, expiresAt time.Time) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, expiresAt.Sub(uc.now()))
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	IP       string // 客户端IP，由handler从请求中取得
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}
