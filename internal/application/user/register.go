package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/user"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
)

// RegisterUseCase 用户注册
// auth.admin_emails中的邮箱注册为管理员,其余为普通用户
type RegisterUseCase struct {
	userService user.Service
	auth        config.AuthConfig
	logger      *zap.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, cfg *config.Config, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		auth:        cfg.Auth,
		logger:      logger,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	role := user.RoleUser
	if uc.auth.IsAdminEmail(req.Email) {
		role = user.RoleAdmin
	}

	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("用户注册", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     string(u.Role),
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应,不含密码哈希
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}
