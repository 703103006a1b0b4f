package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// Service 用户领域服务
// 密码哈希与凭证校验都在这里,角色由应用层决定后传入
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login 邮箱不存在与密码错误返回同一个错误,不暴露账号是否存在
	Login(ctx context.Context, email, password string) (*User, error)
}

// RegisterParams 注册参数
type RegisterParams struct {
	Email    string
	Password string
	Nickname string
	Role     Role
}

// DefaultBcryptCost 测试中用bcrypt.MinCost
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, DefaultBcryptCost)
}

// NewServiceWithCost 指定bcrypt cost
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

// NormalizeEmail 去掉首尾空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 用户注册
// 邮箱唯一性交给数据库UNIQUE索引,仓储把重复键转换为ErrEmailDuplicate
func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	email := NormalizeEmail(params.Email)
	if !emailPattern.MatchString(email) {
		return nil, apperrors.ErrInvalidParams.WithMessage("邮箱格式不正确")
	}
	if err := validatePasswordStrength(params.Password); err != nil {
		return nil, err
	}

	nickname := strings.TrimSpace(params.Nickname)
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		return nil, apperrors.ErrInvalidParams.WithMessage("昵称长度应为2-50个字符")
	}

	role := params.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidParams.WithMessage("未知角色: " + string(role))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), nickname, role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return nil, apperrors.ErrInvalidPassword
	default:
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
}

// validatePasswordStrength 8-20位,同时包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
