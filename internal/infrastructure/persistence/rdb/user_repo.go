package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-bos/internal/domain/user"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// userRepository 邮箱唯一性靠UNIQUE索引,重复键转换为ErrEmailDuplicate
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:    u.Email,
		Password: u.Password,
		Nickname: u.Nickname,
		Role:     string(u.Role),
	}

	err := getDB(ctx, r.db).Create(model).Error
	switch {
	case err == nil:
	case isDuplicateError(err):
		return apperrors.ErrEmailDuplicate
	default:
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID, u.CreatedAt, u.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where("email = ?", email).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "查询用户失败: %s", email)
	}

	return &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Nickname:  model.Nickname,
		Role:      user.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
