package user

import "context"

// Repository 用户仓储,邮箱在写入前已规范化(小写、去空白)
type Repository interface {
	// Create 邮箱重复返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByEmail 不存在返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
