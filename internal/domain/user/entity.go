package user

import "time"

// Role 用户角色,写入JWT,决定能否访问管理接口
type Role string

const (
	RoleUser  Role = "USER"  // 下单、查看自己的订单
	RoleAdmin Role = "ADMIN" // 维护目录、处理所有订单
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User 用户实体
// Password保存bcrypt哈希;映射到表结构在rdb包完成
type User struct {
	ID        uint
	Email     string
	Password  string
	Nickname  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser hashedPassword必须已经过bcrypt
func NewUser(email, hashedPassword, nickname string, role Role) *User {
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
