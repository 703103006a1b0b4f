package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 订单和明细必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(明细按主键升序)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 悲观锁查询订单,状态变更和删除前调用
	LockByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 只更新状态和更新时间
	UpdateStatus(ctx context.Context, order *Order) error

	// Delete 物理删除订单及其明细
	Delete(ctx context.Context, id uint) error

	// List 分页查询订单,UserID为0表示不过滤用户
	List(ctx context.Context, params ListParams) ([]*Order, int64, error)
}

// ListParams 订单列表查询参数
type ListParams struct {
	UserID   uint
	Status   Status // 为空表示全部状态
	Page     int
	PageSize int
}
