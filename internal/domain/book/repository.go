package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都从ctx中获取事务,和下单流程共享同一个事务
type Repository interface {
	// Create 创建图书(同时写入作者关联)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,软删除的图书视为不存在
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDsUnscoped 批量查询,包含已软删除的图书
	// 订单详情需要展示历史订单里已下架图书的书名和作者
	FindByIDsUnscoped(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// Update 更新图书(作者关联整体替换)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除,重复删除不报错)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByIDs 悲观锁批量锁定图书
	// 按ID升序逐行SELECT ... FOR UPDATE,固定加锁顺序避免死锁
	// 不存在的ID不会出现在结果中,由调用方比对
	LockByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// UpdateStock 原子更新库存
	// delta为正数表示归还,负数表示扣减;扣减后为负时返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// AuthorRepository 作者仓储接口
type AuthorRepository interface {
	Create(ctx context.Context, author *Author) error

	// FindByIDs 批量查询作者,不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) ([]Author, error)

	List(ctx context.Context) ([]Author, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 书名关键词
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}
