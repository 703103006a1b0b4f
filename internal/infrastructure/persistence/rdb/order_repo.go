package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// orderRepository 订单仓储实现
// 教学要点:
// 1. Order和Item是聚合关系,必须一起保存、一起删除
// 2. 明细按主键升序加载,即下单时的顺序
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// GORM会按切片顺序插入关联的Items,明细主键即下单顺序
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items", orderByID).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// LockByID 悲观锁查询订单
// 同一订单的状态变更和删除互斥执行
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	db := getDB(ctx, r.db)

	var model OrderModel
	if err := forUpdate(db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定订单失败")
	}

	if err := db.Where("order_id = ?", id).Order("id ASC").Find(&model.Items).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}
	return toOrderEntity(&model), nil
}

// UpdateStatus 只更新Status和UpdatedAt
func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":     string(o.Status),
		"updated_at": o.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// Delete 物理删除订单及明细
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	if err := db.Where("order_id = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除订单明细失败")
	}
	if err := db.Delete(&OrderModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除订单失败")
	}
	return nil
}

// List 分页查询订单列表
func (r *orderRepository) List(ctx context.Context, params order.ListParams) ([]*order.Order, int64, error) {
	var (
		models []OrderModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&OrderModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("Items", orderByID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &OrderModel{
		ID:      o.ID,
		OrderNo: o.OrderNo,
		UserID:  o.UserID,
		Recipient: RecipientModel{
			Name:    o.Recipient.Name,
			Phone:   o.Recipient.Phone,
			Street:  o.Recipient.Street,
			City:    o.Recipient.City,
			ZipCode: o.Recipient.ZipCode,
			Email:   o.Recipient.Email,
		},
		Status:    string(o.Status),
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.Item, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.Item{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &order.Order{
		ID:      model.ID,
		OrderNo: model.OrderNo,
		UserID:  model.UserID,
		Recipient: order.Recipient{
			Name:    model.Recipient.Name,
			Phone:   model.Recipient.Phone,
			Street:  model.Recipient.Street,
			City:    model.Recipient.City,
			ZipCode: model.Recipient.ZipCode,
			Email:   model.Recipient.Email,
		},
		Status:    order.Status(model.Status),
		Total:     model.Total,
		Items:     items,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
