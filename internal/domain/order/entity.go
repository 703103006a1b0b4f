package order

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,Item是子实体,只能通过Order访问
// 2. Total冗余存储,创建时根据快照单价计算,之后不再变化
// 3. Recipient是值对象,创建后不可修改
type Order struct {
	ID        uint
	OrderNo   string // 订单号(业务主键)
	UserID    uint   // 下单用户
	Recipient Recipient
	Items     []Item // 按明细主键顺序,即下单时的顺序
	Status    Status
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 订单明细
// UnitPrice是下单时的价格快照,图书后续改价不影响历史订单
type Item struct {
	ID        uint
	OrderID   uint
	BookID    uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal 小计 = 单价 × 数量
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recipient 收件人(值对象)
type Recipient struct {
	Name    string
	Phone   string
	Street  string
	City    string
	ZipCode string
	Email   string
}

// Validate 收件人字段都不能为空,邮箱需合法
func (r Recipient) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", r.Name},
		{"phone", r.Phone},
		{"street", r.Street},
		{"city", r.City},
		{"zip_code", r.ZipCode},
		{"email", r.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return ErrInvalidRecipient.WithMessage("收件人信息不完整: " + strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrInvalidRecipient.WithMessage("收件人邮箱格式不正确")
	}
	return nil
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为NEW,总价根据明细快照计算
func NewOrder(orderNo string, userID uint, recipient Recipient, items []Item) *Order {
	now := time.Now()
	o := &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		Recipient: recipient,
		Items:     items,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.Total = o.CalculateTotal()
	return o
}

// CalculateTotal 计算订单总价 Σ 单价 × 数量
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TransitionTo 状态流转
// 非法的边返回ErrInvalidStatusTransition,状态保持不变
func (o *Order) TransitionTo(policy *StatusPolicy, target Status) error {
	if !policy.Allows(o.Status, target) {
		if policy.IsTerminal(o.Status) {
			return ErrInvalidStatusTransition.WithMessage(
				fmt.Sprintf("订单已处于终态%s,不能再变更为%s", o.Status, target))
		}
		return ErrInvalidStatusTransition.WithMessage(
			fmt.Sprintf("订单状态不能从%s变更为%s,允许的状态: %s", o.Status, target, joinStatuses(policy.Targets(o.Status))))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// ReleasesStockOn 流转到target时是否需要归还库存
// 只有仍处于NEW(尚未受理)的订单取消时才归还
func (o *Order) ReleasesStockOn(target Status) bool {
	return o.Status == StatusNew && target == StatusCanceled
}

// ReleasesStockOnDelete 删除订单时是否需要归还库存
func (o *Order) ReleasesStockOnDelete() bool {
	return o.Status == StatusNew
}

// QuantitiesByBook 按图书汇总数量(同一本书可能出现在多行明细中)
func (o *Order) QuantitiesByBook() map[uint]int {
	q := make(map[uint]int, len(o.Items))
	for _, item := range o.Items {
		q[item.BookID] += item.Quantity
	}
	return q
}

func joinStatuses(list []Status) string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
