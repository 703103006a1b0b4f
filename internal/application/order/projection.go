package order

import (
	"context"
	"time"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
)

// RichOrder 订单详情（含收件人、明细书名作者、小计、总价）
// 金额统一格式化为两位小数的字符串，避免浮点误差
type RichOrder struct {
	ID        uint          `json:"id"`
	OrderNo   string        `json:"order_no"`
	UserID    uint          `json:"user_id"`
	Status    string        `json:"status"`
	Recipient RecipientView `json:"recipient"`
	Items     []RichItem    `json:"items"`
	Total     string        `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RecipientView 收件人
type RecipientView struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Email   string `json:"email"`
}

// RichItem 订单明细
type RichItem struct {
	BookID    uint     `json:"book_id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Quantity  int      `json:"quantity"`
	UnitPrice string   `json:"unit_price"`
	Subtotal  string   `json:"subtotal"`
}

// Projector 订单 → RichOrder
// 书名和作者实时从图书表读取（含已下架图书），单价用下单时的快照
type Projector struct {
	books book.Repository
}

// NewProjector 创建投影器
func NewProjector(books book.Repository) *Projector {
	return &Projector{books: books}
}

// Project 批量投影，一次查询加载所有涉及的图书
func (p *Projector) Project(ctx context.Context, orders ...*order.Order) ([]*RichOrder, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, o := range orders {
		for _, item := range o.Items {
			if _, ok := seen[item.BookID]; !ok {
				seen[item.BookID] = struct{}{}
				ids = append(ids, item.BookID)
			}
		}
	}

	books := map[uint]*book.Book{}
	if len(ids) > 0 {
		var err error
		if books, err = p.books.FindByIDsUnscoped(ctx, ids); err != nil {
			return nil, err
		}
	}

	result := make([]*RichOrder, len(orders))
	for i, o := range orders {
		result[i] = project(o, books)
	}
	return result, nil
}

// ProjectOne 单个订单投影
func (p *Projector) ProjectOne(ctx context.Context, o *order.Order) (*RichOrder, error) {
	rich, err := p.Project(ctx, o)
	if err != nil {
		return nil, err
	}
	return rich[0], nil
}

func project(o *order.Order, books map[uint]*book.Book) *RichOrder {
	items := make([]RichItem, len(o.Items))
	for i, item := range o.Items {
		ri := RichItem{
			BookID:    item.BookID,
			Authors:   []string{},
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		}
		if b, ok := books[item.BookID]; ok {
			ri.Title = b.Title
			ri.Authors = b.AuthorNames()
		}
		items[i] = ri
	}

	r := o.Recipient
	return &RichOrder{
		ID:      o.ID,
		OrderNo: o.OrderNo,
		UserID:  o.UserID,
		Status:  o.Status.String(),
		Recipient: RecipientView{
			Name:    r.Name,
			Phone:   r.Phone,
			Street:  r.Street,
			City:    r.City,
			ZipCode: r.ZipCode,
			Email:   r.Email,
		},
		Items:     items,
		Total:     o.Total.StringFixed(2),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
