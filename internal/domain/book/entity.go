package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用decimal.Decimal(两位小数),避免浮点误差
// 2. Available是可售库存,任何时刻都不能为负数
// 3. 作者是多对多关系,图书只持有作者的只读快照
type Book struct {
	ID        uint
	Title     string
	Year      int             // 出版年份
	Price     decimal.Decimal // 单价
	Available int             // 可售库存
	Authors   []Author
	CoverURL  string // 封面引用(只存URL,不存图片本身)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author 作者实体
// 删除作者不会级联删除图书
type Author struct {
	ID        uint
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// FullName 作者全名
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NewBook 创建新图书(工厂方法)
// 调用方需先通过Service完成字段校验
func NewBook(title string, year int, price decimal.Decimal, available int, authors []Author, coverURL string) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		Year:      year,
		Price:     price,
		Available: available,
		Authors:   authors,
		CoverURL:  coverURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewAuthor 创建作者
func NewAuthor(firstName, lastName string) *Author {
	return &Author{
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
	}
}

// CanReserve 库存是否足够预留quantity本
func (b *Book) CanReserve(quantity int) bool {
	return quantity > 0 && b.Available >= quantity
}

// AuthorNames 作者全名列表(按关联顺序)
func (b *Book) AuthorNames() []string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.FullName()
	}
	return names
}

// AuthorIDs 作者ID列表
func (b *Book) AuthorIDs() []uint {
	ids := make([]uint, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return ids
}
