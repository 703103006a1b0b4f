package rdb

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 设计说明：
// 1. 这里是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换

// UserModel 用户表
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:100;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt
	Nickname  string `gorm:"size:50;not null"`
	Role      string `gorm:"size:16;not null;default:USER"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

// AuthorModel 作者表
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	CreatedAt time.Time
}

func (AuthorModel) TableName() string { return "authors" }

// BookModel 图书表
// 1. 价格decimal(10,2)，库存available列永不为负
// 2. 软删除：已下单的图书下架后，历史订单仍能查到书名
type BookModel struct {
	ID        uint            `gorm:"primaryKey"`
	Title     string          `gorm:"index;size:200;not null"`
	Year      int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;index:idx_list"`
	Available int             `gorm:"not null;default:0"`
	CoverURL  string          `gorm:"size:500"`
	Authors   []AuthorModel   `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
	CreatedAt time.Time       `gorm:"index:idx_list"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string { return "books" }

// RecipientModel 收件人，嵌入订单表（recipient_前缀）
type RecipientModel struct {
	Name    string `gorm:"size:100;not null"`
	Phone   string `gorm:"size:30;not null"`
	Street  string `gorm:"size:200;not null"`
	City    string `gorm:"size:100;not null"`
	ZipCode string `gorm:"size:20;not null"`
	Email   string `gorm:"size:100;not null"`
}

// OrderModel 订单表
// 订单物理删除（连同明细），没有DeletedAt
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	OrderNo   string           `gorm:"uniqueIndex;size:32;not null"`
	UserID    uint             `gorm:"index;not null"`
	Recipient RecipientModel   `gorm:"embedded;embeddedPrefix:recipient_"`
	Status    string           `gorm:"index;size:16;not null"`
	Total     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time        `gorm:"index"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细表
// UnitPrice是下单时的价格快照
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null"`
	BookID    uint            `gorm:"index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (OrderItemModel) TableName() string { return "order_items" }
