package dto

import "github.com/shopspring/decimal"

// PublishBookRequest HTTP上架请求
// 字段规则(价格区间、库存区间、作者存在性)由领域层统一校验,这里只做格式绑定
type PublishBookRequest struct {
	Title     string          `json:"title" example:"Effective Java"`
	Year      int             `json:"year" example:"2018"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"120.00"`
	Available int             `json:"available" example:"10"`
	AuthorIDs []uint          `json:"authors" example:"1,2"`
	CoverURL  string          `json:"cover_url" example:"https://example.com/cover.jpg"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Java"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// PatchBookRequest 仅用于文档:可修改字段,至少一个
// 实际按原始JSON对象解析,未知字段会被拒绝
type PatchBookRequest struct {
	Title     *string `json:"title,omitempty" example:"Effective Java (3rd)"`
	Year      *int    `json:"year,omitempty" example:"2018"`
	Price     *string `json:"price,omitempty" example:"99.90"`
	Available *int    `json:"available,omitempty" example:"20"`
	AuthorIDs []uint  `json:"authors,omitempty"`
	CoverURL  *string `json:"cover_url,omitempty"`
}

// CreateAuthorRequest 新增作者
type CreateAuthorRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100" example:"Joshua"`
	LastName  string `json:"last_name" binding:"required,max=100" example:"Bloch"`
}
