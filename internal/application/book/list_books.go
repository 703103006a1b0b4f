package book

import (
	"context"
	"strings"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 支持分页、书名搜索、按价格或上架时间排序
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest SortBy取price_asc、price_desc,其余按上架时间倒序
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string
	SortBy   string
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List       []*BookDTO `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行列表查询
// page默认1,pageSize默认20、最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  strings.TrimSpace(req.Keyword),
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*BookDTO, len(books))
	for i, b := range books {
		list[i] = toBookDTO(b)
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: int((total + int64(req.PageSize) - 1) / int64(req.PageSize)),
	}, nil
}
