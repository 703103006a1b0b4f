package book

import (
	"context"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// AuthorUseCase 作者管理:新增和列表
type AuthorUseCase struct {
	bookService book.Service
}

func NewAuthorUseCase(bookService book.Service) *AuthorUseCase {
	return &AuthorUseCase{bookService: bookService}
}

// CreateAuthorRequest 新增作者请求
type CreateAuthorRequest struct {
	FirstName string
	LastName  string
}

// Create 新增作者,姓名两端空白会被去掉
func (uc *AuthorUseCase) Create(ctx context.Context, req CreateAuthorRequest) (*AuthorDTO, error) {
	a, err := uc.bookService.CreateAuthor(ctx, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	dto := toAuthorDTO(*a)
	return &dto, nil
}

// List 全部作者,按ID升序
func (uc *AuthorUseCase) List(ctx context.Context) ([]AuthorDTO, error) {
	authors, err := uc.bookService.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AuthorDTO, len(authors))
	for i, a := range authors {
		out[i] = toAuthorDTO(a)
	}
	return out, nil
}
