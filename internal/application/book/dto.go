package book

import (
	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// AuthorDTO 作者
type AuthorDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookDTO 图书详情和列表项共用
// 价格以字符串返回,固定两位小数,避免前端浮点误差
type BookDTO struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Year      int         `json:"year"`
	Price     string      `json:"price"`
	Available int         `json:"available"`
	Authors   []AuthorDTO `json:"authors"`
	CoverURL  string      `json:"cover_url,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

const timeLayout = "2006-01-02 15:04:05"

func toAuthorDTO(a book.Author) AuthorDTO {
	return AuthorDTO{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName}
}

func toBookDTO(b *book.Book) *BookDTO {
	authors := make([]AuthorDTO, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = toAuthorDTO(a)
	}
	return &BookDTO{
		ID:        b.ID,
		Title:     b.Title,
		Year:      b.Year,
		Price:     b.Price.StringFixed(2),
		Available: b.Available,
		Authors:   authors,
		CoverURL:  b.CoverURL,
		CreatedAt: b.CreatedAt.Format(timeLayout),
		UpdatedAt: b.UpdatedAt.Format(timeLayout),
	}
}
