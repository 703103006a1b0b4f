package book

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 上架和部分更新共用同一套字段命令,校验规则只写一遍
type Service interface {
	// PublishBook 上架图书,所有字段错误一起返回(ValidationErrors)
	PublishBook(ctx context.Context, params PublishParams) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// PatchBook 部分更新
	// 任一命令校验失败则不做任何修改
	PatchBook(ctx context.Context, id uint, cmds []Command) (*Book, error)

	// DeleteBook 下架图书(软删除,幂等)
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// CreateAuthor 新增作者
	CreateAuthor(ctx context.Context, firstName, lastName string) (*Author, error)

	// ListAuthors 作者列表
	ListAuthors(ctx context.Context) ([]Author, error)
}

// PublishParams 上架参数
type PublishParams struct {
	Title     string
	Year      int
	Price     decimal.Decimal
	Available int
	AuthorIDs []uint
	CoverURL  string
}

// commands 上架参数拆成字段命令,复用部分更新的校验
func (p PublishParams) commands() []Command {
	return []Command{
		&SetTitle{Title: p.Title},
		&SetYear{Year: p.Year},
		&SetPrice{Price: p.Price},
		&SetAvailable{Available: p.Available},
		&SetAuthors{AuthorIDs: p.AuthorIDs},
		&SetCoverURL{URL: p.CoverURL},
	}
}

type service struct {
	repo    Repository
	authors AuthorRepository
}

// NewService 创建图书领域服务
func NewService(repo Repository, authors AuthorRepository) Service {
	return &service{repo: repo, authors: authors}
}

// PublishBook 上架图书
func (s *service) PublishBook(ctx context.Context, params PublishParams) (*Book, error) {
	cmds := params.commands()
	if err := validateAll(ctx, s.authors, cmds); err != nil {
		return nil, err
	}

	book := NewBook("", 0, decimal.Zero, 0, nil, "")
	for _, cmd := range cmds {
		cmd.apply(book)
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// PatchBook 部分更新
func (s *service) PatchBook(ctx context.Context, id uint, cmds []Command) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateAll(ctx, s.authors, cmds); err != nil {
		return nil, err
	}

	for _, cmd := range cmds {
		cmd.apply(book)
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 下架图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// CreateAuthor 新增作者,姓和名都不能为空
func (s *service) CreateAuthor(ctx context.Context, firstName, lastName string) (*Author, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrInvalidAuthor
	}

	author := NewAuthor(firstName, lastName)
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// ListAuthors 作者列表
func (s *service) ListAuthors(ctx context.Context) ([]Author, error) {
	return s.authors.List(ctx)
}
