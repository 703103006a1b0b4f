package book

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排,字段校验全部交给领域服务
// 2. 输入输出使用DTO,与HTTP层解耦
type PublishBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service, logger *zap.Logger) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
		logger:      logger,
	}
}

// PublishBookRequest 上架请求
type PublishBookRequest struct {
	Title     string
	Year      int
	Price     decimal.Decimal
	Available int
	AuthorIDs []uint
	CoverURL  string
}

// Execute 执行上架
// 字段错误以book.ValidationErrors一次性返回
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	b, err := uc.bookService.PublishBook(ctx, book.PublishParams{
		Title:     req.Title,
		Year:      req.Year,
		Price:     req.Price,
		Available: req.Available,
		AuthorIDs: req.AuthorIDs,
		CoverURL:  req.CoverURL,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("图书上架",
		zap.Uint("book_id", b.ID),
		zap.String("title", b.Title),
		zap.Int("available", b.Available),
		zap.Uints("author_ids", b.AuthorIDs()),
	)
	return toBookDTO(b), nil
}
