package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// DeleteBookUseCase 下架图书
// 软删除,历史订单仍能查到书名;重复下架不报错
type DeleteBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

func NewDeleteBookUseCase(bookService book.Service, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, logger: logger}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("图书已下架", zap.Uint("book_id", id))
	return nil
}
