package book

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
)

// Transactor 事务边界,由rdb.TxManager实现
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PatchBookUseCase 图书部分更新
// 设计说明:
// 1. 请求体先解析成封闭的字段命令集合,未知字段直接拒绝
// 2. 读取、校验、写入在同一事务内,任一字段不合法都不会落库
// 3. 作者关联替换和字段更新是两条SQL,必须由事务保证一起成功
type PatchBookUseCase struct {
	tx          Transactor
	bookService book.Service
	logger      *zap.Logger
}

func NewPatchBookUseCase(tx Transactor, bookService book.Service, logger *zap.Logger) *PatchBookUseCase {
	return &PatchBookUseCase{tx: tx, bookService: bookService, logger: logger}
}

// Execute 执行部分更新
// fields是原始JSON对象,键为字段名
func (uc *PatchBookUseCase) Execute(ctx context.Context, id uint, fields map[string]json.RawMessage) (*BookDTO, error) {
	cmds, err := book.ParseCommands(fields)
	if err != nil {
		return nil, err
	}

	var updated *book.Book
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.PatchBook(ctx, id, cmds)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	changed := make([]string, len(cmds))
	for i, cmd := range cmds {
		changed[i] = cmd.Field()
	}
	uc.logger.Info("图书已更新", zap.Uint("book_id", id), zap.Strings("fields", changed))
	return toBookDTO(updated), nil
}
