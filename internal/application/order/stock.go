package order

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
)

// restoreStock 把订单的每一行数量加回对应图书,返回归还的总件数
// 必须在锁定订单的同一事务内调用;按图书ID升序更新,与下单时的加锁顺序一致
func restoreStock(ctx context.Context, books book.Repository, o *order.Order, log *zap.Logger) (int, error) {
	quantities := o.QuantitiesByBook()
	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	restored := 0
	for _, id := range ids {
		err := books.UpdateStock(ctx, id, quantities[id])
		if errors.Is(err, book.ErrBookNotFound) {
			log.Warn("图书已不存在,跳过归还库存", zap.Uint("order_id", o.ID), zap.Uint("book_id", id))
			continue
		}
		if err != nil {
			return 0, err
		}
		restored += quantities[id]
	}
	return restored, nil
}
