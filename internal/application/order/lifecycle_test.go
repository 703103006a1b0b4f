package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("正常流转 NEW → ACCEPTED → SENT", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 2))

		out, err := f.update.Execute(ctx, id, "ACCEPTED")
		require.NoError(t, err)
		require.True(t, out.IsSuccess(), out.Message())
		assert.Equal(t, "ACCEPTED", out.Value().Status)
		assert.Equal(t, "A", out.Value().Items[0].Title)

		out, err = f.update.Execute(ctx, id, "SENT")
		require.NoError(t, err)
		require.True(t, out.IsSuccess())

		event := f.events.last()
		assert.Equal(t, order.EventStatusChanged, event.Type)
		assert.Equal(t, order.StatusAccepted, event.PreviousStatus)
		assert.Equal(t, order.StatusSent, event.Status)
		assert.Equal(t, 3, f.available(t, b.ID), "发货不归还库存")
	})

	t.Run("NEW → CANCELED 归还库存", func(t *testing.T) {
		f := newFixture(t)
		a := f.seedBook(t, "A", "10.00", 5)
		b := f.seedBook(t, "B", "20.00", 5)
		id := f.placeOrder(t, 1, line(a.ID, 2), line(b.ID, 3), line(a.ID, 1))

		out, err := f.update.Execute(ctx, id, "CANCELED")
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, 5, f.available(t, a.ID))
		assert.Equal(t, 5, f.available(t, b.ID))
		assert.True(t, f.events.last().StockRestored)
	})

	t.Run("ACCEPTED → CANCELED 不归还库存", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 2))

		_, err := f.update.Execute(ctx, id, "ACCEPTED")
		require.NoError(t, err)
		out, err := f.update.Execute(ctx, id, "CANCELED")
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, 3, f.available(t, b.ID))
	})

	t.Run("非法流转被拒绝,状态不变", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 1))

		out, err := f.update.Execute(ctx, id, "SENT")
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidOrderStatus, out.Code())

		_, err = f.update.Execute(ctx, id, "CANCELED")
		require.NoError(t, err)
		out, err = f.update.Execute(ctx, id, "ACCEPTED")
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidOrderStatus, out.Code())
		assert.Contains(t, out.Message(), "终态")

		o, err := f.orders.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, o.Status)
		assert.Equal(t, 5, f.available(t, b.ID), "重复取消不会重复归还")
	})

	t.Run("状态参数错误", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 1))

		for _, raw := range []string{"", "  ", "PAID", "accepted"} {
			out, err := f.update.Execute(ctx, id, raw)
			require.NoError(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidParams, out.Code(), "status=%q", raw)
		}
	})

	t.Run("订单不存在", func(t *testing.T) {
		f := newFixture(t)
		out, err := f.update.Execute(ctx, 12345, "ACCEPTED")
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, out.Code())
	})

	t.Run("状态变更清除缓存", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 1))

		_, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		require.True(t, f.cache.has(id))

		_, err = f.update.Execute(ctx, id, "ACCEPTED")
		require.NoError(t, err)
		assert.False(t, f.cache.has(id))

		got, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		assert.Equal(t, "ACCEPTED", got.Value().Status)
	})
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("删除NEW订单归还库存", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 4))
		require.Equal(t, 1, f.available(t, b.ID))

		out, err := f.del.Execute(ctx, id)
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.True(t, out.Value())
		assert.Equal(t, 5, f.available(t, b.ID))

		_, err = f.orders.FindByID(ctx, id)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)

		event := f.events.last()
		assert.Equal(t, order.EventDeleted, event.Type)
		assert.True(t, event.StockRestored)
	})

	t.Run("已发货订单删除不归还库存", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 4))
		for _, s := range []string{"ACCEPTED", "SENT"} {
			out, err := f.update.Execute(ctx, id, s)
			require.NoError(t, err)
			require.True(t, out.IsSuccess())
		}

		out, err := f.del.Execute(ctx, id)
		require.NoError(t, err)
		assert.True(t, out.Value())
		assert.Equal(t, 1, f.available(t, b.ID))
	})

	t.Run("幂等:重复删除和删除不存在的订单都成功", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 2))

		first, err := f.del.Execute(ctx, id)
		require.NoError(t, err)
		assert.True(t, first.Value())

		second, err := f.del.Execute(ctx, id)
		require.NoError(t, err)
		assert.True(t, second.IsSuccess())
		assert.False(t, second.Value())
		assert.Equal(t, 5, f.available(t, b.ID), "不会重复归还")

		missing, err := f.del.Execute(ctx, 999)
		require.NoError(t, err)
		assert.True(t, missing.IsSuccess())
	})

	t.Run("图书已下架仍归还库存", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "A", "10.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 3))
		require.NoError(t, f.books.Delete(ctx, b.ID))

		out, err := f.del.Execute(ctx, id)
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, 5, f.available(t, b.ID))
	})
}
