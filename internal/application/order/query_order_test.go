package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBook(t, "Effective Java", "120.00", 5)
	id := f.placeOrder(t, 7, line(b.ID, 1))

	t.Run("下单用户可见", func(t *testing.T) {
		out, err := f.get.Execute(ctx, id, Viewer{UserID: 7})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, "Jan Kowalski", out.Value().Recipient.Name)
	})

	t.Run("其他用户看不到", func(t *testing.T) {
		out, err := f.get.Execute(ctx, id, Viewer{UserID: 8})
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, out.Code())
	})

	t.Run("不存在的订单", func(t *testing.T) {
		out, err := f.get.Execute(ctx, 999, Viewer{Admin: true})
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, out.Code())
		assert.False(t, f.cache.has(999))
	})

	t.Run("命中缓存", func(t *testing.T) {
		require.True(t, f.cache.has(id))
		// 缓存命中时不再查库:直接删掉数据库里的订单也能读到
		require.NoError(t, f.orders.Delete(ctx, id))

		out, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, "120.00", out.Value().Total)
		assert.Equal(t, []string{}, out.Value().Items[0].Authors)
	})
}

func TestGetOrder_ConcurrentWriteDuringLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("回源期间状态变更,不回填旧快照", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "Effective Java", "120.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 1))

		f.cache.beforeSet = func() {
			out, err := f.update.Execute(ctx, id, "ACCEPTED")
			require.NoError(t, err)
			require.True(t, out.IsSuccess())
		}
		out, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.False(t, f.cache.has(id))

		out, err = f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, "ACCEPTED", out.Value().Status)
		t.Log("✅ 再次读取得到数据库中的最新状态")
	})

	t.Run("回源期间订单被删除,之后读取为不存在", func(t *testing.T) {
		f := newFixture(t)
		b := f.seedBook(t, "Effective Java", "120.00", 5)
		id := f.placeOrder(t, 1, line(b.ID, 1))

		f.cache.beforeSet = func() {
			out, err := f.del.Execute(ctx, id)
			require.NoError(t, err)
			require.True(t, out.IsSuccess())
		}
		_, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)

		out, err := f.get.Execute(ctx, id, Viewer{Admin: true})
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, out.Code())
		assert.Equal(t, 5, f.available(t, b.ID))
	})
}

func TestGetOrder_SoftDeletedBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBook(t, "Old Book", "15.00", 5)
	id := f.placeOrder(t, 1, line(b.ID, 1))
	require.NoError(t, f.books.Delete(ctx, b.ID))

	out, err := f.get.Execute(ctx, id, Viewer{Admin: true})
	require.NoError(t, err)
	require.True(t, out.IsSuccess())
	assert.Equal(t, "Old Book", out.Value().Items[0].Title)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.seedBook(t, "A", "10.00", 100)
	for _, userID := range []uint{1, 1, 2} {
		f.placeOrder(t, userID, line(b.ID, 1))
	}
	first := f.placeOrder(t, 1, line(b.ID, 1))
	_, err := f.update.Execute(ctx, first, "ACCEPTED")
	require.NoError(t, err)

	t.Run("普通用户只看到自己的订单", func(t *testing.T) {
		out, err := f.list.Execute(ctx, ListOrdersRequest{Viewer: Viewer{UserID: 1}})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		assert.Equal(t, int64(3), out.Value().Total)
		assert.Equal(t, 20, out.Value().PageSize)
		for _, o := range out.Value().List {
			assert.Equal(t, uint(1), o.UserID)
		}
	})

	t.Run("管理员按状态过滤", func(t *testing.T) {
		out, err := f.list.Execute(ctx, ListOrdersRequest{Status: "ACCEPTED", Viewer: Viewer{Admin: true}})
		require.NoError(t, err)
		require.True(t, out.IsSuccess())
		require.Len(t, out.Value().List, 1)
		assert.Equal(t, first, out.Value().List[0].ID)
	})

	t.Run("分页", func(t *testing.T) {
		out, err := f.list.Execute(ctx, ListOrdersRequest{Page: 2, PageSize: 3, Viewer: Viewer{Admin: true}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), out.Value().Total)
		assert.Len(t, out.Value().List, 1)
	})

	t.Run("未知状态", func(t *testing.T) {
		out, err := f.list.Execute(ctx, ListOrdersRequest{Status: "LOST", Viewer: Viewer{Admin: true}})
		require.NoError(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, out.Code())
	})
}
