package rdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

func newTestOrder(userID uint, bookIDs ...uint) *order.Order {
	items := make([]order.Item, len(bookIDs))
	for i, id := range bookIDs {
		items[i] = order.Item{BookID: id, Quantity: i + 1, UnitPrice: decimal.RequireFromString("12.50")}
	}
	return order.NewOrder(order.GenerateOrderNo(time.Now()), userID, order.Recipient{
		Name: "Jan", Phone: "600100200", Street: "Main 1", City: "Warsaw", ZipCode: "00-001", Email: "jan@example.com",
	}, items)
}

func TestOrderRepository_DuplicateOrderNoIsConflict(t *testing.T) {
	ctx := context.Background()
	db := rdbtest.NewDB(t)
	repo := rdb.NewOrderRepository(db)
	tx := rdb.NewTxManagerWithTimeout(db, 0)

	first := newTestOrder(1, 1)
	require.NoError(t, repo.Create(ctx, first))

	dup := newTestOrder(1, 1)
	dup.OrderNo = first.OrderNo
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, dup)
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	t.Log("✅ 订单号冲突返回409,可重试")
}

func TestOrderRepository_CreateFind(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewOrderRepository(rdbtest.NewDB(t))

	o := newTestOrder(7, 3, 1, 2)
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.OrderNo, got.OrderNo)
	assert.Equal(t, order.StatusNew, got.Status)
	assert.Equal(t, "Warsaw", got.Recipient.City)
	assert.Equal(t, "75.00", got.Total.StringFixed(2)) // 12.50 × (1+2+3)

	// 明细保持下单顺序
	require.Len(t, got.Items, 3)
	assert.Equal(t, []uint{3, 1, 2}, []uint{got.Items[0].BookID, got.Items[1].BookID, got.Items[2].BookID})

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepository_LockUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := rdbtest.NewDB(t)
	repo := rdb.NewOrderRepository(db)
	tx := rdb.NewTxManagerWithTimeout(db, time.Second)

	o := newTestOrder(1, 10, 11)
	require.NoError(t, repo.Create(ctx, o))

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		locked, err := repo.LockByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Len(t, locked.Items, 2)

		require.NoError(t, locked.TransitionTo(order.DefaultPolicy(), order.StatusAccepted))
		return repo.UpdateStatus(ctx, locked)
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, got.Status)

	t.Run("事务回滚", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.Transaction(ctx, func(ctx context.Context) error {
			require.NoError(t, repo.Delete(ctx, o.ID))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repo.FindByID(ctx, o.ID)
		assert.NoError(t, err)
	})

	t.Run("物理删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, o.ID))
		_, err := repo.FindByID(ctx, o.ID)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)

		var items int64
		require.NoError(t, db.Model(&rdb.OrderItemModel{}).Where("order_id = ?", o.ID).Count(&items).Error)
		assert.Zero(t, items)
	})
}

func TestOrderRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewOrderRepository(rdbtest.NewDB(t))

	for _, userID := range []uint{1, 1, 2} {
		require.NoError(t, repo.Create(ctx, newTestOrder(userID, 1)))
	}

	orders, total, err := repo.List(ctx, order.ListParams{UserID: 1, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	_, total, err = repo.List(ctx, order.ListParams{Page: 1, PageSize: 10, Status: order.StatusSent})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = repo.List(ctx, order.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
