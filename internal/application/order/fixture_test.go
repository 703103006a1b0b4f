package order

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb/rdbtest"
)

type recordingEvents struct {
	mu     sync.Mutex
	events []order.Event
}

func (r *recordingEvents) Publish(_ context.Context, e order.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) last() order.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// memCache 以JSON保存,版本号语义与Redis缓存一致
type memCache struct {
	mu       sync.Mutex
	data     map[uint][]byte
	versions map[uint]int64

	// beforeSet 非nil时在下一次SetIfVersion前执行一次,用于模拟回源期间的并发写
	beforeSet func()
}

func newMemCache() *memCache {
	return &memCache{data: map[uint][]byte{}, versions: map[uint]int64{}}
}

func (c *memCache) Get(_ context.Context, id uint, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Version(_ context.Context, id uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id], nil
}

func (c *memCache) SetIfVersion(_ context.Context, id uint, version int64, v interface{}) (bool, error) {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[id] != version {
		return false, nil
	}
	c.data[id] = raw
	return true, nil
}

func (c *memCache) Invalidate(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[id]++
	delete(c.data, id)
	return nil
}

func (c *memCache) has(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[id]
	return ok
}

type fixture struct {
	books  book.Repository
	orders order.Repository
	events *recordingEvents
	cache  *memCache

	create *CreateOrderUseCase
	update *UpdateOrderStatusUseCase
	del    *DeleteOrderUseCase
	get    *GetOrderUseCase
	list   *ListOrdersUseCase
}

// newFixture SQLite内存库 + 真实仓储,事务不设超时
func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := rdbtest.NewDB(t)
	log := zap.NewNop()

	f := &fixture{
		books:  rdb.NewBookRepository(db),
		orders: rdb.NewOrderRepository(db),
		events: &recordingEvents{},
		cache:  newMemCache(),
	}
	tx := rdb.NewTxManagerWithTimeout(db, 0)
	projector := NewProjector(f.books)

	f.create = NewCreateOrderUseCase(tx, f.books, f.orders, f.events, log)
	f.update = NewUpdateOrderStatusUseCase(tx, f.orders, f.books, order.DefaultPolicy(), projector, f.cache, f.events, log)
	f.del = NewDeleteOrderUseCase(tx, f.orders, f.books, f.cache, f.events, log)
	f.get = NewGetOrderUseCase(f.orders, projector, f.cache, log)
	f.list = NewListOrdersUseCase(f.orders, projector)
	return f
}

func (f *fixture) seedBook(t testing.TB, title, price string, available int) *book.Book {
	t.Helper()
	b := book.NewBook(title, 2008, decimal.RequireFromString(price), available, nil, "")
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

// available 当前库存(含已下架图书)
func (f *fixture) available(t testing.TB, id uint) int {
	t.Helper()
	found, err := f.books.FindByIDsUnscoped(context.Background(), []uint{id})
	require.NoError(t, err)
	require.Contains(t, found, id)
	return found[id].Available
}

// placeOrder 下单并断言成功
func (f *fixture) placeOrder(t testing.TB, userID uint, items ...CreateOrderItem) uint {
	t.Helper()
	out, err := f.create.Execute(context.Background(), CreateOrderRequest{
		UserID:    userID,
		Recipient: validRecipient(),
		Items:     items,
	})
	require.NoError(t, err)
	require.True(t, out.IsSuccess(), out.Message())
	return out.Value()
}

func validRecipient() order.Recipient {
	return order.Recipient{
		Name:    "Jan Kowalski",
		Phone:   "+48 600 100 200",
		Street:  "Marszałkowska 1",
		City:    "Warszawa",
		ZipCode: "00-001",
		Email:   "jan@example.com",
	}
}

func line(bookID uint, qty int) CreateOrderItem {
	return CreateOrderItem{BookID: bookID, Quantity: qty}
}
