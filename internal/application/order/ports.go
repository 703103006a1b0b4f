package order

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

const tracerName = "bookstore/order"

// Transactor 事务边界，由rdb.TxManager实现
// fn内通过ctx拿到的Repository操作都在同一事务中
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache 订单详情缓存，由redis.OrderCache实现
// 回源前取Version，写回用SetIfVersion；订单变更提交后Invalidate会让版本号递增，
// 回源期间有变更时旧快照不会被写入
type Cache interface {
	Get(ctx context.Context, id uint, dest interface{}) (bool, error)
	Version(ctx context.Context, id uint) (int64, error)
	SetIfVersion(ctx context.Context, id uint, version int64, value interface{}) (bool, error)
	Invalidate(ctx context.Context, id uint) error
}

// noCache 未配置缓存时使用，永远未命中
type noCache struct{}

func (noCache) Get(context.Context, uint, interface{}) (bool, error) { return false, nil }
func (noCache) Version(context.Context, uint) (int64, error)         { return 0, nil }
func (noCache) SetIfVersion(context.Context, uint, int64, interface{}) (bool, error) {
	return false, nil
}
func (noCache) Invalidate(context.Context, uint) error { return nil }

func cacheOrNop(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}

// failure 业务错误转换为失败的Outcome;其他错误原样返回
func failure[T any](span trace.Span, err error) (outcome.Outcome[T], error) {
	tracing.RecordError(span, err)
	if appErr, ok := apperrors.AsBusiness(err); ok {
		return outcome.FromError[T](appErr), nil
	}
	return outcome.Outcome[T]{}, err
}
