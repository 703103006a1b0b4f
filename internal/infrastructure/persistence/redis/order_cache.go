package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// versionTTL 版本号的保留时间,远大于一次回源的耗时
const versionTTL = 24 * time.Hour

// setIfVersionScript 版本号未变才写入详情
// KEYS[1]=详情 KEYS[2]=版本号 ARGV[1]=回源前读到的版本 ARGV[2]=JSON ARGV[3]=TTL毫秒(0不过期)
var setIfVersionScript = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// invalidateScript 版本号+1并删除详情,两步原子执行
// KEYS[1]=详情 KEYS[2]=版本号 ARGV[1]=版本号TTL毫秒
var invalidateScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return v
`)

// OrderCache 订单详情缓存（Cache-Aside + 版本号）
// 1. 读：未命中时先取版本号，回源数据库后用SetIfVersion写回
// 2. 写：状态变更、删除订单提交后Invalidate，版本号+1并删除详情
// 3. 回源期间发生过Invalidate的快照不会写入，避免旧数据在TTL内一直被读到
// Key: order:detail:{id}（JSON）、order:version:{id}
type OrderCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewOrderCache 创建订单缓存
func NewOrderCache(client redis.Cmdable, cfg *config.Config) *OrderCache {
	return NewOrderCacheWithTTL(client, cfg.Order.CacheTTL)
}

// NewOrderCacheWithTTL ttl<=0时不过期
func NewOrderCacheWithTTL(client redis.Cmdable, ttl time.Duration) *OrderCache {
	return &OrderCache{client: client, ttl: ttl}
}

func orderKey(id uint) string {
	return fmt.Sprintf("order:detail:%d", id)
}

func versionKey(id uint) string {
	return fmt.Sprintf("order:version:%d", id)
}

// Get 读取缓存到dest，未命中返回false
func (c *OrderCache) Get(ctx context.Context, id uint, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, orderKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "读取订单缓存失败")
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, apperrors.Wrap(err, "解析订单缓存失败")
	}
	return true, nil
}

// Version 当前版本号，从未失效过的订单为0
func (c *OrderCache) Version(ctx context.Context, id uint) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "读取订单缓存版本失败")
	}
	return v, nil
}

// SetIfVersion 版本号仍为version时写入，返回是否写入
func (c *OrderCache) SetIfVersion(ctx context.Context, id uint, version int64, value interface{}) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, apperrors.Wrap(err, "序列化订单缓存失败")
	}

	ttl := int64(0)
	if c.ttl > 0 {
		ttl = c.ttl.Milliseconds()
	}
	n, err := setIfVersionScript.Run(ctx, c.client,
		[]string{orderKey(id), versionKey(id)},
		strconv.FormatInt(version, 10), string(data), ttl,
	).Int64()
	if err != nil {
		return false, apperrors.Wrap(err, "写入订单缓存失败")
	}
	return n == 1, nil
}

// Invalidate 订单变更提交后调用
func (c *OrderCache) Invalidate(ctx context.Context, id uint) error {
	err := invalidateScript.Run(ctx, c.client,
		[]string{orderKey(id), versionKey(id)},
		versionTTL.Milliseconds(),
	).Err()
	if err != nil {
		return apperrors.Wrap(err, "删除订单缓存失败")
	}
	return nil
}
