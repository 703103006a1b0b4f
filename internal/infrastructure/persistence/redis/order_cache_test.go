package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedOrder struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

func TestOrderCache(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewOrderCacheWithTTL(client, 10*time.Minute)
	keys := []string{"order:detail:1", "order:version:1"}
	raw := `{"id":1,"status":"NEW","total":"1075.00"}`

	t.Run("未命中", func(t *testing.T) {
		mock.ExpectGet("order:detail:1").RedisNil()

		var got cachedOrder
		hit, err := cache.Get(ctx, 1, &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("版本号不存在视为0", func(t *testing.T) {
		mock.ExpectGet("order:version:1").RedisNil()
		v, err := cache.Version(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)
	})

	t.Run("版本号未变时写入,之后命中", func(t *testing.T) {
		mock.ExpectEvalSha(setIfVersionScript.Hash(), keys, "0", raw, int64(600000)).SetVal(int64(1))
		ok, err := cache.SetIfVersion(ctx, 1, 0, cachedOrder{ID: 1, Status: "NEW", Total: "1075.00"})
		require.NoError(t, err)
		assert.True(t, ok)

		mock.ExpectGet("order:detail:1").SetVal(raw)
		var got cachedOrder
		hit, err := cache.Get(ctx, 1, &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "1075.00", got.Total)
	})

	t.Run("回源期间被失效,旧快照不写入", func(t *testing.T) {
		mock.ExpectEvalSha(invalidateScript.Hash(), keys, versionTTL.Milliseconds()).SetVal(int64(1))
		require.NoError(t, cache.Invalidate(ctx, 1))

		mock.ExpectGet("order:version:1").SetVal("1")
		v, err := cache.Version(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		mock.ExpectEvalSha(setIfVersionScript.Hash(), keys, "0", raw, int64(600000)).SetVal(int64(0))
		ok, err := cache.SetIfVersion(ctx, 1, 0, cachedOrder{ID: 1, Status: "NEW", Total: "1075.00"})
		require.NoError(t, err)
		assert.False(t, ok)
		t.Log("✅ 版本号不一致时拒绝写入")
	})

	t.Run("Redis故障返回错误", func(t *testing.T) {
		mock.ExpectGet("order:detail:2").SetErr(errors.New("connection refused"))
		var got cachedOrder
		_, err := cache.Get(ctx, 2, &got)
		assert.Error(t, err)

		mock.ExpectGet("order:version:2").SetErr(errors.New("connection refused"))
		_, err = cache.Version(ctx, 2)
		assert.Error(t, err)
	})

	t.Run("缓存内容损坏", func(t *testing.T) {
		mock.ExpectGet("order:detail:3").SetVal("{not json")
		var got cachedOrder
		_, err := cache.Get(ctx, 3, &got)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
