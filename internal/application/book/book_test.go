package book

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

type fixture struct {
	publish *PublishBookUseCase
	list    *ListBooksUseCase
	get     *GetBookUseCase
	patch   *PatchBookUseCase
	del     *DeleteBookUseCase
	authors *AuthorUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := rdbtest.NewDB(t)
	svc := book.NewService(rdb.NewBookRepository(db), rdb.NewAuthorRepository(db))
	log := zap.NewNop()
	return &fixture{
		publish: NewPublishBookUseCase(svc, log),
		list:    NewListBooksUseCase(svc),
		get:     NewGetBookUseCase(svc),
		patch:   NewPatchBookUseCase(rdb.NewTxManagerWithTimeout(db, 0), svc, log),
		del:     NewDeleteBookUseCase(svc, log),
		authors: NewAuthorUseCase(svc),
	}
}

func (f *fixture) author(t *testing.T, first, last string) uint {
	t.Helper()
	a, err := f.authors.Create(context.Background(), CreateAuthorRequest{FirstName: first, LastName: last})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) book(t *testing.T, title, price string, authorIDs ...uint) *BookDTO {
	t.Helper()
	b, err := f.publish.Execute(context.Background(), PublishBookRequest{
		Title:     title,
		Year:      2018,
		Price:     decimal.RequireFromString(price),
		Available: 10,
		AuthorIDs: authorIDs,
	})
	require.NoError(t, err)
	return b
}

func rawFields(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestPublishBook(t *testing.T) {
	ctx := context.Background()

	t.Run("上架成功,价格固定两位小数", func(t *testing.T) {
		f := newFixture(t)
		bloch := f.author(t, "Joshua", "Bloch")

		b := f.book(t, "Effective Java", "120", bloch)
		assert.NotZero(t, b.ID)
		assert.Equal(t, "120.00", b.Price)
		require.Len(t, b.Authors, 1)
		assert.Equal(t, "Bloch", b.Authors[0].LastName)

		got, err := f.get.Execute(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Effective Java", got.Title)
		assert.Equal(t, 10, got.Available)
		t.Log("✅ 上架成功")
	})

	t.Run("所有字段错误一起返回", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.publish.Execute(ctx, PublishBookRequest{
			Title:     " ",
			Year:      1800,
			Price:     decimal.RequireFromString("0.5"),
			Available: 0,
			AuthorIDs: []uint{42},
		})

		var verrs book.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := make([]string, len(verrs))
		for i, e := range verrs {
			fields[i] = e.Field
		}
		assert.ElementsMatch(t, []string{"title", "year", "price", "available", "authors"}, fields)

		appErr, ok := apperrors.AsBusiness(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)

		list, err := f.list.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Zero(t, list.Total)
		t.Log("✅ 校验失败不落库")
	})
}

func TestPatchBook(t *testing.T) {
	ctx := context.Background()

	t.Run("部分更新只改指定字段", func(t *testing.T) {
		f := newFixture(t)
		bloch := f.author(t, "Joshua", "Bloch")
		gafter := f.author(t, "Neal", "Gafter")
		b := f.book(t, "Java Puzzlers", "95", bloch)

		got, err := f.patch.Execute(ctx, b.ID, rawFields(t, `{"price":"99.90","authors":[1,2]}`))
		require.NoError(t, err)
		assert.Equal(t, "99.90", got.Price)
		assert.Equal(t, "Java Puzzlers", got.Title)
		require.Len(t, got.Authors, 2)
		assert.Equal(t, gafter, got.Authors[1].ID)

		reloaded, err := f.get.Execute(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "99.90", reloaded.Price)
		assert.Len(t, reloaded.Authors, 2)
		t.Log("✅ 价格和作者已更新")
	})

	t.Run("任一字段非法则全部不生效", func(t *testing.T) {
		f := newFixture(t)
		bloch := f.author(t, "Joshua", "Bloch")
		b := f.book(t, "Effective Java", "120", bloch)

		_, err := f.patch.Execute(ctx, b.ID, rawFields(t, `{"title":"New Title","price":"1000.01","available":0}`))
		var verrs book.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 2)

		reloaded, err := f.get.Execute(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Effective Java", reloaded.Title)
		assert.Equal(t, "120.00", reloaded.Price)
		t.Log("✅ 原值保持不变")
	})

	t.Run("未知字段和类型错误被拒绝", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, "Effective Java", "120", f.author(t, "Joshua", "Bloch"))

		_, err := f.patch.Execute(ctx, b.ID, rawFields(t, `{"isbn":"123","year":"two thousand"}`))
		var verrs book.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 2)
		assert.Equal(t, "isbn", verrs[0].Field)
		assert.Equal(t, "year", verrs[1].Field)
	})

	t.Run("空请求体", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.patch.Execute(ctx, 1, map[string]json.RawMessage{})
		var verrs book.ValidationErrors
		require.True(t, errors.As(err, &verrs))
	})

	t.Run("图书不存在", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.patch.Execute(ctx, 999, rawFields(t, `{"year":2001}`))
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.book(t, "Effective Java", "120", f.author(t, "Joshua", "Bloch"))

	require.NoError(t, f.del.Execute(ctx, b.ID))
	require.NoError(t, f.del.Execute(ctx, b.ID), "重复下架视为成功")

	_, err := f.get.Execute(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	t.Log("✅ 软删除幂等")
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Joshua", "Bloch")
	f.book(t, "Effective Java", "120", a)
	f.book(t, "Java Puzzlers", "95", a)
	f.book(t, "Go in Action", "60", a)

	t.Run("默认分页", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{PageSize: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, resp.PageSize)
		assert.Equal(t, 1, resp.Page)
		assert.EqualValues(t, 3, resp.Total)
	})

	t.Run("关键词和价格排序", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Keyword: "Java", SortBy: "price_asc", PageSize: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, resp.Total)
		assert.Equal(t, 2, resp.TotalPages)
		require.Len(t, resp.List, 1)
		assert.Equal(t, "Java Puzzlers", resp.List[0].Title)
	})
}

func TestAuthors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.authors.Create(ctx, CreateAuthorRequest{FirstName: "  ", LastName: "Bloch"})
	assert.ErrorIs(t, err, book.ErrInvalidAuthor)

	f.author(t, " Joshua ", "Bloch")
	f.author(t, "Neal", "Gafter")

	list, err := f.authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Joshua", list[0].FirstName)
	assert.Equal(t, "Gafter", list[1].LastName)
}
