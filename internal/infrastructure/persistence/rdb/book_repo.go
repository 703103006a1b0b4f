package rdb

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有操作经getDB(ctx)参与外层事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// Omit("Authors.*"): 只写关联表,不回写作者记录
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Omit("Authors.*").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书(含作者)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Preload("Authors", orderByID).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDsUnscoped 批量查询,包含已下架(软删除)的图书
func (r *bookRepository) FindByIDsUnscoped(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	out := make(map[uint]*book.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []BookModel
	err := getDB(ctx, r.db).Unscoped().
		Preload("Authors", orderByID).
		Where("id IN ?", ids).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	for i := range models {
		out[models[i].ID] = toBookEntity(&models[i])
	}
	return out, nil
}

// Update 更新图书字段,作者关联整体替换
// 用map更新,零值字段(如清空封面)也会写入
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)
	model := toBookModel(b)

	result := db.Model(&BookModel{ID: b.ID}).Updates(map[string]interface{}{
		"title":     b.Title,
		"year":      b.Year,
		"price":     b.Price,
		"available": b.Available,
		"cover_url": b.CoverURL,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	if err := db.Model(&BookModel{ID: b.ID}).Association("Authors").Replace(model.Authors); err != nil {
		return apperrors.Wrap(err, "更新图书作者失败")
	}
	return nil
}

// Delete 删除图书(软删除)
// 重复删除、删除不存在的图书都视为成功
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	if err := getDB(ctx, r.db).Delete(&BookModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除图书失败")
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&BookModel{})
	if params.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+params.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id ASC")

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("Authors", orderByID).
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByIDs 悲观锁批量锁定图书
// 教学要点:
// 1. SELECT ... WHERE id IN (...) ORDER BY id FOR UPDATE
// 2. 所有事务都按ID升序加锁,两个订单互相等待对方持有的行锁(死锁)不会发生
// 3. 必须在TxManager.Transaction内调用,否则锁在语句结束后立即释放
func (r *bookRepository) LockByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var models []BookModel
	err := forUpdate(getDB(ctx, r.db)).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// UpdateStock 更新库存(原子操作)
// 扣减: UPDATE books SET available = available + ? WHERE id = ? AND available + ? >= 0
// 即使调用方跳过了预检查,WHERE条件也保证库存不会变成负数
// 归还: 不过滤软删除,下单后被下架的图书也要把数量加回去
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)

	query := db.Model(&BookModel{}).Where("id = ?", id)
	if delta >= 0 {
		query = query.Unscoped()
	} else {
		query = query.Where("available + ? >= 0", delta)
	}

	result := query.Update("available", gorm.Expr("available + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在,或者库存不足,再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func toBookModel(b *book.Book) *BookModel {
	authors := make([]AuthorModel, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = toAuthorModel(&a)
	}
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Year:      b.Year,
		Price:     b.Price,
		Available: b.Available,
		CoverURL:  b.CoverURL,
		Authors:   authors,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	authors := make([]book.Author, len(model.Authors))
	for i := range model.Authors {
		authors[i] = *toAuthorEntity(&model.Authors[i])
	}
	return &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		Year:      model.Year,
		Price:     model.Price,
		Available: model.Available,
		Authors:   authors,
		CoverURL:  model.CoverURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
