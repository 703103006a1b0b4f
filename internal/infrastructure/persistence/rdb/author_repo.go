package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// authorRepository 作者仓储实现
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) book.AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a *book.Author) error {
	model := toAuthorModel(a)
	if err := getDB(ctx, r.db).Create(&model).Error; err != nil {
		return apperrors.Wrap(err, "创建作者失败")
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

func (r *authorRepository) FindByIDs(ctx context.Context, ids []uint) ([]book.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []AuthorModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}
	return toAuthorEntities(models), nil
}

func (r *authorRepository) List(ctx context.Context) ([]book.Author, error) {
	var models []AuthorModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

func toAuthorModel(a *book.Author) AuthorModel {
	return AuthorModel{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
	}
}

func toAuthorEntity(m *AuthorModel) *book.Author {
	return &book.Author{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt,
	}
}

func toAuthorEntities(models []AuthorModel) []book.Author {
	out := make([]book.Author, len(models))
	for i := range models {
		out[i] = *toAuthorEntity(&models[i])
	}
	return out
}
