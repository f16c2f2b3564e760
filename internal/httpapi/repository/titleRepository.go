package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/httpapi/models"

	"gorm.io/gorm"
)

// TitleFilters narrows the title list the way the public API exposes it.
type TitleFilters struct {
	CategorySlug string
	GenreSlug    string
	Year         int
	Name         string
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

func (r *TitleRepo) GetAll(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Title{})
	if filters.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.GenreSlug != "" {
		query = query.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", filters.GenreSlug)
	}
	if filters.Year != 0 {
		query = query.Where("titles.year = ?", filters.Year)
	}
	if filters.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+filters.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Category").
		Preload("Genres").
		Order("titles.name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Genres").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Model(t).Association("Genres").Replace(t.Genres); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace genres: %w", err)
	}
	// only the writable columns: rating is derived and a full-row save could
	// clobber a value committed by a concurrent review mutation
	if err := tx.Model(t).Select("name", "year", "description", "category_id").
		Updates(models.Title{
			Name:        t.Name,
			Year:        t.Year,
			Description: t.Description,
			CategoryID:  t.CategoryID,
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("update title: %w", err)
	}
	return tx.Commit().Error
}

func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRating writes the derived aggregate. It runs on the caller's
// transaction so the rating is never stale relative to committed reviews.
func (r *TitleRepo) UpdateRating(tx *gorm.DB, titleID int64, rating *int) error {
	if err := tx.Model(&models.Title{}).Where("id = ?", titleID).
		Update("rating", rating).Error; err != nil {
		return fmt.Errorf("update title rating: %w", err)
	}
	return nil
}
