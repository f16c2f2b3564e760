package repository

import (
	"reviewhub/internal/httpapi/models"

	"gorm.io/gorm"
)

// MutationHook runs inside the same transaction as the triggering review
// write. The review engine uses it to recompute the title rating before the
// transaction commits.
type MutationHook func(tx *gorm.DB, titleID int64) error

type ReviewRepository interface {
	Create(review *models.Review, hook MutationHook) error
	Update(review *models.Review, hook MutationHook) error
	Delete(review *models.Review, hook MutationHook) error
	GetByID(reviewID int64) (*models.Review, error)
	GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error)
	GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error)
	ScoresForTitle(tx *gorm.DB, titleID int64) ([]int, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review and runs the hook in one transaction. The
// unique index on (title_id, author_id) rejects the duplicate that slips
// past the service's pre-check under concurrency.
func (r *reviewRepository) Create(review *models.Review, hook MutationHook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return hook(tx, review.TitleID)
	})
}

func (r *reviewRepository) Update(review *models.Review, hook MutationHook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return hook(tx, review.TitleID)
	})
}

func (r *reviewRepository) Delete(review *models.Review, hook MutationHook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Review{}, review.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return hook(tx, review.TitleID)
	})
}

func (r *reviewRepository) GetByID(reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("id = ?", reviewID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("title_id = ? AND author_id = ?", titleID, authorID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ScoresForTitle reads the current scores on the given transaction so the
// recomputation sees exactly the state it is about to commit with.
func (r *reviewRepository) ScoresForTitle(tx *gorm.DB, titleID int64) ([]int, error) {
	var scores []int
	if err := tx.Model(&models.Review{}).Where("title_id = ?", titleID).
		Pluck("score", &scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
