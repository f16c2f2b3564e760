package service

import (
	"math"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/repository"
)

// RecomputeRating returns the arithmetic mean of the scores, rounded half
// up, or nil when no scores remain. The nil case keeps unreviewed titles at
// a null rating instead of zero.
func RecomputeRating(scores []int) *int {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(len(scores))
	// scores are positive, so half away from zero is half up
	rounded := int(math.Round(mean))
	return &rounded
}

// TitleRatingStore writes the derived aggregate on the caller's
// transaction. Satisfied by repository.TitleRepo.
type TitleRatingStore interface {
	UpdateRating(tx *gorm.DB, titleID int64, rating *int) error
}

// RatingUpdater is the observer side of rating maintenance: every mutating
// review operation passes OnReviewChange as its transaction hook, keeping
// the derived aggregate out of the review business logic itself.
type RatingUpdater struct {
	reviewRepo repository.ReviewRepository
	titles     TitleRatingStore
}

func NewRatingUpdater(reviewRepo repository.ReviewRepository, titles TitleRatingStore) *RatingUpdater {
	return &RatingUpdater{
		reviewRepo: reviewRepo,
		titles:     titles,
	}
}

// OnReviewChange reads the surviving scores on the mutation's own
// transaction and writes the new aggregate before it commits, so
// Title.rating is never stale relative to committed review rows.
func (u *RatingUpdater) OnReviewChange(tx *gorm.DB, titleID int64) error {
	scores, err := u.reviewRepo.ScoresForTitle(tx, titleID)
	if err != nil {
		return err
	}
	return u.titles.UpdateRating(tx, titleID, RecomputeRating(scores))
}
