package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/logger"
)

type ReviewService interface {
	ListByTitle(titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(titleID int64, actor policy.Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(titleID, reviewID int64, actor policy.Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(titleID, reviewID int64, actor policy.Actor) error
}

// TitleGetter is the slice of the title repository the review engine needs
// for existence checks.
type TitleGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Title, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleGetter
	rating     *RatingUpdater
	titleCache *cache.TitleCache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo TitleGetter,
	rating *RatingUpdater,
	titleCache *cache.TitleCache,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		rating:     rating,
		titleCache: titleCache,
	}
}

func (s *reviewService) requireTitle(titleID int64) error {
	ctx := context.Background()
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("title not found")
		}
		return err
	}
	return nil
}

// invalidateTitle drops the cached title after its rating changed. Runs
// after the transaction committed; a failure only delays cache freshness.
func (s *reviewService) invalidateTitle(titleID int64) {
	if err := s.titleCache.Invalidate(context.Background(), titleID); err != nil {
		logger.Get().WithError(err).WithField("title_id", titleID).Warn("title cache invalidation failed")
	}
}

func (s *reviewService) ListByTitle(titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getOwned(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// getOwned fetches the review and checks it belongs to the title from the
// URL, so a review can't be addressed through another title's path.
func (s *reviewService) getOwned(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, apperrors.NotFound("review not found")
	}
	return review, nil
}

// Create posts the actor's review for a title. The service pre-checks for a
// duplicate to give a clean error, but the unique index on
// (title_id, author_id) is what actually defends the invariant when two
// creates race.
func (s *reviewService) Create(titleID int64, actor policy.Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	if req.Score < 1 || req.Score > 10 {
		return nil, apperrors.Validation("score must be between 1 and 10")
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(titleID, actor.ID); err == nil {
		return nil, apperrors.Conflict("you have already reviewed this title")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		Text:     req.Text,
		AuthorID: actor.ID,
		TitleID:  titleID,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review, s.rating.OnReviewChange); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("you have already reviewed this title")
		}
		return nil, err
	}
	s.invalidateTitle(titleID)

	// reload for the author association
	created, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) Update(titleID, reviewID int64, actor policy.Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.getOwned(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, policy.ResourceReview, review.AuthorID) {
		return nil, apperrors.Forbidden("you cannot edit this review")
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if *req.Score < 1 || *req.Score > 10 {
			return nil, apperrors.Validation("score must be between 1 and 10")
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review, s.rating.OnReviewChange); err != nil {
		return nil, err
	}
	s.invalidateTitle(titleID)

	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(titleID, reviewID int64, actor policy.Actor) error {
	review, err := s.getOwned(titleID, reviewID)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, policy.ResourceReview, review.AuthorID) {
		return apperrors.Forbidden("you cannot delete this review")
	}

	if err := s.reviewRepo.Delete(review, s.rating.OnReviewChange); err != nil {
		return err
	}
	s.invalidateTitle(titleID)
	return nil
}
