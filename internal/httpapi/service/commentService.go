package service

import (
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/repository"
)

type CommentService interface {
	ListByReview(titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	GetByID(titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(titleID, reviewID int64, actor policy.Actor, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(titleID, reviewID, commentID int64, actor policy.Actor, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(titleID, reviewID, commentID int64, actor policy.Actor) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// requireReview checks the review exists under the title named in the URL.
func (s *commentService) requireReview(titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("review not found")
		}
		return err
	}
	if review.TitleID != titleID {
		return apperrors.NotFound("review not found")
	}
	return nil
}

func (s *commentService) getOwned(titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, apperrors.NotFound("comment not found")
	}
	return comment, nil
}

func (s *commentService) ListByReview(titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *commentService) GetByID(titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getOwned(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Create attaches a comment to a review; the author is always the actor,
// never taken from the payload.
func (s *commentService) Create(titleID, reviewID int64, actor policy.Actor, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     req.Text,
		AuthorID: actor.ID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(created), nil
}

func (s *commentService) Update(titleID, reviewID, commentID int64, actor policy.Actor, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.getOwned(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, policy.ResourceComment, comment.AuthorID) {
		return nil, apperrors.Forbidden("you cannot edit this comment")
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(titleID, reviewID, commentID int64, actor policy.Actor) error {
	comment, err := s.getOwned(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, policy.ResourceComment, comment.AuthorID) {
		return apperrors.Forbidden("you cannot delete this comment")
	}
	return s.commentRepo.Delete(comment.ID)
}
