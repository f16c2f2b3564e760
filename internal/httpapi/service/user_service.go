package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/logger"
)

type UserService interface {
	List(search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Create(req dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(username string) (*dto.UserResponse, error)
	UpdateByUsername(username string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
	DeleteByUsername(username string) error
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo   repository.UserRepository
	rating     *RatingUpdater
	titleCache *cache.TitleCache
}

func NewUserService(userRepo repository.UserRepository, rating *RatingUpdater, titleCache *cache.TitleCache) UserService {
	return &userService{
		userRepo:   userRepo,
		rating:     rating,
		titleCache: titleCache,
	}
}

func (s *userService) List(search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

// Create is the admin-side account creation; unlike sign-up it may assign a
// role immediately and sends no confirmation mail.
func (s *userService) Create(req dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("username or email already taken")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateByUsername(username string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("this email is already taken")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// DeleteByUsername removes the account and everything cascading from it.
// The cascade takes the user's reviews, so the rating of every title they
// reviewed is recomputed in the delete transaction and its cache entry
// dropped after commit.
func (s *userService) DeleteByUsername(username string) error {
	titleIDs, err := s.userRepo.Delete(username, s.rating.OnReviewChange)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		return err
	}

	for _, titleID := range titleIDs {
		if err := s.titleCache.Invalidate(context.Background(), titleID); err != nil {
			logger.Get().WithError(err).WithField("title_id", titleID).Warn("title cache invalidation failed")
		}
	}
	return nil
}

func (s *userService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateProfile handles /users/me: the role field is not reachable from
// here, only an admin can change it.
func (s *userService) UpdateProfile(userID string, req dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Update(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("this email is already taken")
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}
