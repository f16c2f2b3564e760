package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/repository"
)

func newUserServiceForTest(userRepo *MockUserRepository, reviewRepo *MockReviewRepository, ratings *MockTitleRatingStore) UserService {
	return NewUserService(userRepo, NewRatingUpdater(reviewRepo, ratings), nil)
}

func TestUserDelete_RecomputesRatingsOfReviewedTitles(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockReviewRepo := new(MockReviewRepository)
	mockRatings := new(MockTitleRatingStore)
	svc := newUserServiceForTest(mockUserRepo, mockReviewRepo, mockRatings)

	// run the hook per affected title the way the repository does after the
	// cascade removed the user's review rows
	mockUserRepo.On("Delete", "alice", mock.Anything).
		Run(func(args mock.Arguments) {
			hook := args.Get(1).(repository.MutationHook)
			assert.NoError(t, hook(nil, int64(7)))
			assert.NoError(t, hook(nil, int64(9)))
		}).Return([]int64{7, 9}, nil)

	// title 7 keeps other reviews, title 9 loses its only one
	mockReviewRepo.On("ScoresForTitle", mock.Anything, int64(7)).Return([]int{8, 4}, nil)
	mockReviewRepo.On("ScoresForTitle", mock.Anything, int64(9)).Return([]int{}, nil)
	six := 6
	mockRatings.On("UpdateRating", mock.Anything, int64(7), &six).Return(nil)
	mockRatings.On("UpdateRating", mock.Anything, int64(9), (*int)(nil)).Return(nil)

	err := svc.DeleteByUsername("alice")

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
	mockRatings.AssertExpectations(t)
}

func TestUserDelete_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := newUserServiceForTest(mockUserRepo, new(MockReviewRepository), new(MockTitleRatingStore))

	mockUserRepo.On("Delete", "ghost", mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	err := svc.DeleteByUsername("ghost")

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserDelete_NoReviews(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRatings := new(MockTitleRatingStore)
	svc := newUserServiceForTest(mockUserRepo, new(MockReviewRepository), mockRatings)

	mockUserRepo.On("Delete", "lurker", mock.Anything).Return([]int64{}, nil)

	err := svc.DeleteByUsername("lurker")

	assert.NoError(t, err)
	mockRatings.AssertNotCalled(t, "UpdateRating", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserCreate_DefaultsRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := newUserServiceForTest(mockUserRepo, new(MockReviewRepository), new(MockTitleRatingStore))

	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Create(dto.CreateUserDTO{Username: "reader", Email: "reader@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "user", user.Role)
}
