package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/logger"
)

type TitleService interface {
	List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.Paginated[dto.TitleReadResponse], error)
	GetByID(ctx context.Context, id int64) (*dto.TitleReadResponse, error)
	Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error)
	Update(ctx context.Context, id int64, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    *repository.TitleRepo
	categoryRepo *repository.CategoryRepo
	genreRepo    *repository.GenreRepo
	titleCache   *cache.TitleCache
}

func NewTitleService(
	titleRepo *repository.TitleRepo,
	categoryRepo *repository.CategoryRepo,
	genreRepo *repository.GenreRepo,
	titleCache *cache.TitleCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleCache:   titleCache,
	}
}

func (s *titleService) List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.Paginated[dto.TitleReadResponse], error) {
	titles, total, err := s.titleRepo.GetAll(ctx, filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleReadResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleReadResponse, error) {
	if cached, err := s.titleCache.Get(ctx, id); err == nil && cached != nil {
		return dto.FromModelToTitleResponse(cached), nil
	} else if err != nil {
		logger.Get().WithError(err).Warn("title cache read failed")
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	if err := s.titleCache.Set(ctx, title); err != nil {
		logger.Get().WithError(err).Warn("title cache write failed")
	}
	return dto.FromModelToTitleResponse(title), nil
}

// resolveRefs turns category/genre slugs from a write payload into rows;
// an unknown slug is the client's mistake, not a missing resource.
func (s *titleService) resolveRefs(ctx context.Context, req dto.TitleWriteDTO) (*models.Category, []models.Genre, error) {
	if *req.Year > time.Now().Year() {
		return nil, nil, apperrors.Validation("year must not be in the future")
	}

	category, err := s.categoryRepo.GetBySlug(ctx, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Validation("unknown category " + req.Category)
		}
		return nil, nil, err
	}

	genres, err := s.genreRepo.GetBySlugs(ctx, req.Genres)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(req.Genres) {
		return nil, nil, apperrors.Validation("unknown genre in request")
	}

	return category, genres, nil
}

func (s *titleService) Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error) {
	category, genres, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	// reload for the expanded category association
	created, err := s.titleRepo.GetByID(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(created), nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.TitleWriteDTO) (*dto.TitleReadResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	category, genres, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}

	title.Name = req.Name
	title.Year = *req.Year
	title.Description = req.Description
	title.CategoryID = category.ID
	title.Category = *category
	title.Genres = genres
	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if err := s.titleCache.Invalidate(ctx, id); err != nil {
		logger.Get().WithError(err).Warn("title cache invalidation failed")
	}

	updated, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(updated), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("title not found")
		}
		return err
	}

	if err := s.titleCache.Invalidate(ctx, id); err != nil {
		logger.Get().WithError(err).Warn("title cache invalidation failed")
	}
	return nil
}
