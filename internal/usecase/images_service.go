package usecase

import (
	"context"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

// ImagesService audits the images of a page for alt-text coverage and
// keeps the audit history.
type ImagesService struct {
	repo      domain.ImageAnalysisRepository
	extractor domain.PageExtractor
	now       func() time.Time
}

// NewImagesService creates an images service with its dependencies.
func NewImagesService(repo domain.ImageAnalysisRepository, extractor domain.PageExtractor) *ImagesService {
	return &ImagesService{repo: repo, extractor: extractor, now: time.Now}
}

// Run fetches the page, classifies every image and persists the audit.
// A page with no images is a valid result, not an error.
func (s *ImagesService) Run(ctx context.Context, userID int64, url string) (*domain.ImageAltAnalysis, error) {
	if url == "" {
		return nil, domain.ErrInvalidRequest
	}

	images, err := s.extractor.ExtractImages(ctx, url)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	analysis := &domain.ImageAltAnalysis{
		UserID:      userID,
		URL:         url,
		TotalImages: len(images),
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, img := range images {
		switch img.Status {
		case domain.ImageStatusOK:
			analysis.ImagesWithAlt++
		case domain.ImageStatusDecorative:
			analysis.DecorativeImages++
		case domain.ImageStatusMissing:
			analysis.ImagesWithoutAlt++
		}
	}

	if err := s.repo.CreateImageAnalysis(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// Detail returns one audit owned by the user.
func (s *ImagesService) Detail(ctx context.Context, userID, id int64) (*domain.ImageAltAnalysis, error) {
	return s.repo.ImageAnalysis(ctx, userID, id)
}

// List pages through the user's audit history.
func (s *ImagesService) List(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.ImageAltAnalysis, int, error) {
	return s.repo.ListImageAnalyses(ctx, userID, opts)
}

// Delete removes one audit owned by the user.
func (s *ImagesService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteImageAnalysis(ctx, userID, id)
}
