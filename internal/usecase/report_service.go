package usecase

import (
	"context"
	"log"
	"time"

	"github.com/seooptima/backend/internal/domain"
)

// GenerateReportParams selects the sections and options of a new report.
// Analysis IDs refer to the user's stored analyses; HeadersURL triggers a
// fresh headers extraction embedded into the report.
type GenerateReportParams struct {
	Type                   domain.ReportType
	Title                  string
	Description            string
	PageSpeedAnalysisID    *int64
	KeywordAnalysisID      *int64
	ImageAnalysisID        *int64
	HeadersURL             string
	IncludeRecommendations bool
	IncludeCharts          bool
}

// ReportService assembles PDF reports from stored analyses and manages
// the generated files.
type ReportService struct {
	reports   domain.ReportRepository
	pagespeed domain.PageSpeedRepository
	images    domain.ImageAnalysisRepository
	keywords  domain.KeywordAnalysisRepository
	headers   *HeadersService
	generator domain.ReportGenerator
	now       func() time.Time
}

// NewReportService creates a report service with its dependencies.
func NewReportService(
	reports domain.ReportRepository,
	pagespeed domain.PageSpeedRepository,
	images domain.ImageAnalysisRepository,
	keywords domain.KeywordAnalysisRepository,
	headers *HeadersService,
	generator domain.ReportGenerator,
) *ReportService {
	return &ReportService{
		reports:   reports,
		pagespeed: pagespeed,
		images:    images,
		keywords:  keywords,
		headers:   headers,
		generator: generator,
		now:       time.Now,
	}
}

// Generate builds a report from the selected sections, renders the PDF
// and persists the record. At least one section is required.
func (s *ReportService) Generate(ctx context.Context, user *domain.User, params GenerateReportParams) (*domain.Report, error) {
	userID := user.ID
	if params.Title == "" || !params.Type.Valid() {
		return nil, domain.ErrInvalidRequest
	}
	if params.PageSpeedAnalysisID == nil && params.KeywordAnalysisID == nil &&
		params.ImageAnalysisID == nil && params.HeadersURL == "" {
		return nil, domain.ErrNoReportSections
	}

	now := s.now().UTC()
	report := &domain.Report{
		UserID:                 userID,
		Type:                   params.Type,
		Title:                  params.Title,
		Description:            params.Description,
		PageSpeedAnalysisID:    params.PageSpeedAnalysisID,
		KeywordAnalysisID:      params.KeywordAnalysisID,
		ImageAnalysisID:        params.ImageAnalysisID,
		IncludeRecommendations: params.IncludeRecommendations,
		IncludeCharts:          params.IncludeCharts,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if params.HeadersURL != "" {
		section, err := s.headers.Extract(ctx, params.HeadersURL)
		if err != nil {
			return nil, err
		}
		report.Headers = section
	}

	data, err := s.resolveDataForUser(ctx, user, report)
	if err != nil {
		return nil, err
	}

	path, err := s.generator.Generate(data)
	if err != nil {
		return nil, err
	}
	report.FilePath = path

	if err := s.reports.CreateReport(ctx, report); err != nil {
		// The record failed; don't leave the orphaned file behind.
		_ = s.generator.Remove(path)
		return nil, err
	}

	log.Printf("[Reports] Report %d generated for user %d (%v)", report.ID, userID, report.Sections())
	return report, nil
}

// resolveDataForUser loads the referenced analyses, verifying they
// belong to the report's owner.
func (s *ReportService) resolveDataForUser(ctx context.Context, user *domain.User, report *domain.Report) (*domain.ReportData, error) {
	userID := user.ID
	data := &domain.ReportData{
		Report: report,
		User:   user,
	}

	if report.PageSpeedAnalysisID != nil {
		analysis, err := s.pagespeed.PageSpeedAnalysis(ctx, userID, *report.PageSpeedAnalysisID)
		if err != nil {
			return nil, err
		}
		data.PageSpeed = analysis
	}
	if report.ImageAnalysisID != nil {
		analysis, err := s.images.ImageAnalysis(ctx, userID, *report.ImageAnalysisID)
		if err != nil {
			return nil, err
		}
		data.Images = analysis
	}
	if report.KeywordAnalysisID != nil {
		analysis, err := s.keywords.KeywordAnalysis(ctx, userID, *report.KeywordAnalysisID)
		if err != nil {
			return nil, err
		}
		data.Keywords = analysis
	}
	return data, nil
}

// Regenerate re-renders an existing report from its stored references,
// replacing the file on disk.
func (s *ReportService) Regenerate(ctx context.Context, user *domain.User, id int64) (*domain.Report, error) {
	report, err := s.reports.Report(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}

	data, err := s.resolveDataForUser(ctx, user, report)
	if err != nil {
		return nil, err
	}
	path, err := s.generator.Generate(data)
	if err != nil {
		return nil, err
	}

	old := report.FilePath
	report.FilePath = path
	report.UpdatedAt = s.now().UTC()
	if err := s.reports.SaveReport(ctx, report); err != nil {
		_ = s.generator.Remove(path)
		return nil, err
	}
	if err := s.generator.Remove(old); err != nil {
		log.Printf("[Reports] Removing superseded file failed: %v", err)
	}
	return report, nil
}

// Detail returns one report owned by the user.
func (s *ReportService) Detail(ctx context.Context, userID, id int64) (*domain.Report, error) {
	return s.reports.Report(ctx, userID, id)
}

// List pages through the user's reports.
func (s *ReportService) List(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.Report, int, error) {
	return s.reports.ListReports(ctx, userID, opts)
}

// FilePath returns the on-disk location of a report's PDF for download.
func (s *ReportService) FilePath(ctx context.Context, userID, id int64) (string, string, error) {
	report, err := s.reports.Report(ctx, userID, id)
	if err != nil {
		return "", "", err
	}
	if report.FilePath == "" {
		return "", "", domain.ErrNotFound
	}
	return report.FilePath, report.Title, nil
}

// Delete removes a report record and its file.
func (s *ReportService) Delete(ctx context.Context, userID, id int64) error {
	report, err := s.reports.Report(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.reports.DeleteReport(ctx, userID, id); err != nil {
		return err
	}
	if err := s.generator.Remove(report.FilePath); err != nil {
		log.Printf("[Reports] Removing file for deleted report %d failed: %v", id, err)
	}
	return nil
}
