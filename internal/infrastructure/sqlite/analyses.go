package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seooptima/backend/internal/domain"
)

// pagespeedSortClause whitelists sortable columns; anything else falls
// back to newest first.
func pagespeedSortClause(sortBy string) string {
	switch sortBy {
	case "created_at":
		return "created_at ASC, id ASC"
	case "-performance_score":
		return "performance_score DESC"
	case "performance_score":
		return "performance_score ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// CreatePageSpeedAnalysis inserts an analysis together with the raw API
// response and fills in its generated ID.
func (s *Store) CreatePageSpeedAnalysis(ctx context.Context, analysis *domain.PageSpeedAnalysis, raw []byte) error {
	metrics, err := marshalJSON(analysis.Metrics)
	if err != nil {
		return err
	}
	fieldData, err := marshalJSON(analysis.FieldData)
	if err != nil {
		return err
	}
	headers, err := marshalJSON(analysis.ContentHeaders)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pagespeed_analyses
		 (user_id, url, strategy, performance_score, accessibility_score, best_practices_score,
		  seo_score, metrics, field_data, content_headers, raw_response, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.UserID, analysis.URL, string(analysis.Strategy),
		nullInt(analysis.Scores.Performance), nullInt(analysis.Scores.Accessibility),
		nullInt(analysis.Scores.BestPractices), nullInt(analysis.Scores.SEO),
		metrics, fieldData, headers, raw,
		analysis.CreatedAt.Unix(), analysis.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting pagespeed analysis: %w", err)
	}

	analysis.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading pagespeed analysis id: %w", err)
	}
	return nil
}

// PageSpeedAnalysis returns one analysis owned by the given user.
func (s *Store) PageSpeedAnalysis(ctx context.Context, userID, id int64) (*domain.PageSpeedAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, url, strategy, performance_score, accessibility_score,
		        best_practices_score, seo_score, metrics, field_data, content_headers,
		        created_at, updated_at
		 FROM pagespeed_analyses WHERE id = ? AND user_id = ?`, id, userID)

	a, err := scanPageSpeed(row.Scan)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListPageSpeedAnalyses pages through a user's analyses, optionally
// filtered by strategy. The second return value is the unpaged total.
func (s *Store) ListPageSpeedAnalyses(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.PageSpeedAnalysis, int, error) {
	where := "WHERE user_id = ?"
	args := []any{userID}
	if opts.Strategy != "" {
		where += " AND strategy = ?"
		args = append(args, opts.Strategy)
	}

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pagespeed_analyses "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting pagespeed analyses: %w", err)
	}

	limit, offset := pageBounds(opts.Page, opts.PerPage)
	query := fmt.Sprintf(
		`SELECT id, user_id, url, strategy, performance_score, accessibility_score,
		        best_practices_score, seo_score, metrics, field_data, content_headers,
		        created_at, updated_at
		 FROM pagespeed_analyses %s ORDER BY %s LIMIT ? OFFSET ?`,
		where, pagespeedSortClause(opts.SortBy))
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing pagespeed analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.PageSpeedAnalysis
	for rows.Next() {
		a, err := scanPageSpeed(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating pagespeed analyses: %w", err)
	}
	return analyses, total, nil
}

// DeletePageSpeedAnalysis removes one analysis owned by the given user.
func (s *Store) DeletePageSpeedAnalysis(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pagespeed_analyses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting pagespeed analysis: %w", err)
	}
	return requireRow(res)
}

func scanPageSpeed(scan func(...any) error) (*domain.PageSpeedAnalysis, error) {
	var (
		a                          domain.PageSpeedAnalysis
		perf, a11y, best, seo      sql.NullInt64
		metrics, fieldData, heads  string
		createdAt, updatedAt       int64
	)
	err := scan(&a.ID, &a.UserID, &a.URL, &a.Strategy, &perf, &a11y, &best, &seo,
		&metrics, &fieldData, &heads, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning pagespeed analysis: %w", err)
	}

	a.Scores = domain.Scores{
		Performance:   intPtr(perf),
		Accessibility: intPtr(a11y),
		BestPractices: intPtr(best),
		SEO:           intPtr(seo),
	}
	if err := unmarshalJSON(metrics, &a.Metrics); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(fieldData, &a.FieldData); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(heads, &a.ContentHeaders); err != nil {
		return nil, err
	}
	a.CreatedAt = unixTime(createdAt)
	a.UpdatedAt = unixTime(updatedAt)
	return &a, nil
}

// CreateImageAnalysis inserts an image audit and fills in its generated ID.
func (s *Store) CreateImageAnalysis(ctx context.Context, analysis *domain.ImageAltAnalysis) error {
	images, err := marshalJSON(analysis.Images)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO image_analyses
		 (user_id, url, total_images, images_with_alt, decorative_images, images_without_alt,
		  images, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.UserID, analysis.URL, analysis.TotalImages, analysis.ImagesWithAlt,
		analysis.DecorativeImages, analysis.ImagesWithoutAlt, images,
		analysis.CreatedAt.Unix(), analysis.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting image analysis: %w", err)
	}

	analysis.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading image analysis id: %w", err)
	}
	return nil
}

// ImageAnalysis returns one image audit owned by the given user.
func (s *Store) ImageAnalysis(ctx context.Context, userID, id int64) (*domain.ImageAltAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, url, total_images, images_with_alt, decorative_images,
		        images_without_alt, images, created_at, updated_at
		 FROM image_analyses WHERE id = ? AND user_id = ?`, id, userID)
	return scanImageAnalysis(row.Scan)
}

// ListImageAnalyses pages through a user's image audits, newest first.
func (s *Store) ListImageAnalyses(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.ImageAltAnalysis, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM image_analyses WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting image analyses: %w", err)
	}

	limit, offset := pageBounds(opts.Page, opts.PerPage)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, url, total_images, images_with_alt, decorative_images,
		        images_without_alt, images, created_at, updated_at
		 FROM image_analyses WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing image analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.ImageAltAnalysis
	for rows.Next() {
		a, err := scanImageAnalysis(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating image analyses: %w", err)
	}
	return analyses, total, nil
}

// DeleteImageAnalysis removes one image audit owned by the given user.
func (s *Store) DeleteImageAnalysis(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM image_analyses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting image analysis: %w", err)
	}
	return requireRow(res)
}

func scanImageAnalysis(scan func(...any) error) (*domain.ImageAltAnalysis, error) {
	var (
		a                    domain.ImageAltAnalysis
		images               string
		createdAt, updatedAt int64
	)
	err := scan(&a.ID, &a.UserID, &a.URL, &a.TotalImages, &a.ImagesWithAlt,
		&a.DecorativeImages, &a.ImagesWithoutAlt, &images, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning image analysis: %w", err)
	}
	if err := unmarshalJSON(images, &a.Images); err != nil {
		return nil, err
	}
	a.CreatedAt = unixTime(createdAt)
	a.UpdatedAt = unixTime(updatedAt)
	return &a, nil
}

// CreateKeywordAnalysis inserts a keyword lookup and fills in its generated ID.
func (s *Store) CreateKeywordAnalysis(ctx context.Context, analysis *domain.KeywordAnalysis) error {
	stats, err := marshalJSON(analysis.Stats)
	if err != nil {
		return err
	}
	keywords, err := marshalJSON(analysis.Keywords)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO keyword_analyses (user_id, url, property, stats, keywords, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		analysis.UserID, analysis.URL, analysis.Property, stats, keywords,
		analysis.CreatedAt.Unix(), analysis.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting keyword analysis: %w", err)
	}

	analysis.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading keyword analysis id: %w", err)
	}
	return nil
}

// KeywordAnalysis returns one keyword lookup owned by the given user.
func (s *Store) KeywordAnalysis(ctx context.Context, userID, id int64) (*domain.KeywordAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, url, property, stats, keywords, created_at, updated_at
		 FROM keyword_analyses WHERE id = ? AND user_id = ?`, id, userID)
	return scanKeywordAnalysis(row.Scan)
}

// ListKeywordAnalyses pages through a user's keyword lookups, newest first.
func (s *Store) ListKeywordAnalyses(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.KeywordAnalysis, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM keyword_analyses WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting keyword analyses: %w", err)
	}

	limit, offset := pageBounds(opts.Page, opts.PerPage)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, url, property, stats, keywords, created_at, updated_at
		 FROM keyword_analyses WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing keyword analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.KeywordAnalysis
	for rows.Next() {
		a, err := scanKeywordAnalysis(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating keyword analyses: %w", err)
	}
	return analyses, total, nil
}

// DeleteKeywordAnalysis removes one keyword lookup owned by the given user.
func (s *Store) DeleteKeywordAnalysis(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM keyword_analyses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting keyword analysis: %w", err)
	}
	return requireRow(res)
}

func scanKeywordAnalysis(scan func(...any) error) (*domain.KeywordAnalysis, error) {
	var (
		a                    domain.KeywordAnalysis
		stats, keywords      string
		createdAt, updatedAt int64
	)
	err := scan(&a.ID, &a.UserID, &a.URL, &a.Property, &stats, &keywords, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning keyword analysis: %w", err)
	}
	if err := unmarshalJSON(stats, &a.Stats); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(keywords, &a.Keywords); err != nil {
		return nil, err
	}
	a.CreatedAt = unixTime(createdAt)
	a.UpdatedAt = unixTime(updatedAt)
	return &a, nil
}
