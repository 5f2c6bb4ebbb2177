package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seooptima/backend/internal/domain"
)

// SaveConnection upserts a user's Search Console connection.
func (s *Store) SaveConnection(ctx context.Context, conn *domain.SearchConsoleConnection) error {
	creds, err := marshalJSON(conn.Credentials)
	if err != nil {
		return err
	}
	props, err := marshalJSON(conn.Properties)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gsc_connections (user_id, credentials, properties, connected_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   credentials = excluded.credentials,
		   properties = excluded.properties,
		   updated_at = excluded.updated_at`,
		conn.UserID, creds, props, conn.ConnectedAt.Unix(), conn.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}
	return nil
}

// ConnectionByUser returns a user's Search Console connection, or
// ErrNotConnected if none exists.
func (s *Store) ConnectionByUser(ctx context.Context, userID int64) (*domain.SearchConsoleConnection, error) {
	var (
		conn                  domain.SearchConsoleConnection
		creds, props          string
		connectedAt, updated  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, credentials, properties, connected_at, updated_at
		 FROM gsc_connections WHERE user_id = ?`, userID).
		Scan(&conn.UserID, &creds, &props, &connectedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("scanning connection: %w", err)
	}
	if err := unmarshalJSON(creds, &conn.Credentials); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(props, &conn.Properties); err != nil {
		return nil, err
	}
	conn.ConnectedAt = unixTime(connectedAt)
	conn.UpdatedAt = unixTime(updated)
	return &conn, nil
}

// DeleteConnection removes a user's Search Console connection.
func (s *Store) DeleteConnection(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM gsc_connections WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotConnected
	}
	return nil
}

// CreateReport inserts a report record and fills in its generated ID.
func (s *Store) CreateReport(ctx context.Context, report *domain.Report) error {
	headers, err := marshalHeaders(report.Headers)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports
		 (user_id, type, title, description, pagespeed_analysis_id, keyword_analysis_id,
		  image_analysis_id, headers, file_path, include_recommendations, include_charts,
		  created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.UserID, string(report.Type), report.Title, report.Description,
		nullInt64(report.PageSpeedAnalysisID), nullInt64(report.KeywordAnalysisID),
		nullInt64(report.ImageAnalysisID), headers, report.FilePath,
		report.IncludeRecommendations, report.IncludeCharts,
		report.CreatedAt.Unix(), report.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	report.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading report id: %w", err)
	}
	return nil
}

// Report returns one report owned by the given user.
func (s *Store) Report(ctx context.Context, userID, id int64) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, title, description, pagespeed_analysis_id,
		        keyword_analysis_id, image_analysis_id, headers, file_path,
		        include_recommendations, include_charts, created_at, updated_at
		 FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	return scanReport(row.Scan)
}

// ListReports pages through a user's reports, optionally filtered by
// type, newest first.
func (s *Store) ListReports(ctx context.Context, userID int64, opts domain.ListOptions) ([]domain.Report, int, error) {
	where := "WHERE user_id = ?"
	args := []any{userID}
	if opts.Type != "" {
		where += " AND type = ?"
		args = append(args, opts.Type)
	}

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting reports: %w", err)
	}

	limit, offset := pageBounds(opts.Page, opts.PerPage)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, user_id, type, title, description, pagespeed_analysis_id,
		        keyword_analysis_id, image_analysis_id, headers, file_path,
		        include_recommendations, include_charts, created_at, updated_at
		 FROM reports %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, where),
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, total, nil
}

// SaveReport updates a stored report's mutable fields.
func (s *Store) SaveReport(ctx context.Context, report *domain.Report) error {
	headers, err := marshalHeaders(report.Headers)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET type = ?, title = ?, description = ?, pagespeed_analysis_id = ?,
		   keyword_analysis_id = ?, image_analysis_id = ?, headers = ?, file_path = ?,
		   include_recommendations = ?, include_charts = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(report.Type), report.Title, report.Description,
		nullInt64(report.PageSpeedAnalysisID), nullInt64(report.KeywordAnalysisID),
		nullInt64(report.ImageAnalysisID), headers, report.FilePath,
		report.IncludeRecommendations, report.IncludeCharts,
		report.UpdatedAt.Unix(), report.ID, report.UserID)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	return requireRow(res)
}

// DeleteReport removes one report owned by the given user.
func (s *Store) DeleteReport(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return requireRow(res)
}

func marshalHeaders(h *domain.HeadersSection) (sql.NullString, error) {
	if h == nil {
		return sql.NullString{}, nil
	}
	data, err := marshalJSON(h)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: data, Valid: true}, nil
}

func scanReport(scan func(...any) error) (*domain.Report, error) {
	var (
		r                    domain.Report
		psID, kwID, imgID    sql.NullInt64
		headers              sql.NullString
		createdAt, updatedAt int64
	)
	err := scan(&r.ID, &r.UserID, &r.Type, &r.Title, &r.Description,
		&psID, &kwID, &imgID, &headers, &r.FilePath,
		&r.IncludeRecommendations, &r.IncludeCharts, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	r.PageSpeedAnalysisID = int64Ptr(psID)
	r.KeywordAnalysisID = int64Ptr(kwID)
	r.ImageAnalysisID = int64Ptr(imgID)
	if headers.Valid {
		var h domain.HeadersSection
		if err := unmarshalJSON(headers.String, &h); err != nil {
			return nil, err
		}
		r.Headers = &h
	}
	r.CreatedAt = unixTime(createdAt)
	r.UpdatedAt = unixTime(updatedAt)
	return &r, nil
}
