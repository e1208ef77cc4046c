package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const documentRequestColumns = `
	id, user_id, document_type, purpose, status, reporting_manager_id,
	reviewed_by, reviewed_at, review_note, created_at, updated_at`

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

func scanDocumentRequest(row pgx.Row) (document.DocumentRequest, error) {
	var d document.DocumentRequest
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.DocumentType,
		&d.Purpose,
		&d.Status,
		&d.ReportingManagerID,
		&d.ReviewedBy,
		&d.ReviewedAt,
		&d.ReviewNote,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (r *documentRepositoryImpl) Create(ctx context.Context, d document.DocumentRequest) (document.DocumentRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO document_requests (user_id, document_type, purpose, status, reporting_manager_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + documentRequestColumns

	created, err := scanDocumentRequest(q.QueryRow(ctx, query, d.UserID, d.DocumentType, d.Purpose, d.Status, d.ReportingManagerID))
	if err != nil {
		return document.DocumentRequest{}, fmt.Errorf("failed to create document request: %w", err)
	}
	return created, nil
}

func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.DocumentRequest, error) {
	q := GetQuerier(ctx, r.db)
	d, err := scanDocumentRequest(q.QueryRow(ctx, `SELECT`+documentRequestColumns+` FROM document_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.DocumentRequest{}, document.ErrDocumentRequestNotFound
		}
		return document.DocumentRequest{}, fmt.Errorf("failed to get document request: %w", err)
	}
	return d, nil
}

func (r *documentRepositoryImpl) List(ctx context.Context, filter document.ListFilter) ([]document.DocumentRequest, int64, error) {
	q := GetQuerier(ctx, r.db)
	whereClause, args, argIndex := requestFilterClause(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM document_requests "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count document requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM document_requests %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		documentRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list document requests: %w", err)
	}
	defer rows.Close()

	var requests []document.DocumentRequest
	for rows.Next() {
		d, err := scanDocumentRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, d)
	}
	return requests, total, rows.Err()
}

func (r *documentRepositoryImpl) Transition(ctx context.Context, id string, status document.RequestStatus, reviewerID *string, note *string, at time.Time) (document.DocumentRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE document_requests
		SET status = $2, reviewed_by = $3, review_note = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING` + documentRequestColumns

	d, err := scanDocumentRequest(q.QueryRow(ctx, query, id, status, reviewerID, note, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return document.DocumentRequest{}, getErr
			}
			return document.DocumentRequest{}, document.ErrRequestAlreadyProcessed
		}
		return document.DocumentRequest{}, fmt.Errorf("failed to update document request: %w", err)
	}
	return d, nil
}
