package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, user_id, leave_type, start_date, end_date, number_of_days, reason, status,
	reporting_manager_id, reviewed_by, reviewed_at, review_note, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.NumberOfDays,
		&lr.Reason,
		&lr.Status,
		&lr.ReportingManagerID,
		&lr.ReviewedBy,
		&lr.ReviewedAt,
		&lr.ReviewNote,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			user_id, leave_type, start_date, end_date, number_of_days, reason, status, reporting_manager_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		lr.UserID,
		lr.LeaveType,
		lr.StartDate,
		lr.EndDate,
		lr.NumberOfDays,
		lr.Reason,
		lr.Status,
		lr.ReportingManagerID,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	lr, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT`+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// requestFilterClause builds the WHERE clause shared by leave and document listings.
func requestFilterClause(filter leave.ListRequestsFilter) (string, []interface{}, int) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}
	if filter.ManagerID != nil {
		conditions = append(conditions, fmt.Sprintf("reporting_manager_id = $%d", argIndex))
		args = append(args, *filter.ManagerID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args, argIndex
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, argIndex
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListRequestsFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)
	whereClause, args, argIndex := requestFilterClause(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM leave_requests %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leaveRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}
	return requests, total, rows.Err()
}

func (r *leaveRequestRepositoryImpl) Transition(ctx context.Context, id string, status leave.RequestStatus, reviewerID *string, note *string, at time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $2, reviewed_by = $3, review_note = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, reviewerID, note, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return leave.LeaveRequest{}, getErr
			}
			return leave.LeaveRequest{}, leave.ErrRequestAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return lr, nil
}
