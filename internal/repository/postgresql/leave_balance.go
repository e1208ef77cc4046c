package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// balanceColumn maps a leave type to its column; only these literals reach SQL.
var balanceColumn = map[leave.LeaveType]string{
	leave.LeaveTypeSick:      "sick_leave",
	leave.LeaveTypeAnnual:    "annual_leave",
	leave.LeaveTypeEmergency: "emergency_leave",
}

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(&b.UserID, &b.SickLeave, &b.AnnualLeave, &b.EmergencyLeave, &b.UpdatedAt)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (user_id, sick_leave, annual_leave, emergency_leave)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, sick_leave, annual_leave, emergency_leave, updated_at`

	created, err := scanBalance(q.QueryRow(ctx, query, b.UserID, b.SickLeave, b.AnnualLeave, b.EmergencyLeave))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return created, nil
}

func (r *leaveBalanceRepositoryImpl) GetByUserID(ctx context.Context, userID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT user_id, sick_leave, annual_leave, emergency_leave, updated_at
		FROM leave_balances
		WHERE user_id = $1`

	b, err := scanBalance(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) Update(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET sick_leave = $2, annual_leave = $3, emergency_leave = $4, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, sick_leave, annual_leave, emergency_leave, updated_at`

	updated, err := scanBalance(q.QueryRow(ctx, query, b.UserID, b.SickLeave, b.AnnualLeave, b.EmergencyLeave))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to update leave balance: %w", err)
	}
	return updated, nil
}

func (r *leaveBalanceRepositoryImpl) Decrement(ctx context.Context, userID string, t leave.LeaveType, days int) error {
	column, ok := balanceColumn[t]
	if !ok {
		return fmt.Errorf("unknown leave type %q", t)
	}

	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %[1]s = %[1]s - $2, updated_at = NOW()
		WHERE user_id = $1 AND %[1]s >= $2`, column)

	tag, err := q.Exec(ctx, query, userID, days)
	if err != nil {
		return fmt.Errorf("failed to decrement leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return err
		}
		return leave.ErrInsufficientBalance
	}
	return nil
}
