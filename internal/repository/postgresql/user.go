package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, display_name, email, password_hash, oauth_provider, oauth_provider_id,
	role, status, department, position, phone, photo_url, reporting_manager_id,
	last_active, is_active, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.DisplayName,
		&u.Email,
		&u.PasswordHash,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.Role,
		&u.Status,
		&u.Department,
		&u.Position,
		&u.Phone,
		&u.PhotoURL,
		&u.ReportingManagerID,
		&u.LastActive,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()
	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			display_name, email, password_hash, oauth_provider, oauth_provider_id,
			role, status, department, position, phone, photo_url, reporting_manager_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.DisplayName,
		newUser.Email,
		newUser.PasswordHash,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
		newUser.Role,
		newUser.Status,
		newUser.Department,
		newUser.Position,
		newUser.Phone,
		newUser.PhotoURL,
		newUser.ReportingManagerID,
	))
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + ` FROM users WHERE ` + where

	found, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return found, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(email))
}

// GetByOAuth implements user.UserRepository.
func (r *userRepositoryImpl) GetByOAuth(ctx context.Context, provider, providerID string) (user.User, error) {
	return r.getOne(ctx, "oauth_provider = $1 AND oauth_provider_id = $2", provider, providerID)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, *filter.Role)
		argIndex++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(display_name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY display_name, id LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan users: %w", err)
	}
	return users, total, nil
}

// ListAll implements user.UserRepository.
func (r *userRepositoryImpl) ListAll(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT`+userColumns+` FROM users ORDER BY display_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectUsers(rows)
}

// ListManagers implements user.UserRepository.
func (r *userRepositoryImpl) ListManagers(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + `
		FROM users
		WHERE status = 'active' AND (role = 'admin' OR position ILIKE '%manager%')
		ORDER BY display_name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return collectUsers(rows)
}

func (r *userRepositoryImpl) exec(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateProfile implements user.UserRepository. Nil fields are left untouched.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) error {
	query := `
		UPDATE users SET
			display_name = COALESCE($2, display_name),
			department   = COALESCE($3, department),
			position     = COALESCE($4, position),
			phone        = COALESCE($5, phone),
			photo_url    = COALESCE($6, photo_url),
			updated_at   = NOW()
		WHERE id = $1`
	if err := r.exec(ctx, query, req.ID, req.DisplayName, req.Department, req.Position, req.Phone, req.PhotoURL); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id string, role user.Role) error {
	if err := r.exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	if err := r.exec(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// UpdateReportingManager implements user.UserRepository.
func (r *userRepositoryImpl) UpdateReportingManager(ctx context.Context, id string, managerID *string) error {
	if err := r.exec(ctx, `UPDATE users SET reporting_manager_id = $2, updated_at = NOW() WHERE id = $1`, id, managerID); err != nil {
		return fmt.Errorf("failed to update reporting manager: %w", err)
	}
	return nil
}

// LinkOAuth implements user.UserRepository.
func (r *userRepositoryImpl) LinkOAuth(ctx context.Context, id, provider, providerID string) error {
	query := `UPDATE users SET oauth_provider = $2, oauth_provider_id = $3, updated_at = NOW() WHERE id = $1`
	if err := r.exec(ctx, query, id, provider, providerID); err != nil {
		return fmt.Errorf("failed to link oauth account: %w", err)
	}
	return nil
}

// UpdateActivity implements user.UserRepository.
func (r *userRepositoryImpl) UpdateActivity(ctx context.Context, id string, lastActive time.Time, isActive *bool) error {
	query := `
		UPDATE users
		SET last_active = $2, is_active = COALESCE($3, is_active), updated_at = NOW()
		WHERE id = $1`
	if err := r.exec(ctx, query, id, lastActive, isActive); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
