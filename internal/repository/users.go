package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	user := &domain.User{}
	var shiftID sql.NullInt64

	dst := []any{&user.ID, &user.Name, &shiftID, &user.LastUpdated}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if shiftID.Valid {
		user.ShiftID = &shiftID.Int64
	}

	return user, nil
}

func collectUsers(rows *sql.Rows) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, shift_id, last_updated FROM users WHERE id = $1
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanUser(r.conn(ctx).QueryRowContext(ctx, query, id))
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	query := `
		SELECT id, name, shift_id, last_updated FROM users WHERE name = $1
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanUser(r.conn(ctx).QueryRowContext(ctx, query, name))
}

func (r *Repository) CheckUserNameIfExists(ctx context.Context, name string) (bool, error) {
	isExists := false

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)
	`
	if err := r.conn(ctx).QueryRowContext(ctx, query, name).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, shift_id, last_updated)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{user.Name, user.ShiftID, user.LastUpdated}
	if err := r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return translateError(err)
	}

	return nil
}

// UpdateUser 覆盖用户的姓名和班次，如果用户不存在则返回 sql.ErrNoRows
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET
			name = $1,
			shift_id = $2,
			last_updated = $3
		WHERE id = $4
		RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{user.Name, user.ShiftID, user.LastUpdated, user.ID}
	if err := r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	query := `
		SELECT id, name, shift_id, last_updated FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *Repository) GetWorkingUsers(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, shift_id, last_updated FROM users
		WHERE shift_id IS NOT NULL
		ORDER BY id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *Repository) GetIdleUsers(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, shift_id, last_updated FROM users
		WHERE shift_id IS NULL
		ORDER BY id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ClearShiftAssignments 将所有引用该班次的用户置为空闲，返回受影响的用户数量
func (r *Repository) ClearShiftAssignments(ctx context.Context, shiftID int64) (int64, error) {
	query := `
		UPDATE users
		SET
			shift_id = NULL,
			last_updated = NOW()
		WHERE shift_id = $1
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	res, err := r.conn(ctx).ExecContext(ctx, query, shiftID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// DeleteUser 删除用户，如果用户不存在则返回 sql.ErrNoRows
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	query := `
		DELETE FROM users WHERE id = $1 RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	var deletedID int64
	if err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(&deletedID); err != nil {
		return err
	}

	return nil
}
