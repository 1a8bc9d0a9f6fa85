package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

const shiftColumns = `id, workday_id, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), last_updated`

func scanShift(row interface{ Scan(dest ...any) error }) (*domain.Shift, error) {
	shift := &domain.Shift{}
	dst := []any{&shift.ID, &shift.WorkdayID, &shift.StartTime, &shift.EndTime, &shift.LastUpdated}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *Repository) GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanShift(r.conn(ctx).QueryRowContext(ctx, query, id))
}

// GetShiftByIDForUpdate 会对该班次加行锁，只有在事务中调用才有意义。
// 在锁释放之前，其他事务无法让用户引用这个班次（外键检查需要获取该行的共享锁）
func (r *Repository) GetShiftByIDForUpdate(ctx context.Context, id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	return scanShift(r.conn(ctx).QueryRowContext(ctx, query, id))
}

func (r *Repository) GetShiftsByWorkdayID(ctx context.Context, workdayID int64) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE workday_id = $1 ORDER BY id`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).QueryContext(ctx, query, workdayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShifts(rows)
}

func (r *Repository) ListShifts(ctx context.Context, limit, offset int) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts ORDER BY id LIMIT $1 OFFSET $2`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShifts(rows)
}

func collectShifts(rows *sql.Rows) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) CreateShift(ctx context.Context, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (workday_id, start_time, end_time, last_updated)
		VALUES ($1, $2::time, $3::time, $4)
		RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	args := []any{shift.WorkdayID, shift.StartTime, shift.EndTime, shift.LastUpdated}
	if err := r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&shift.ID); err != nil {
		return translateError(err)
	}

	return nil
}

// DeleteShift 删除班次，如果班次不存在则返回 sql.ErrNoRows
func (r *Repository) DeleteShift(ctx context.Context, id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1 RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	var deletedID int64
	if err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(&deletedID); err != nil {
		return translateError(err)
	}

	return nil
}
