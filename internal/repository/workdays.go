package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

func (r *Repository) GetWorkdayByID(ctx context.Context, id int64) (*domain.Workday, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM-DD') FROM workdays WHERE id = $1
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	workday := &domain.Workday{
		ID: id,
	}

	if err := r.conn(ctx).QueryRowContext(ctx, query, id).Scan(&workday.Date); err != nil {
		return nil, err
	}

	return workday, nil
}

func (r *Repository) GetWorkdayByDate(ctx context.Context, date string) (*domain.Workday, error) {
	query := `
		SELECT id FROM workdays WHERE date = $1::date
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	workday := &domain.Workday{
		Date: date,
	}

	if err := r.conn(ctx).QueryRowContext(ctx, query, date).Scan(&workday.ID); err != nil {
		return nil, err
	}

	return workday, nil
}

// CreateWorkday 插入一个新的工作日，如果该日期已经存在工作日，则返回 sql.ErrNoRows
func (r *Repository) CreateWorkday(ctx context.Context, workday *domain.Workday) error {
	query := `
		INSERT INTO workdays (date)
		VALUES ($1::date)
		ON CONFLICT (date) DO NOTHING
		RETURNING id
	`

	ctx, cancel := r.withQueryTimeout(ctx)
	defer cancel()

	if err := r.conn(ctx).QueryRowContext(ctx, query, workday.Date).Scan(&workday.ID); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) ListWorkdays(ctx context.Context, limit, offset int) ([]*domain.Workday, error) {
	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD') FROM workdays
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

	workdays := make([]*domain.Workday, 0)
	for rows.Next() {
		workday := &domain.Workday{}
		if err := rows.Scan(&workday.ID, &workday.Date); err != nil {
			return nil, err
		}
		workdays = append(workdays, workday)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workdays, nil
}
