package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/repository"
)

// memStore 是测试用的内存存储，行为与 postgres 中的约束保持一致：
// 日期唯一、同一工作日内开始/结束时间唯一、用户名唯一、users.shift_id 外键
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID   int64
	workdays map[int64]domain.Workday
	shifts   map[int64]domain.Shift
	users    map[int64]domain.User
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		workdays: make(map[int64]domain.Workday),
		shifts:   make(map[int64]domain.Shift),
		users:    make(map[int64]domain.User),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uniqueViolation(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrUniqueViolation, Constraint: constraint, Err: sql.ErrTxDone}
}

func foreignKeyViolation(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrForeignKeyViolation, Constraint: constraint, Err: sql.ErrTxDone}
}

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.snapshot()
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.mu.Lock()
		m.workdays, m.shifts, m.users = snapshot.workdays, snapshot.shifts, snapshot.users
		m.mu.Unlock()
		return err
	}

	return nil
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range m.workdays {
		c.workdays[k] = v
	}
	for k, v := range m.shifts {
		c.shifts[k] = v
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	return c
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](items map[int64]V) []int64 {
	keys := make([]int64, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// workdays

func (m *memStore) GetWorkdayByID(ctx context.Context, id int64) (*domain.Workday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workdays[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &w, nil
}

func (m *memStore) GetWorkdayByDate(ctx context.Context, date string) (*domain.Workday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.workdays {
		if w.Date == date {
			return &w, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) CreateWorkday(ctx context.Context, workday *domain.Workday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.workdays {
		if w.Date == workday.Date {
			return sql.ErrNoRows
		}
	}
	workday.ID = m.id()
	m.workdays[workday.ID] = *workday
	return nil
}

func (m *memStore) ListWorkdays(ctx context.Context, limit, offset int) ([]*domain.Workday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.Workday, 0, len(m.workdays))
	for _, id := range sortedKeys(m.workdays) {
		w := m.workdays[id]
		all = append(all, &w)
	}
	return paginate(all, limit, offset), nil
}

// shifts

func (m *memStore) GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shifts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memStore) GetShiftByIDForUpdate(ctx context.Context, id int64) (*domain.Shift, error) {
	return m.GetShiftByID(ctx, id)
}

func (m *memStore) GetShiftsByWorkdayID(ctx context.Context, workdayID int64) ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := make([]*domain.Shift, 0)
	for _, id := range sortedKeys(m.shifts) {
		s := m.shifts[id]
		if s.WorkdayID == workdayID {
			shifts = append(shifts, &s)
		}
	}
	return shifts, nil
}

func (m *memStore) ListShifts(ctx context.Context, limit, offset int) ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.Shift, 0, len(m.shifts))
	for _, id := range sortedKeys(m.shifts) {
		s := m.shifts[id]
		all = append(all, &s)
	}
	return paginate(all, limit, offset), nil
}

func (m *memStore) CreateShift(ctx context.Context, shift *domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workdays[shift.WorkdayID]; !ok {
		return foreignKeyViolation("shifts_workday_id_fkey")
	}
	for _, s := range m.shifts {
		if s.WorkdayID != shift.WorkdayID {
			continue
		}
		if s.StartTime == shift.StartTime {
			return uniqueViolation("shifts_workday_id_start_time_key")
		}
		if s.EndTime == shift.EndTime {
			return uniqueViolation("shifts_workday_id_end_time_key")
		}
	}
	shift.ID = m.id()
	m.shifts[shift.ID] = *shift
	return nil
}

func (m *memStore) DeleteShift(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shifts[id]; !ok {
		return sql.ErrNoRows
	}
	for _, u := range m.users {
		if u.ShiftID != nil && *u.ShiftID == id {
			return foreignKeyViolation("users_shift_id_fkey")
		}
	}
	delete(m.shifts, id)
	return nil
}

// users

func (m *memStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (m *memStore) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) CheckUserNameIfExists(ctx context.Context, name string) (bool, error) {
	_, err := m.GetUserByName(ctx, name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m *memStore) checkUser(user *domain.User) error {
	for _, u := range m.users {
		if u.Name == user.Name && u.ID != user.ID {
			return uniqueViolation("users_name_key")
		}
	}
	if user.ShiftID != nil {
		if _, ok := m.shifts[*user.ShiftID]; !ok {
			return foreignKeyViolation("users_shift_id_fkey")
		}
	}
	return nil
}

func (m *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUser(user); err != nil {
		return err
	}
	user.ID = m.id()
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) UpdateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	if err := m.checkUser(user); err != nil {
		return err
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) filterUsers(working bool) []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0)
	for _, id := range sortedKeys(m.users) {
		u := m.users[id]
		if u.IsWorking() == working {
			users = append(users, &u)
		}
	}
	return users
}

func (m *memStore) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.User, 0, len(m.users))
	for _, id := range sortedKeys(m.users) {
		u := m.users[id]
		all = append(all, &u)
	}
	return paginate(all, limit, offset), nil
}

func (m *memStore) GetWorkingUsers(ctx context.Context) ([]*domain.User, error) {
	return m.filterUsers(true), nil
}

func (m *memStore) GetIdleUsers(ctx context.Context) ([]*domain.User, error) {
	return m.filterUsers(false), nil
}

func (m *memStore) ClearShiftAssignments(ctx context.Context, shiftID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, u := range m.users {
		if u.ShiftID != nil && *u.ShiftID == shiftID {
			u.ShiftID = nil
			m.users[id] = u
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}
