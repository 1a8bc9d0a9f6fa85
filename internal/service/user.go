package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

// UserAssignment 负责用户的维护以及用户与班次之间的分配关系
type UserAssignment struct {
	users  UserRepository
	shifts ShiftRepository
	logger *slog.Logger
}

func NewUserAssignment(users UserRepository, shifts ShiftRepository, logger *slog.Logger) *UserAssignment {
	return &UserAssignment{
		users:  users,
		shifts: shifts,
		logger: logger,
	}
}

// ensureShiftExists 在 shiftID 不为空时检查班次是否存在
func (s *UserAssignment) ensureShiftExists(ctx context.Context, shiftID *int64) error {
	if shiftID == nil {
		return nil
	}

	if _, err := s.shifts.GetShiftByID(ctx, *shiftID); err != nil {
		if isNoRows(err) {
			return notFoundError("班次 %d 不存在", *shiftID)
		}
		return fmt.Errorf("查询班次失败: %w", err)
	}

	return nil
}

// constraintError 处理写入用户时由数据库约束兜底拦截的情况，其余错误返回 nil
func constraintError(err error, user *domain.User) error {
	switch {
	case isUniqueViolation(err):
		return conflictError("用户名 %s 已存在", user.Name)
	case isForeignKeyViolation(err):
		return notFoundError("班次 %d 不存在", derefShiftID(user.ShiftID))
	default:
		return nil
	}
}

func derefShiftID(shiftID *int64) int64 {
	if shiftID == nil {
		return 0
	}
	return *shiftID
}

func (s *UserAssignment) Create(ctx context.Context, name string, shiftID *int64) (*domain.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("用户名不能为空")
	}

	exists, err := s.users.CheckUserNameIfExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return nil, conflictError("用户名 %s 已存在", name)
	}

	if err := s.ensureShiftExists(ctx, shiftID); err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:        name,
		ShiftID:     shiftID,
		LastUpdated: time.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if cerr := constraintError(err, user); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.logger.Info("已创建用户", slog.Int64("id", user.ID), slog.String("name", user.Name))

	return user, nil
}

// Update 覆盖用户的姓名和班次，任何一步校验失败时都不会修改已保存的记录
func (s *UserAssignment) Update(ctx context.Context, id int64, name string, shiftID *int64) (*domain.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("用户名不能为空")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	owner, err := s.users.GetUserByName(ctx, name)
	switch {
	case err == nil:
		if owner.ID != id {
			return nil, conflictError("用户名 %s 已存在", name)
		}
	case !isNoRows(err):
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}

	if err := s.ensureShiftExists(ctx, shiftID); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:          id,
		Name:        name,
		ShiftID:     shiftID,
		LastUpdated: time.Now(),
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		if isNoRows(err) {
			return nil, notFoundError("用户 %d 不存在", id)
		}
		if cerr := constraintError(err, user); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}

	return user, nil
}

func (s *UserAssignment) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundError("用户 %d 不存在", id)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	return user, nil
}

func (s *UserAssignment) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询用户列表失败: %w", err)
	}

	return users, nil
}

// GetAllWorking 返回所有已分配班次的用户
func (s *UserAssignment) GetAllWorking(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.GetWorkingUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询在岗用户失败: %w", err)
	}

	return users, nil
}

// GetAllIdle 返回所有未分配班次的用户
func (s *UserAssignment) GetAllIdle(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.GetIdleUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询空闲用户失败: %w", err)
	}

	return users, nil
}

func (s *UserAssignment) Remove(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if isNoRows(err) {
			return notFoundError("用户 %d 不存在", id)
		}
		return fmt.Errorf("删除用户失败: %w", err)
	}

	s.logger.Info("已删除用户", slog.Int64("id", id))

	return nil
}
