// Package service 实现工作日、班次和用户之间的一致性规则：
// 班次边界冲突校验、按需创建工作日，以及删除班次时释放引用它的用户
package service

import (
	"context"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/utils"
)

// Transactor 在同一个事务中执行 fn，fn 内部需要使用传入的 ctx 访问存储
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type WorkdayRepository interface {
	GetWorkdayByID(ctx context.Context, id int64) (*domain.Workday, error)
	GetWorkdayByDate(ctx context.Context, date string) (*domain.Workday, error)
	CreateWorkday(ctx context.Context, workday *domain.Workday) error
	ListWorkdays(ctx context.Context, limit, offset int) ([]*domain.Workday, error)
}

type ShiftRepository interface {
	GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error)
	GetShiftByIDForUpdate(ctx context.Context, id int64) (*domain.Shift, error)
	GetShiftsByWorkdayID(ctx context.Context, workdayID int64) ([]*domain.Shift, error)
	ListShifts(ctx context.Context, limit, offset int) ([]*domain.Shift, error)
	CreateShift(ctx context.Context, shift *domain.Shift) error
	DeleteShift(ctx context.Context, id int64) error
}

// ShiftAssignmentClearer 是班次删除时对用户存储的唯一依赖
type ShiftAssignmentClearer interface {
	ClearShiftAssignments(ctx context.Context, shiftID int64) (int64, error)
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	CheckUserNameIfExists(ctx context.Context, name string) (bool, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
	GetWorkingUsers(ctx context.Context) ([]*domain.User, error)
	GetIdleUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// pageOffset 校验分页参数并换算为 offset，page 从 0 开始
func pageOffset(page, limit int) (int, error) {
	if err := utils.ValidatePage(page, limit); err != nil {
		return 0, validationError("%s", err.Error())
	}
	return page * limit, nil
}
