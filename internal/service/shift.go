package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/utils"
)

// ShiftScheduler 负责班次的创建、查询和删除
type ShiftScheduler struct {
	tx       Transactor
	workdays WorkdayRepository
	shifts   ShiftRepository
	users    ShiftAssignmentClearer
	locker   Locker
	logger   *slog.Logger
}

func NewShiftScheduler(
	tx Transactor,
	workdays WorkdayRepository,
	shifts ShiftRepository,
	users ShiftAssignmentClearer,
	locker Locker,
	logger *slog.Logger,
) *ShiftScheduler {
	return &ShiftScheduler{
		tx:       tx,
		workdays: workdays,
		shifts:   shifts,
		users:    users,
		locker:   locker,
		logger:   logger,
	}
}

func workdayLockKey(date string) string {
	return "workday:" + date
}

// Create 在 date 对应的工作日中创建班次，工作日不存在时会自动创建。
// 同一工作日内开始时间相同或结束时间相同的班次视为冲突
func (s *ShiftScheduler) Create(ctx context.Context, date, startTime, endTime string) (*domain.Shift, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	startTime, err = utils.NormalizeTimeOfDay(startTime)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	endTime, err = utils.NormalizeTimeOfDay(endTime)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	unlock, err := s.locker.Lock(ctx, workdayLockKey(date))
	if err != nil {
		return nil, fmt.Errorf("获取工作日 %s 的锁失败: %w", date, err)
	}
	defer unlock()

	var shift *domain.Shift
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		workday, err := resolveWorkday(ctx, s.workdays, s.logger, date)
		if err != nil {
			return err
		}

		existing, err := s.shifts.GetShiftsByWorkdayID(ctx, workday.ID)
		if err != nil {
			return fmt.Errorf("查询工作日的班次失败: %w", err)
		}
		for _, other := range existing {
			if other.CollidesWith(startTime, endTime) {
				return conflictError("班次 %s-%s 与 %s 已有的班次 %s-%s 冲突", startTime, endTime, date, other.StartTime, other.EndTime)
			}
		}

		shift = &domain.Shift{
			WorkdayID:   workday.ID,
			StartTime:   startTime,
			EndTime:     endTime,
			LastUpdated: time.Now(),
		}
		if err := s.shifts.CreateShift(ctx, shift); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("班次 %s-%s 与 %s 已有的班次冲突", startTime, endTime, date)
		}
		return nil, err
	}

	s.logger.Info("已创建班次",
		slog.Int64("id", shift.ID),
		slog.String("date", date),
		slog.String("start", startTime),
		slog.String("end", endTime),
	)

	return shift, nil
}

func (s *ShiftScheduler) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	shift, err := s.shifts.GetShiftByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundError("班次 %d 不存在", id)
		}
		return nil, fmt.Errorf("查询班次失败: %w", err)
	}

	return shift, nil
}

// GetByWorkdayID 返回工作日下的全部班次，工作日不存在时返回 ErrNotFound
func (s *ShiftScheduler) GetByWorkdayID(ctx context.Context, workdayID int64) ([]*domain.Shift, error) {
	if _, err := s.workdays.GetWorkdayByID(ctx, workdayID); err != nil {
		if isNoRows(err) {
			return nil, notFoundError("工作日 %d 不存在", workdayID)
		}
		return nil, fmt.Errorf("查询工作日失败: %w", err)
	}

	shifts, err := s.shifts.GetShiftsByWorkdayID(ctx, workdayID)
	if err != nil {
		return nil, fmt.Errorf("查询工作日的班次失败: %w", err)
	}

	return shifts, nil
}

func (s *ShiftScheduler) GetByDate(ctx context.Context, date string) ([]*domain.Shift, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	workday, err := s.workdays.GetWorkdayByDate(ctx, date)
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundError("日期 %s 没有对应的工作日", date)
		}
		return nil, fmt.Errorf("查询工作日失败: %w", err)
	}

	return s.GetByWorkdayID(ctx, workday.ID)
}

func (s *ShiftScheduler) List(ctx context.Context, page, limit int) ([]*domain.Shift, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListShifts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询班次列表失败: %w", err)
	}

	return shifts, nil
}

// Update 暂不支持修改班次，需要调整时请删除后重新创建
func (s *ShiftScheduler) Update(ctx context.Context, id int64, date, startTime, endTime string) (*domain.Shift, error) {
	return nil, unsupportedError("不支持修改班次 %d，请删除后重新创建", id)
}

// Remove 删除班次，并在同一个事务中将引用该班次的用户置为空闲
func (s *ShiftScheduler) Remove(ctx context.Context, id int64) error {
	var released int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.shifts.GetShiftByIDForUpdate(ctx, id); err != nil {
			if isNoRows(err) {
				return notFoundError("班次 %d 不存在", id)
			}
			return fmt.Errorf("查询班次失败: %w", err)
		}

		n, err := s.users.ClearShiftAssignments(ctx, id)
		if err != nil {
			return fmt.Errorf("释放班次中的用户失败: %w", err)
		}
		released = n

		if err := s.shifts.DeleteShift(ctx, id); err != nil {
			if isNoRows(err) {
				return notFoundError("班次 %d 不存在", id)
			}
			return fmt.Errorf("删除班次失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("已删除班次", slog.Int64("id", id), slog.Int64("releasedUsers", released))

	return nil
}
