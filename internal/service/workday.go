package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/utils"
)

type WorkdayService struct {
	tx       Transactor
	workdays WorkdayRepository
	logger   *slog.Logger
}

func NewWorkdayService(tx Transactor, workdays WorkdayRepository, logger *slog.Logger) *WorkdayService {
	return &WorkdayService{
		tx:       tx,
		workdays: workdays,
		logger:   logger,
	}
}

// ResolveOrCreate 返回 date 对应的工作日，不存在时创建
func (s *WorkdayService) ResolveOrCreate(ctx context.Context, date string) (*domain.Workday, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	var workday *domain.Workday
	if err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		workday, err = resolveWorkday(ctx, s.workdays, s.logger, date)
		return err
	}); err != nil {
		return nil, err
	}

	return workday, nil
}

func (s *WorkdayService) GetByID(ctx context.Context, id int64) (*domain.Workday, error) {
	workday, err := s.workdays.GetWorkdayByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundError("工作日 %d 不存在", id)
		}
		return nil, fmt.Errorf("查询工作日失败: %w", err)
	}

	return workday, nil
}

func (s *WorkdayService) List(ctx context.Context, page, limit int) ([]*domain.Workday, error) {
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	workdays, err := s.workdays.ListWorkdays(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("查询工作日列表失败: %w", err)
	}

	return workdays, nil
}

// resolveWorkday 查找或创建 date 对应的工作日，date 需要已经规范化。
// 并发创建同一日期时，落败的一方会重新读取胜出方插入的记录
func resolveWorkday(ctx context.Context, workdays WorkdayRepository, logger *slog.Logger, date string) (*domain.Workday, error) {
	workday, err := workdays.GetWorkdayByDate(ctx, date)
	if err == nil {
		return workday, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("查询工作日失败: %w", err)
	}

	workday = &domain.Workday{Date: date}
	err = workdays.CreateWorkday(ctx, workday)
	switch {
	case err == nil:
		logger.Info("已创建工作日", slog.Int64("id", workday.ID), slog.String("date", date))
		return workday, nil
	case isNoRows(err), isUniqueViolation(err):
		workday, err = workdays.GetWorkdayByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("重新查询工作日失败: %w", err)
		}
		return workday, nil
	default:
		return nil, fmt.Errorf("创建工作日失败: %w", err)
	}
}
