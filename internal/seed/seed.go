package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/service"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/utils"
)

type ShiftService interface {
	Create(ctx context.Context, date, startTime, endTime string) (*domain.Shift, error)
	GetByDate(ctx context.Context, date string) ([]*domain.Shift, error)
}

type UserService interface {
	Create(ctx context.Context, name string, shiftID *int64) (*domain.User, error)
}

type Seeder struct {
	shifts ShiftService
	users  UserService
	logger *slog.Logger
}

func NewSeeder(shifts ShiftService, users UserService, logger *slog.Logger) *Seeder {
	return &Seeder{
		shifts: shifts,
		users:  users,
		logger: logger,
	}
}

// 排班表必须包含的列
var rosterHeaders = []string{"姓名", "日期", "班次"}

// ImportRoster 从 csv 导入排班表，每一行为一个用户及其所在班次，例如
//
//	姓名,日期,班次
//	王伟,2022-12-22,09：00-10：00
//
// 班次列为空表示该用户空闲。返回成功导入的用户数量
func (s *Seeder) ImportRoster(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}

	index := make(map[string]int)
	for i, header := range headers {
		index[strings.TrimSpace(header)] = i
	}
	for _, header := range rosterHeaders {
		if _, ok := index[header]; !ok {
			return 0, fmt.Errorf("没有找到 %s 列", header)
		}
	}

	imported := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return imported, fmt.Errorf("读取文件失败: %w", err)
		}

		name := strings.TrimSpace(row[index["姓名"]])
		if name == "" {
			s.logger.Error("没有找到姓名", "row", row)
			continue
		}

		var shiftID *int64
		if window := strings.TrimSpace(row[index["班次"]]); window != "" {
			shift, err := s.resolveShift(ctx, strings.TrimSpace(row[index["日期"]]), window)
			if err != nil {
				s.logger.Error("无法获取班次", "name", name, "error", err)
				continue
			}
			shiftID = &shift.ID
		}

		if _, err := s.users.Create(ctx, name, shiftID); err != nil {
			if errors.Is(err, service.ErrConflict) {
				s.logger.Warn("用户已存在，跳过", "name", name)
				continue
			}
			s.logger.Error("插入用户失败", "name", name, "error", err)
			continue
		}

		imported++
	}

	s.logger.Info("导入排班表完成", slog.Int("count", imported))
	return imported, nil
}

// resolveShift 返回 date 中与 window 完全一致的班次，不存在时创建
func (s *Seeder) resolveShift(ctx context.Context, date, window string) (*domain.Shift, error) {
	// 表格中常使用全角冒号
	window = strings.ReplaceAll(window, "：", ":")
	start, end, ok := strings.Cut(window, "-")
	if !ok {
		return nil, fmt.Errorf("班次 %q 格式错误", window)
	}

	start, err := utils.NormalizeTimeOfDay(strings.TrimSpace(start))
	if err != nil {
		return nil, err
	}
	end, err = utils.NormalizeTimeOfDay(strings.TrimSpace(end))
	if err != nil {
		return nil, err
	}

	shift, err := s.shifts.Create(ctx, date, start, end)
	if err == nil {
		return shift, nil
	}
	if !errors.Is(err, service.ErrConflict) {
		return nil, err
	}

	existing, err := s.shifts.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, shift := range existing {
		if shift.StartTime == start && shift.EndTime == end {
			return shift, nil
		}
	}

	return nil, fmt.Errorf("班次 %s-%s 与 %s 已有的班次冲突", start, end, date)
}

// RandomShifts 从 startDate 开始的 days 天中，每天随机生成 perDay 个互不冲突的班次
func (s *Seeder) RandomShifts(ctx context.Context, startDate string, days, perDay int) ([]*domain.Shift, error) {
	if days <= 0 || perDay <= 0 {
		return nil, fmt.Errorf("天数和每天的班次数量必须大于 0")
	}

	start, err := utils.NormalizeDate(startDate)
	if err != nil {
		return nil, err
	}

	created := make([]*domain.Shift, 0, days*perDay)
	for d := 0; d < days; d++ {
		date, err := addDays(start, d)
		if err != nil {
			return created, err
		}

		for slot := 0; slot < perDay; slot++ {
			startTime, endTime := utils.GenerateRandomShiftWindow(slot, perDay)
			shift, err := s.shifts.Create(ctx, date, startTime, endTime)
			if err != nil {
				s.logger.Error("无法插入班次", "date", date, "error", err)
				continue
			}
			created = append(created, shift)
		}
	}

	s.logger.Info("插入班次成功", slog.Int("count", len(created)))
	return created, nil
}

// RandomUsers 随机生成 n 个用户，有 shiftIDs 时随机分配其中一个班次，否则为空闲
func (s *Seeder) RandomUsers(ctx context.Context, n int, shiftIDs []int64) ([]*domain.User, error) {
	if n <= 0 {
		return nil, fmt.Errorf("请输入合法的用户数量")
	}

	created := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		name := utils.GenerateUsernameFromChineseName(utils.GenerateRandomChineseName())

		var shiftID *int64
		if len(shiftIDs) > 0 {
			id := shiftIDs[rand.Intn(len(shiftIDs))]
			shiftID = &id
		}

		user, err := s.users.Create(ctx, name, shiftID)
		if err != nil {
			s.logger.Error("无法插入用户", "name", name, "error", err)
			continue
		}
		created = append(created, user)
	}

	s.logger.Info("插入用户成功", slog.Int("count", len(created)))
	return created, nil
}

func addDays(date string, days int) (string, error) {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(domain.DateLayout), nil
}
