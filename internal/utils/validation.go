package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

// 班次时间允许省略秒
var timeOfDayLayouts = []string{"15:04", domain.TimeLayout}

// NormalizeDate 校验日期格式并返回 2006-01-02 格式的日期
func NormalizeDate(date string) (string, error) {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("日期 %q 格式错误，应为 YYYY-MM-DD", date)
	}
	return t.Format(domain.DateLayout), nil
}

// NormalizeTimeOfDay 校验时间格式并返回 15:04:05 格式的时间，
// 这样 08:00 和 08:00:00 在比较时会被视为同一时间
func NormalizeTimeOfDay(value string) (string, error) {
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Format(domain.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("时间 %q 格式错误，应为 HH:MM 或 HH:MM:SS", value)
}

// ValidatePage 校验分页参数，page 从 0 开始
func ValidatePage(page, limit int) error {
	if page < 0 {
		return fmt.Errorf("页码不能小于 0")
	}
	if limit <= 0 {
		return fmt.Errorf("每页数量必须大于 0")
	}
	return nil
}
