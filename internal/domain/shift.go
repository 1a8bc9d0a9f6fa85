package domain

import (
	"time"
)

const TimeLayout = "15:04:05"

type Shift struct {
	ID          int64     `json:"id"`
	WorkdayID   int64     `json:"workdayId"`
	StartTime   string    `json:"start"` // 格式为 15:04:05
	EndTime     string    `json:"end"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// CollidesWith 判断两个班次是否冲突：开始时间相同或结束时间相同即视为冲突，
// 注意这里并不检测区间重叠
func (s *Shift) CollidesWith(startTime, endTime string) bool {
	return s.StartTime == startTime || s.EndTime == endTime
}
