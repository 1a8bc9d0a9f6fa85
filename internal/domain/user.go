package domain

import (
	"time"
)

type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ShiftID     *int64    `json:"shiftId"` // 为空时表示该用户当前空闲
	LastUpdated time.Time `json:"lastUpdated"`
}

func (u *User) IsWorking() bool {
	return u.ShiftID != nil
}
