package domain

const DateLayout = "2006-01-02"

type Workday struct {
	ID   int64  `json:"id"`
	Date string `json:"date"` // 格式为 2006-01-02
}
