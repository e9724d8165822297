package repository

import "time"

// Setting 是一条本地键值设置。
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// PrintLogEntry 是一条本地打印审计记录。
type PrintLogEntry struct {
	ID          int64
	OrderID     int64
	TokenNumber int
	Mode        string
	GrandTotal  float64
	PrintedAt   time.Time
}
