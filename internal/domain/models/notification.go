package models

import "time"

const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
	NotificationWarning = "warning"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Kind      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
