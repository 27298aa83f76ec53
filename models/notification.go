package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	TaskID    string    `json:"taskId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}
