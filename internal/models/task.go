package models

import (
	"time"

	"github.com/teambition/rrule-go"
)

// TaskStatus represents the state of a periodic task
type TaskStatus string

const (
	TaskStatusActive   TaskStatus = "active"
	TaskStatusDisabled TaskStatus = "disabled"
)

// PeriodicTask is a maintenance task the worker runs on an RRULE schedule
type PeriodicTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaskName  string         `gorm:"type:varchar(100);uniqueIndex" json:"task_name"`
	Arguments map[string]any `gorm:"serializer:json" json:"arguments"`
	Schedule  string         `gorm:"type:text" json:"schedule"` // RRULE, e.g. FREQ=MINUTELY;INTERVAL=15
	Due       time.Time      `gorm:"index" json:"due"`
	LastRun   *time.Time     `json:"last_run"`
	Status    TaskStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
}

// NextDue returns the first occurrence of the schedule strictly after now,
// anchored at the current due time. An unparseable or finished schedule
// yields the zero time.
func (t PeriodicTask) NextDue(now time.Time) time.Time {
	if t.Schedule == "" {
		return time.Time{}
	}
	opt, err := rrule.StrToROption(t.Schedule)
	if err != nil {
		return time.Time{}
	}
	opt.Dtstart = t.Due
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return time.Time{}
	}
	return rule.After(now, false)
}

// TaskRun records one execution of a periodic task
type TaskRun struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PeriodicTaskID uint           `gorm:"index" json:"periodic_task_id"`
	TaskName       string         `gorm:"type:varchar(100)" json:"task_name"`
	RunAt          time.Time      `json:"run_at"`
	RuntimeMs      int64          `json:"runtime_ms"`
	Status         string         `gorm:"type:varchar(20)" json:"status"`
	Result         map[string]any `gorm:"serializer:json" json:"result"`
}
