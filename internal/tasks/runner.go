package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"schemagraph/internal/models"
)

// Schedule pairs a task with its RRULE recurrence.
type Schedule struct {
	TaskName string
	Rule     string
}

// EveryRule returns an RRULE firing once per interval.
func EveryRule(interval time.Duration) string {
	if interval%time.Minute == 0 {
		return fmt.Sprintf("FREQ=MINUTELY;INTERVAL=%d", max(int(interval/time.Minute), 1))
	}
	return fmt.Sprintf("FREQ=SECONDLY;INTERVAL=%d", max(int(interval/time.Second), 1))
}

// DefaultSchedules runs every maintenance task once per interval.
func DefaultSchedules(interval time.Duration) []Schedule {
	rule := EveryRule(interval)
	return []Schedule{
		{TaskName: RefreshMenuLocationsTask, Rule: rule},
		{TaskName: ValidatePageSchemasTask, Rule: rule},
	}
}

// Runner executes the periodic tasks stored in the database.
type Runner struct {
	db       *gorm.DB
	registry *Registry
	logger   *log.Logger
	now      func() time.Time
}

func NewRunner(db *gorm.DB, registry *Registry, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{db: db, registry: registry, logger: logger, now: time.Now}
}

// Ensure creates missing task rows due immediately and updates changed rules.
func (r *Runner) Ensure(ctx context.Context, schedules []Schedule) error {
	db := r.db.WithContext(ctx)
	for _, s := range schedules {
		var task models.PeriodicTask
		err := db.Where("task_name = ?", s.TaskName).First(&task).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			task = models.PeriodicTask{
				TaskName:  s.TaskName,
				Arguments: map[string]any{},
				Schedule:  s.Rule,
				Due:       r.now(),
				Status:    models.TaskStatusActive,
			}
			if err := db.Create(&task).Error; err != nil {
				return fmt.Errorf("create task %s: %w", s.TaskName, err)
			}
		case err != nil:
			return fmt.Errorf("load task %s: %w", s.TaskName, err)
		case task.Schedule != s.Rule:
			if err := db.Model(&task).Update("schedule", s.Rule).Error; err != nil {
				return fmt.Errorf("update task %s: %w", s.TaskName, err)
			}
		}
	}
	return nil
}

// RunDue executes every active task whose due time has passed and returns
// how many ran.
func (r *Runner) RunDue(ctx context.Context) (int, error) {
	var pending []models.PeriodicTask
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.TaskStatusActive, r.now()).
		Order("due").
		Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("fetch pending tasks: %w", err)
	}
	if len(pending) == 0 {
		r.logger.Debug("no pending tasks")
		return 0, nil
	}

	r.logger.Info("running pending tasks", "count", len(pending))
	ran := 0
	for _, task := range pending {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		r.execute(ctx, task)
		ran++
	}
	return ran, nil
}

func (r *Runner) execute(ctx context.Context, task models.PeriodicTask) {
	db := r.db.WithContext(ctx)
	start := r.now()
	began := time.Now()

	status := "success"
	var result map[string]any
	handler, found := r.registry.Get(task.TaskName)
	if !found {
		r.logger.Warn("task handler not found", "task", task.TaskName)
		status = "handler_not_found"
		result = map[string]any{"error": "Handler not found"}
	} else {
		var err error
		result, err = handler(ctx, task.Arguments)
		if err != nil {
			status = "failure"
			result = map[string]any{"error": err.Error()}
			r.logger.Error("task failed", "task", task.TaskName, "error", err)
		} else {
			r.logger.Info("task completed", "task", task.TaskName)
		}
	}

	run := models.TaskRun{
		PeriodicTaskID: task.ID,
		TaskName:       task.TaskName,
		RunAt:          start,
		RuntimeMs:      time.Since(began).Milliseconds(),
		Status:         status,
		Result:         result,
	}
	if err := db.Create(&run).Error; err != nil {
		r.logger.Error("failed to record task run", "task", task.TaskName, "error", err)
	}

	// a failed run waits for its next occurrence like a successful one
	updates := map[string]any{"last_run": &start}
	if next := task.NextDue(start); next.IsZero() {
		updates["status"] = models.TaskStatusDisabled
	} else {
		updates["due"] = next
	}
	if err := db.Model(&task).Updates(updates).Error; err != nil {
		r.logger.Error("failed to advance task", "task", task.TaskName, "error", err)
	}
}

// RunAll executes every registered task once without recording runs.
// The worker uses it when no database is configured.
func RunAll(ctx context.Context, registry *Registry, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	for _, name := range registry.Names() {
		if ctx.Err() != nil {
			return
		}
		handler, _ := registry.Get(name)
		result, err := handler(ctx, nil)
		if err != nil {
			logger.Error("task failed", "task", name, "error", err)
			continue
		}
		logger.Info("task completed", "task", name, "result", result)
	}
}
