package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicTask_NextDue(t *testing.T) {
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "every fifteen minutes",
			schedule: "FREQ=MINUTELY;INTERVAL=15",
			now:      due.Add(20 * time.Minute),
			expected: due.Add(30 * time.Minute),
		},
		{
			name:     "exactly on an occurrence moves past it",
			schedule: "FREQ=HOURLY",
			now:      due.Add(time.Hour),
			expected: due.Add(2 * time.Hour),
		},
		{
			name:     "finished series",
			schedule: "FREQ=DAILY;COUNT=1",
			now:      due.Add(time.Hour),
		},
		{
			name:     "garbage",
			schedule: "EVERY SO OFTEN",
			now:      due,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := PeriodicTask{Schedule: tt.schedule, Due: due}
			assert.True(t, tt.expected.Equal(task.NextDue(tt.now)), "got %v", task.NextDue(tt.now))
		})
	}
}
