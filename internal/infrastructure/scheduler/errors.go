package scheduler

import "errors"

var (
	// ErrInvalidSchedule is returned for cron expressions the parser rejects
	ErrInvalidSchedule = errors.New("scheduler: invalid cron schedule")

	// ErrSchedulerNotRunning is returned when stopping a scheduler that was never started
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
)
