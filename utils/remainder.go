package utils

import (
	"time"

	cron "github.com/robfig/cron/v3"
)

// DefaultReminderSchedule runs the reminder job daily at 9 AM.
const DefaultReminderSchedule = "0 9 * * *"

// NewReminderScheduler returns a cron runner that survives panicking jobs
// and skips a run while the previous one is still going.
func NewReminderScheduler(loc *time.Location) *cron.Cron {
	if loc == nil {
		loc = time.Local
	}
	return cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		),
	)
}
