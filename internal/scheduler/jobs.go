package scheduler

import (
	"fmt"
	"time"
)

// JobTypeTranslationReconcile identifies the nightly translation
// reconciliation run.
const JobTypeTranslationReconcile = "pim.translation.reconcile"

// TranslationReconcileJobKey dedupes scheduled runs: at most one pending
// reconciliation job exists per calendar day.
func TranslationReconcileJobKey(runAt time.Time) string {
	return fmt.Sprintf("translation:reconcile:%s", runAt.Format("2006-01-02"))
}

// NextNightlyRun returns the next occurrence of hour:minute in loc strictly
// after now. A nil location falls back to UTC.
func NextNightlyRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
