package scheduler

import (
	"testing"
	"time"
)

func TestNextNightlyRun(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before tonight's run",
			now:  time.Date(2025, 3, 10, 22, 30, 0, 0, madrid),
			want: time.Date(2025, 3, 11, 1, 0, 0, 0, madrid),
		},
		{
			name: "after today's run rolls to tomorrow",
			now:  time.Date(2025, 3, 10, 1, 30, 0, 0, madrid),
			want: time.Date(2025, 3, 11, 1, 0, 0, 0, madrid),
		},
		{
			name: "exactly at run time rolls forward",
			now:  time.Date(2025, 3, 10, 1, 0, 0, 0, madrid),
			want: time.Date(2025, 3, 11, 1, 0, 0, 0, madrid),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextNightlyRun(tc.now, 1, 0, madrid)
			if !got.Equal(tc.want) {
				t.Fatalf("NextNightlyRun() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextNightlyRunNilLocation(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)
	got := NextNightlyRun(now, 1, 0, nil)
	want := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextNightlyRun() = %v, want %v", got, want)
	}
}

func TestTranslationReconcileJobKey(t *testing.T) {
	runAt := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	if got := TranslationReconcileJobKey(runAt); got != "translation:reconcile:2025-03-11" {
		t.Fatalf("TranslationReconcileJobKey() = %q", got)
	}
}
