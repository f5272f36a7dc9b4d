package reconciler

import (
	"time"

	"github.com/goliatone/go-pim/internal/translator"
)

// Status summarizes a finished run.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusWithErrors Status = "completed_with_errors"
)

// ActionKind tells whether a run inserted a fresh record or refreshed a
// stale one.
type ActionKind string

const (
	ActionInsert ActionKind = "insert"
	ActionUpdate ActionKind = "update"
)

// Action is one translation write performed by a run.
type Action struct {
	Table      string             `json:"table"`
	RowID      int64              `json:"rowId"`
	Field      string             `json:"field"`
	LanguageID int64              `json:"languageId"`
	Kind       ActionKind         `json:"kind"`
	Outcome    translator.Outcome `json:"outcome"`
}

// Failure is one field that could not be reconciled. Failures never abort
// the run; the remaining fields keep processing.
type Failure struct {
	Table      string `json:"table"`
	RowID      int64  `json:"rowId"`
	Field      string `json:"field"`
	LanguageID int64  `json:"languageId"`
	Error      string `json:"error"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	Status         Status              `json:"status"`
	StartedAt      time.Time           `json:"startedAt"`
	FinishedAt     time.Time           `json:"finishedAt"`
	Structure      map[string][]string `json:"structure"`
	TotalProcessed int                 `json:"totalProcessed"`
	Actions        []Action            `json:"actions"`
	Failures       []Failure           `json:"failures,omitempty"`
}
