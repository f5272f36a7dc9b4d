package translations

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound   = errors.New("translations: record not found")
	ErrLanguageNotFound = errors.New("translations: language not found")
)

// TupleNotFoundError identifies the missing record by its unique tuple.
type TupleNotFoundError struct {
	Table      string
	RowID      int64
	Field      string
	LanguageID int64
}

func (e *TupleNotFoundError) Error() string {
	if e == nil {
		return ErrRecordNotFound.Error()
	}
	return fmt.Sprintf("%s: table=%s id=%d field=%s language=%d",
		ErrRecordNotFound.Error(), e.Table, e.RowID, e.Field, e.LanguageID)
}

func (e *TupleNotFoundError) Unwrap() error {
	return ErrRecordNotFound
}
