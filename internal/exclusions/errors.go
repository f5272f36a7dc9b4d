package exclusions

import (
	"errors"
	"fmt"
)

var (
	ErrRuleNotFound       = errors.New("exclusions: rule not found")
	ErrRuleInUse          = errors.New("exclusions: rule has related records")
	ErrFilterFieldInvalid = errors.New("exclusions: filter field not allowed")
	ErrFilterOpInvalid    = errors.New("exclusions: filter operator not allowed")
)

// NotFoundError carries the identifier of a missing rule.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrRuleNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%d", ErrRuleNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRuleNotFound
}
