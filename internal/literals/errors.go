package literals

import "errors"

var (
	ErrKeyNotFound = errors.New("literals: key not found")
	ErrKeyRequired = errors.New("literals: key is required")
)
