package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOp     = errors.New("unknown edit op")
	ErrInvalidStatus = errors.New("invalid status")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
