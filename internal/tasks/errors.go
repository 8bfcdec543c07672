package tasks

import (
	"errors"
	"fmt"

	"github.com/akyairhashvil/streakboard/internal/database"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotPersisted marks a change that was applied in memory but could
	// not be written to the store.
	ErrNotPersisted = errors.New("change not persisted")
)

func opErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &database.OpError{Op: op, Resource: "task", Key: id, Err: err}
}

func persistErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return opErr(op, id, fmt.Errorf("%w: %w", ErrNotPersisted, err))
}
