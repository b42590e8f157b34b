package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no persisted state exists for the requested game.
var ErrNotFound = errors.New("game not found")

// ErrStorageUnavailable reports that the storage location is not
// provisioned. The store never creates it; see `tritone init`.
var ErrStorageUnavailable = errors.New("storage unavailable")

// SchemaError reports persisted state that no longer matches the current
// configuration shape. The load is aborted and in-memory state is untouched.
type SchemaError struct {
	Game   string
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("incompatible saved state for game %q: %s: %v", e.Game, e.Detail, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
