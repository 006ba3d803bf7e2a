package aggregates

import (
	"clipshelf/pkg/errors"
)

// Invariant violations raised synchronously by aggregate methods.
var (
	ErrListDeleted = errors.NewConflict("cannot mutate a deleted list")
	ErrItemDeleted = errors.NewConflict("cannot mutate a deleted item")
)
