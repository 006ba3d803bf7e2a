package valueobjects

import (
	"clipshelf/pkg/errors"
)

// Sentinel validation errors shared by the value objects in this package.
var (
	ErrEmptyListID     = errors.NewValidation("list ID cannot be empty")
	ErrEmptyItemID     = errors.NewValidation("item ID cannot be empty")
	ErrEmptyItemSource = errors.NewValidation("item source URL or @id is required")

	ErrEmptyListName   = errors.NewValidation("list name is required")
	ErrListNameTooLong = errors.NewValidation("list name cannot exceed 100 characters")
	ErrEmptyListIcon   = errors.NewValidation("list icon is required")
	ErrListIconTooLong = errors.NewValidation("list icon cannot exceed 50 characters")
	ErrInvalidColor    = errors.NewValidation("color must be a hex value (#RGB or #RRGGBB) or a named CSS color")

	ErrEmptyItemURL      = errors.NewValidation("item URL is required")
	ErrEmptyItemType     = errors.NewValidation("item type is required")
	ErrNegativeItemOrder = errors.NewValidation("item order must be a non-negative integer")

	ErrInvalidPredicate = errors.NewValidation("predicate is not one of the known relationship kinds")
)
