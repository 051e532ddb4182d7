package transaction

import "errors"

var (
	// ErrEmptyTransaction indicates a transaction with no items.
	ErrEmptyTransaction = errors.New("empty transaction")

	// ErrMissingItemID indicates an item occurrence without an identifier.
	ErrMissingItemID = errors.New("missing item id")

	// ErrInvalidQuantity indicates a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrNegativeUtility indicates a negative transaction-local utility.
	ErrNegativeUtility = errors.New("utility must be non-negative")

	// ErrUnknownItem indicates an item absent from the utility table.
	ErrUnknownItem = errors.New("item not found in utility table")

	// ErrMissingUtilityTable indicates mining was attempted without a
	// utility table and no fallback policy.
	ErrMissingUtilityTable = errors.New("missing item utility table")
)
