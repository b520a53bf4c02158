package converter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// FieldExtractionError reports that a mapping accessor failed on a specific
// input row. Fatal for the whole run: a silently skipped row corrupts the
// financial record.
type FieldExtractionError struct {
	Field     string
	RowNumber int
	Cause     error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("row %d: cannot extract field %q: %v", e.RowNumber, e.Field, e.Cause)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Cause
}

// UnbalancedSplitError reports a split group whose legs do not sum to zero.
// The double-entry balance invariant is checked with exact decimal
// arithmetic; there is no tolerance.
type UnbalancedSplitError struct {
	Key  string
	Legs []types.Split
	Sum  decimal.Decimal
}

func (e *UnbalancedSplitError) Error() string {
	return fmt.Sprintf("split group %q: %d legs sum to %s, expected zero",
		e.Key, len(e.Legs), e.Sum.String())
}

// IncompleteSplitError reports a split group with fewer than two legs,
// typically because the input ended mid-group.
type IncompleteSplitError struct {
	Key  string
	Legs int
}

func (e *IncompleteSplitError) Error() string {
	return fmt.Sprintf("split group %q has %d leg(s); at least 2 required", e.Key, e.Legs)
}
