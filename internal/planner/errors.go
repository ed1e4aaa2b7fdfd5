package planner

import (
	"fmt"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

// InvalidBudgetError rejects a non-positive (or non-finite) total budget.
type InvalidBudgetError struct {
	Budget float64
}

func (e *InvalidBudgetError) Error() string {
	return fmt.Sprintf("total budget %.2f is invalid: must be a positive amount", e.Budget)
}

// InvalidDateRangeError rejects a trip window shorter than one night or with
// end not after start.
type InvalidDateRangeError struct {
	Start types.Date
	End   types.Date
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("date range %s to %s is invalid: trip must cover at least one night", e.Start, e.End)
}

// BudgetTooLowError reports a budget whose allocation leaves some category
// below its viability floor for the trip length.
type BudgetTooLowError struct {
	Category  types.Category
	Allocated float64
	Floor     float64
}

func (e *BudgetTooLowError) Error() string {
	return fmt.Sprintf("budget too low: %s allocation %.2f is below the %.2f floor for this trip length", e.Category, e.Allocated, e.Floor)
}

// NoViableItineraryError means a required category ended up with an empty
// validated pool for some day, so no complete itinerary can exist.
type NoViableItineraryError struct {
	Category types.Category
	Date     types.Date
}

func (e *NoViableItineraryError) Error() string {
	return fmt.Sprintf("no viable itinerary: every %s candidate for %s was rejected", e.Category, e.Date)
}

// InsufficientOptionsError means the full candidate space holds fewer than
// BundleCount budget-compliant, pairwise-distinct bundles.
type InsufficientOptionsError struct {
	Found int
}

func (e *InsufficientOptionsError) Error() string {
	return fmt.Sprintf("only %d distinct itinerary option(s) fit the budget, need %d", e.Found, BundleCount)
}
