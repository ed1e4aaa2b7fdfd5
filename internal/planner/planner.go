// Package planner turns a trip request plus raw candidate lists into exactly
// three costed, budget-compliant itinerary bundles.
//
// The package is pure: no I/O, no clocks, no randomness, no shared mutable
// state. Every function is deterministic for a given input and configuration,
// so the HTTP layer can cache responses and tests can assert exact output.
// Fetching candidates (and any concurrency around that) is the caller's job.
package planner

import (
	"github.com/voyaiger/voyaiger-server/internal/types"
)

// Planner runs the allocate -> validate -> compose -> select pipeline for one
// configuration. A single Planner is safe for concurrent use.
type Planner struct {
	cfg Config
}

func New(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Trip is a validated trip window. Construct with NewTrip.
type Trip struct {
	dates types.DateRange
	days  []types.Date
}

// NewTrip validates the window and precomputes the planned dates. The range is
// half-open: a 2025-06-01 to 2025-06-07 trip has six nights and six planned
// days.
func NewTrip(dates types.DateRange) (Trip, error) {
	nights := dates.Nights()
	if dates.Start.IsZero() || dates.End.IsZero() || nights < 1 {
		return Trip{}, &InvalidDateRangeError{Start: dates.Start, End: dates.End}
	}
	return Trip{dates: dates, days: dates.Dates()}, nil
}

// Nights is the trip length in nights, equal to the number of planned days.
func (t Trip) Nights() int {
	return len(t.days)
}

// Dates lists the planned days in order.
func (t Trip) Dates() []types.Date {
	return t.days
}

// Plan runs the whole pipeline. Rejections are returned alongside the result
// (or the error) so callers can log why candidates were discarded; rejections
// alone never fail a request.
func (p *Planner) Plan(trip Trip, totalBudget float64, hotels, attractions, food []types.Candidate) (*types.ItineraryOptionsResult, []Rejection, error) {
	alloc, err := p.Allocate(totalBudget, trip.Nights())
	if err != nil {
		return nil, nil, err
	}
	pools, rejections := p.BuildPools(trip, alloc, hotels, attractions, food)
	composer, err := p.Compose(pools, trip)
	if err != nil {
		return nil, rejections, err
	}
	options, err := p.SelectBundles(composer, totalBudget)
	if err != nil {
		return nil, rejections, err
	}
	return &types.ItineraryOptionsResult{Allocation: alloc, Options: options}, rejections, nil
}
