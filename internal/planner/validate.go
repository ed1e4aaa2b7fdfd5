package planner

import (
	"fmt"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

// RejectionReason codes why a candidate was screened out. Rejections are
// request data, not errors: the pool shrinks and planning continues.
type RejectionReason string

const (
	RejectOverBudget      RejectionReason = "OverBudget"
	RejectMissingCoverage RejectionReason = "MissingCoverage"
	RejectInvalidPrice    RejectionReason = "InvalidPrice"
)

// Rejection records one screened-out candidate with a machine-readable reason
// and a human-readable detail.
type Rejection struct {
	Candidate types.Candidate `json:"candidate"`
	Reason    RejectionReason `json:"reason"`
	Detail    string          `json:"detail"`
}

// ValidatedCandidate is a candidate that passed its category's screen,
// pre-costed against the trip so composition never re-derives prices.
type ValidatedCandidate struct {
	Candidate types.Candidate
	// DailyCost is what picking the candidate adds to one day plan: the
	// nightly rate for hotels, the entry price for attractions, the
	// per-meal price times meals per day for food.
	DailyCost float64
	// StayCost is DailyCost summed over the whole trip.
	StayCost float64
	// Score ranks the candidate inside its pool, higher first. Ties keep
	// source order.
	Score float64
}

// categoryRule is one row of the per-category behavior table. Adding a
// category means adding a row here, not a type.
type categoryRule struct {
	// sanity screens the candidate before any budget math.
	sanity func(c types.Candidate, nights int) *Rejection
	// dailyCost converts the candidate's price basis into cost per day.
	dailyCost func(cfg Config, c types.Candidate) float64
	// dailyCeiling is the largest dailyCost the sub-budget tolerates.
	dailyCeiling func(alloc types.BudgetAllocation, nights int) float64
}

func positivePrice(c types.Candidate, _ int) *Rejection {
	if c.Price <= 0 {
		return &Rejection{
			Candidate: c,
			Reason:    RejectInvalidPrice,
			Detail:    fmt.Sprintf("price %.2f must be positive", c.Price),
		}
	}
	return nil
}

var categoryRules = map[types.Category]categoryRule{
	types.CategoryHotel: {
		sanity: func(c types.Candidate, nights int) *Rejection {
			if rej := positivePrice(c, nights); rej != nil {
				return rej
			}
			if c.StayNights < nights {
				return &Rejection{
					Candidate: c,
					Reason:    RejectMissingCoverage,
					Detail:    fmt.Sprintf("quote covers %d of %d nights", c.StayNights, nights),
				}
			}
			return nil
		},
		dailyCost: func(_ Config, c types.Candidate) float64 { return c.Price },
		dailyCeiling: func(alloc types.BudgetAllocation, nights int) float64 {
			return alloc.Hotel / float64(nights)
		},
	},
	types.CategoryAttraction: {
		sanity:    positivePrice,
		dailyCost: func(_ Config, c types.Candidate) float64 { return c.Price },
		dailyCeiling: func(alloc types.BudgetAllocation, nights int) float64 {
			return alloc.Attractions / float64(nights)
		},
	},
	types.CategoryFood: {
		sanity: positivePrice,
		dailyCost: func(cfg Config, c types.Candidate) float64 {
			return c.Price * float64(cfg.MealsPerDay)
		},
		dailyCeiling: func(alloc types.BudgetAllocation, nights int) float64 {
			return alloc.Food / float64(nights)
		},
	},
}

// ValidateCandidate screens one candidate against its category's rules and the
// allocation. It is pure; the candidate is read, never modified.
func (p *Planner) ValidateCandidate(c types.Candidate, trip Trip, alloc types.BudgetAllocation) (ValidatedCandidate, *Rejection) {
	rule, ok := categoryRules[c.Category]
	if !ok {
		return ValidatedCandidate{}, &Rejection{
			Candidate: c,
			Reason:    RejectInvalidPrice,
			Detail:    fmt.Sprintf("unknown category %q", c.Category),
		}
	}
	if rej := rule.sanity(c, trip.Nights()); rej != nil {
		return ValidatedCandidate{}, rej
	}

	daily := rule.dailyCost(p.cfg, c)
	ceiling := rule.dailyCeiling(alloc, trip.Nights())
	if daily-ceiling > priceEpsilon {
		return ValidatedCandidate{}, &Rejection{
			Candidate: c,
			Reason:    RejectOverBudget,
			Detail:    fmt.Sprintf("daily cost %.2f exceeds the %.2f %s ceiling", daily, ceiling, c.Category),
		}
	}
	return ValidatedCandidate{
		Candidate: c,
		DailyCost: daily,
		StayCost:  daily * float64(trip.Nights()),
		Score:     p.score(c, daily, ceiling),
	}, nil
}

// score blends price-to-budget fit with the candidate's rating. A candidate
// well under its ceiling with a strong rating scores highest.
func (p *Planner) score(c types.Candidate, daily, ceiling float64) float64 {
	fit := 0.0
	if ceiling > 0 {
		fit = 1 - daily/ceiling
		if fit < 0 {
			fit = 0
		}
	}
	quality := c.Rating / 5
	if quality > 1 {
		quality = 1
	}
	return p.cfg.FitWeight*fit + p.cfg.QualityWeight*quality
}

// ValidatePool screens a whole candidate list, preserving input order in both
// outputs.
func (p *Planner) ValidatePool(cands []types.Candidate, trip Trip, alloc types.BudgetAllocation) ([]ValidatedCandidate, []Rejection) {
	valid := make([]ValidatedCandidate, 0, len(cands))
	var rejections []Rejection
	for _, c := range cands {
		vc, rej := p.ValidateCandidate(c, trip, alloc)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		valid = append(valid, vc)
	}
	return valid, rejections
}

// CandidatePools carries the validated, per-day candidate pools the composer
// draws from. Attraction and food pools are per planned day; today's data
// sources quote one pool valid for every day, but day-specific pools are
// supported.
type CandidatePools struct {
	Hotels           []ValidatedCandidate
	AttractionsByDay [][]ValidatedCandidate
	FoodByDay        [][]ValidatedCandidate
}

// BuildPools validates the three raw candidate lists and spreads the
// attraction and food pools across the trip days.
func (p *Planner) BuildPools(trip Trip, alloc types.BudgetAllocation, hotels, attractions, food []types.Candidate) (CandidatePools, []Rejection) {
	var all []Rejection

	validHotels, rejs := p.ValidatePool(hotels, trip, alloc)
	all = append(all, rejs...)
	validAttractions, rejs := p.ValidatePool(attractions, trip, alloc)
	all = append(all, rejs...)
	validFood, rejs := p.ValidatePool(food, trip, alloc)
	all = append(all, rejs...)

	nights := trip.Nights()
	pools := CandidatePools{
		Hotels:           validHotels,
		AttractionsByDay: make([][]ValidatedCandidate, nights),
		FoodByDay:        make([][]ValidatedCandidate, nights),
	}
	for i := 0; i < nights; i++ {
		pools.AttractionsByDay[i] = validAttractions
		pools.FoodByDay[i] = validFood
	}
	return pools, all
}
