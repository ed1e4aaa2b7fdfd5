package planner

import "github.com/voyaiger/voyaiger-server/internal/types"

// BundleCount is the number of options every successful plan returns.
const BundleCount = 3

// priceEpsilon absorbs float noise in budget comparisons. A candidate priced
// exactly at its ceiling is in budget.
const priceEpsilon = 1e-9

// CategoryConfig is one row of the allocation table.
type CategoryConfig struct {
	// Ratio is the category's share of the total budget.
	Ratio float64
	// FloorPerDay is the minimum viable sub-budget per planned day (per
	// night for hotels). Allocations below floor*days fail with
	// BudgetTooLowError.
	FloorPerDay float64
	// Required aborts composition when the category has no valid candidate
	// for some day. Hotels are always required regardless of this flag.
	Required bool
}

// Config is the planner's tuning table.
//
//	category      ratio   floor/day   required
//	hotel         0.50    25.00       always
//	attraction    0.20     0.00       yes
//	food          0.25    15.00       yes
//
// The ratios leave 5% of the budget as contingency slack for taxes and fees.
type Config struct {
	Categories map[types.Category]CategoryConfig

	// HotelNightlyShare caps the per-night hotel spend at this share of the
	// total budget. On short trips the cap undercuts the hotel ratio and the
	// freed share is folded into attractions and food, so a one-night trip
	// does not sink half its budget into a single night.
	HotelNightlyShare float64

	// MealsPerDay multiplies a food candidate's per-meal price into its
	// daily cost.
	MealsPerDay int

	// FitWeight and QualityWeight blend a candidate's price-to-budget fit
	// and its rating into the ranking score. Fit dominates.
	FitWeight     float64
	QualityWeight float64
}

func DefaultConfig() Config {
	return Config{
		Categories: map[types.Category]CategoryConfig{
			types.CategoryHotel:      {Ratio: 0.50, FloorPerDay: 25, Required: true},
			types.CategoryAttraction: {Ratio: 0.20, FloorPerDay: 0, Required: true},
			types.CategoryFood:       {Ratio: 0.25, FloorPerDay: 15, Required: true},
		},
		HotelNightlyShare: 0.15,
		MealsPerDay:       3,
		FitWeight:         0.7,
		QualityWeight:     0.3,
	}
}

func (c Config) category(cat types.Category) CategoryConfig {
	return c.Categories[cat]
}
