package planner

import (
	"math"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

// Allocate splits totalBudget into per-category sub-budgets for a trip of
// durationDays nights using the configured ratio table.
//
// The hotel share is capped at HotelNightlyShare of the budget per night;
// whatever the cap frees on short trips is redistributed to attractions and
// food in proportion to their ratios, so the contingency slack is preserved
// and the sub-budgets never sum above totalBudget.
func (p *Planner) Allocate(totalBudget float64, durationDays int) (types.BudgetAllocation, error) {
	if totalBudget <= 0 || math.IsNaN(totalBudget) || math.IsInf(totalBudget, 0) {
		return types.BudgetAllocation{}, &InvalidBudgetError{Budget: totalBudget}
	}
	if durationDays < 1 {
		return types.BudgetAllocation{}, &InvalidDateRangeError{}
	}

	days := float64(durationDays)
	hotelCfg := p.cfg.category(types.CategoryHotel)
	attrCfg := p.cfg.category(types.CategoryAttraction)
	foodCfg := p.cfg.category(types.CategoryFood)

	hotel := totalBudget * hotelCfg.Ratio
	attractions := totalBudget * attrCfg.Ratio
	food := totalBudget * foodCfg.Ratio

	if cap := totalBudget * p.cfg.HotelNightlyShare * days; cap < hotel {
		freed := hotel - cap
		hotel = cap
		if split := attrCfg.Ratio + foodCfg.Ratio; split > 0 {
			attractions += freed * attrCfg.Ratio / split
			food += freed * foodCfg.Ratio / split
		}
	}

	alloc := types.BudgetAllocation{
		Hotel:       hotel,
		Attractions: attractions,
		Food:        food,
		Contingency: totalBudget - hotel - attractions - food,
	}
	if alloc.Contingency < 0 {
		alloc.Contingency = 0
	}

	for _, cat := range types.Categories {
		floor := p.cfg.category(cat).FloorPerDay * days
		if allocated := alloc.ForCategory(cat); allocated < floor {
			return types.BudgetAllocation{}, &BudgetTooLowError{Category: cat, Allocated: allocated, Floor: floor}
		}
	}
	return alloc, nil
}
