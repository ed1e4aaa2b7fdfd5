package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

func TestPlanner_Allocate(t *testing.T) {
	p := New(DefaultConfig())

	t.Run("nominal split keeps the ratio table", func(t *testing.T) {
		alloc, err := p.Allocate(2000, 6)
		require.NoError(t, err)

		assert.InDelta(t, 1000, alloc.Hotel, 1e-9)
		assert.InDelta(t, 400, alloc.Attractions, 1e-9)
		assert.InDelta(t, 500, alloc.Food, 1e-9)
		assert.InDelta(t, 100, alloc.Contingency, 1e-9)
	})

	t.Run("short trip caps the hotel share", func(t *testing.T) {
		// One night: the nightly cap (15% of budget) undercuts the 50%
		// ratio and the difference flows to attractions and food.
		alloc, err := p.Allocate(2000, 1)
		require.NoError(t, err)

		assert.InDelta(t, 300, alloc.Hotel, 1e-9)
		assert.InDelta(t, 400+700*0.20/0.45, alloc.Attractions, 1e-6)
		assert.InDelta(t, 500+700*0.25/0.45, alloc.Food, 1e-6)
		assert.InDelta(t, 100, alloc.Contingency, 1e-6)
	})

	t.Run("invalid budget", func(t *testing.T) {
		for _, budget := range []float64{0, -250} {
			_, err := p.Allocate(budget, 3)
			var invalid *InvalidBudgetError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, budget, invalid.Budget)
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := p.Allocate(1500, 0)
		var invalid *InvalidDateRangeError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("budget below the hotel floor", func(t *testing.T) {
		// 100 over two nights allocates 30 to the hotel after the nightly
		// cap, under the 25-per-night floor.
		_, err := p.Allocate(100, 2)
		var tooLow *BudgetTooLowError
		require.ErrorAs(t, err, &tooLow)
		assert.Equal(t, types.CategoryHotel, tooLow.Category)
		assert.InDelta(t, 30, tooLow.Allocated, 1e-9)
		assert.InDelta(t, 50, tooLow.Floor, 1e-9)
	})

	t.Run("allocation never exceeds the total", func(t *testing.T) {
		for _, budget := range []float64{150, 499.99, 1000, 8250.50, 100000} {
			for _, days := range []int{1, 2, 3, 7, 14, 30, 365} {
				alloc, err := p.Allocate(budget, days)
				if err != nil {
					// Floors may legitimately reject small budgets on
					// long trips.
					var tooLow *BudgetTooLowError
					require.ErrorAs(t, err, &tooLow, "budget %.2f days %d", budget, days)
					continue
				}
				sum := alloc.Sum() + alloc.Contingency
				assert.LessOrEqual(t, sum, budget+1e-9, "budget %.2f days %d", budget, days)
				assert.GreaterOrEqual(t, alloc.Hotel, 0.0)
				assert.GreaterOrEqual(t, alloc.Attractions, 0.0)
				assert.GreaterOrEqual(t, alloc.Food, 0.0)
				assert.GreaterOrEqual(t, alloc.Contingency, 0.0)
			}
		}
	})
}
