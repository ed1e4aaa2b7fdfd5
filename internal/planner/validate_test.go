package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

func TestPlanner_ValidateCandidate(t *testing.T) {
	p := New(DefaultConfig())
	trip := testTrip(t, "2025-06-01", 6)
	// Ceilings: hotel 100/night, attractions 50/day, food 90/day (30/meal).
	alloc := types.BudgetAllocation{Hotel: 600, Attractions: 300, Food: 540}

	t.Run("hotel at the exact ceiling is in budget", func(t *testing.T) {
		vc, rej := p.ValidateCandidate(hotelCandidate("Boundary Hotel", 100, 4.0, 6), trip, alloc)
		require.Nil(t, rej)
		assert.InDelta(t, 100, vc.DailyCost, 1e-9)
		assert.InDelta(t, 600, vc.StayCost, 1e-9)
	})

	t.Run("hotel a cent over the ceiling is rejected", func(t *testing.T) {
		_, rej := p.ValidateCandidate(hotelCandidate("Pricey Hotel", 100.01, 4.0, 6), trip, alloc)
		require.NotNil(t, rej)
		assert.Equal(t, RejectOverBudget, rej.Reason)
	})

	t.Run("hotel that cannot cover the stay is rejected", func(t *testing.T) {
		_, rej := p.ValidateCandidate(hotelCandidate("Partial Hotel", 80, 4.0, 4), trip, alloc)
		require.NotNil(t, rej)
		assert.Equal(t, RejectMissingCoverage, rej.Reason)
		assert.Contains(t, rej.Detail, "4 of 6 nights")
	})

	t.Run("non-positive prices are rejected per category", func(t *testing.T) {
		cases := []types.Candidate{
			hotelCandidate("Free Hotel", 0, 4.0, 6),
			attractionCandidate("Negative Museum", -5, 4.0),
			foodCandidate("Zero Cafe", 0, 4.0),
		}
		for _, c := range cases {
			_, rej := p.ValidateCandidate(c, trip, alloc)
			require.NotNil(t, rej, "candidate %s", c.Name)
			assert.Equal(t, RejectInvalidPrice, rej.Reason)
		}
	})

	t.Run("food daily cost multiplies meals per day", func(t *testing.T) {
		vc, rej := p.ValidateCandidate(foodCandidate("Ok Bistro", 30, 4.0), trip, alloc)
		require.Nil(t, rej)
		assert.InDelta(t, 90, vc.DailyCost, 1e-9)

		_, rej = p.ValidateCandidate(foodCandidate("Dear Bistro", 30.5, 4.0), trip, alloc)
		require.NotNil(t, rej)
		assert.Equal(t, RejectOverBudget, rej.Reason)
	})

	t.Run("unknown category is rejected, not dropped silently", func(t *testing.T) {
		_, rej := p.ValidateCandidate(types.Candidate{Category: "spa", Name: "Thermal Baths", Price: 40}, trip, alloc)
		require.NotNil(t, rej)
		assert.Equal(t, RejectInvalidPrice, rej.Reason)
		assert.Contains(t, rej.Detail, "unknown category")
	})

	t.Run("cheaper candidate outscores at equal rating", func(t *testing.T) {
		cheap, rej := p.ValidateCandidate(attractionCandidate("Cheap", 10, 4.0), trip, alloc)
		require.Nil(t, rej)
		dear, rej := p.ValidateCandidate(attractionCandidate("Dear", 45, 4.0), trip, alloc)
		require.Nil(t, rej)
		assert.Greater(t, cheap.Score, dear.Score)
	})

	t.Run("better rating outscores at equal price", func(t *testing.T) {
		loved, rej := p.ValidateCandidate(attractionCandidate("Loved", 20, 4.9), trip, alloc)
		require.Nil(t, rej)
		meh, rej := p.ValidateCandidate(attractionCandidate("Meh", 20, 2.1), trip, alloc)
		require.Nil(t, rej)
		assert.Greater(t, loved.Score, meh.Score)
	})
}

func TestPlanner_ValidatePool(t *testing.T) {
	p := New(DefaultConfig())
	trip := testTrip(t, "2025-06-01", 6)
	alloc := types.BudgetAllocation{Hotel: 600, Attractions: 300, Food: 540}

	cands := []types.Candidate{
		attractionCandidate("Keep One", 20, 4.0),
		attractionCandidate("Too Dear", 80, 4.9),
		attractionCandidate("Keep Two", 35, 4.2),
		attractionCandidate("Broken", -1, 4.0),
	}
	valid, rejections := p.ValidatePool(cands, trip, alloc)

	require.Len(t, valid, 2)
	assert.Equal(t, "Keep One", valid[0].Candidate.Name)
	assert.Equal(t, "Keep Two", valid[1].Candidate.Name)

	require.Len(t, rejections, 2)
	assert.Equal(t, RejectOverBudget, rejections[0].Reason)
	assert.Equal(t, "Too Dear", rejections[0].Candidate.Name)
	assert.Equal(t, RejectInvalidPrice, rejections[1].Reason)
	assert.Equal(t, "Broken", rejections[1].Candidate.Name)
}

func TestPlanner_BuildPools(t *testing.T) {
	p := New(DefaultConfig())
	trip := testTrip(t, "2025-06-01", 4)
	alloc := types.BudgetAllocation{Hotel: 400, Attractions: 200, Food: 360}

	hotels := []types.Candidate{hotelCandidate("Stay Here", 90, 4.1, 4)}
	attractions := []types.Candidate{attractionCandidate("See This", 15, 4.3)}
	food := []types.Candidate{foodCandidate("Eat Here", 18, 4.0)}

	pools, rejections := p.BuildPools(trip, alloc, hotels, attractions, food)
	assert.Empty(t, rejections)
	require.Len(t, pools.Hotels, 1)
	require.Len(t, pools.AttractionsByDay, 4)
	require.Len(t, pools.FoodByDay, 4)
	for day := 0; day < 4; day++ {
		assert.Len(t, pools.AttractionsByDay[day], 1)
		assert.Len(t, pools.FoodByDay[day], 1)
	}
}
