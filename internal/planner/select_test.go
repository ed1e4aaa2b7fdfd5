package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

func TestPlanner_SelectBundles(t *testing.T) {
	p := New(DefaultConfig())
	trip := testTrip(t, "2025-06-01", 2)
	alloc := types.BudgetAllocation{Hotel: 400, Attractions: 120, Food: 240}

	hotels := []types.Candidate{
		hotelCandidate("H0", 90, 4.5, 2),
		hotelCandidate("H1", 120, 4.2, 2),
		hotelCandidate("H2", 150, 4.0, 2),
	}
	attractions := []types.Candidate{
		attractionCandidate("A0", 18, 4.4),
		attractionCandidate("A1", 25, 4.1),
	}
	food := []types.Candidate{
		foodCandidate("F0", 15, 4.3),
		foodCandidate("F1", 20, 4.0),
	}

	t.Run("returns exactly three distinct compliant bundles", func(t *testing.T) {
		composer, err := p.Compose(buildTestPools(t, p, trip, alloc, hotels, attractions, food), trip)
		require.NoError(t, err)

		options, err := p.SelectBundles(composer, 1000)
		require.NoError(t, err)
		require.Len(t, options, BundleCount)

		seen := make(map[string]bool)
		for _, opt := range options {
			assert.LessOrEqual(t, opt.TotalCost, 1000.0)
			assert.False(t, seen[opt.Signature])
			seen[opt.Signature] = true
		}
	})

	t.Run("selection is idempotent on the same composer", func(t *testing.T) {
		composer, err := p.Compose(buildTestPools(t, p, trip, alloc, hotels, attractions, food), trip)
		require.NoError(t, err)

		first, err := p.SelectBundles(composer, 1000)
		require.NoError(t, err)
		second, err := p.SelectBundles(composer, 1000)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("bundle at the exact budget is compliant", func(t *testing.T) {
		// Every bundle costs 90*2 + 18*2 + 15*3*2 = 306 with a single
		// attraction and restaurant; three hotels priced alike give three
		// distinct options at exactly the budget.
		exactHotels := []types.Candidate{
			hotelCandidate("E0", 90, 4.0, 2),
			hotelCandidate("E1", 90, 4.0, 2),
			hotelCandidate("E2", 90, 4.0, 2),
		}
		exactAttractions := []types.Candidate{attractionCandidate("A", 18, 4.0)}
		exactFood := []types.Candidate{foodCandidate("F", 15, 4.0)}

		composer, err := p.Compose(buildTestPools(t, p, trip, alloc, exactHotels, exactAttractions, exactFood), trip)
		require.NoError(t, err)

		options, err := p.SelectBundles(composer, 306)
		require.NoError(t, err)
		require.Len(t, options, BundleCount)
		for _, opt := range options {
			assert.InDelta(t, 306, opt.TotalCost, 1e-9)
			assert.InDelta(t, 0, opt.RemainingBudget, 1e-9)
		}
	})

	t.Run("tight budget filters combinations", func(t *testing.T) {
		composer, err := p.Compose(buildTestPools(t, p, trip, alloc, hotels, attractions, food), trip)
		require.NoError(t, err)

		// Only the cheapest hotel fits: 90*2=180 hotel + cheapest days
		// still beat the pricier hotels' base cost.
		options, err := p.SelectBundles(composer, 330)
		if err != nil {
			var insufficient *InsufficientOptionsError
			require.ErrorAs(t, err, &insufficient)
			assert.Less(t, insufficient.Found, BundleCount)
			return
		}
		for _, opt := range options {
			assert.LessOrEqual(t, opt.TotalCost, 330.0)
			assert.Equal(t, "H0", opt.Hotel.Name)
		}
	})

	t.Run("reports how many options were found", func(t *testing.T) {
		composer, err := p.Compose(buildTestPools(t, p, trip, alloc,
			[]types.Candidate{hotelCandidate("Solo", 90, 4.0, 2)},
			[]types.Candidate{attractionCandidate("A", 18, 4.0)},
			[]types.Candidate{foodCandidate("F", 15, 4.0)},
		), trip)
		require.NoError(t, err)

		_, err = p.SelectBundles(composer, 1000)
		var insufficient *InsufficientOptionsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 1, insufficient.Found)
	})

	t.Run("day plans carry their share of the cost", func(t *testing.T) {
		composer, err := p.Compose(buildTestPools(t, p, trip, alloc, hotels, attractions, food), trip)
		require.NoError(t, err)

		options, err := p.SelectBundles(composer, 1000)
		require.NoError(t, err)

		opt := options[0]
		require.Len(t, opt.Days, 2)
		daySum := 0.0
		for _, day := range opt.Days {
			require.NotNil(t, day.Attraction)
			require.NotNil(t, day.Food)
			expected := opt.Hotel.Price + day.Attraction.Price + day.Food.Price*3
			assert.InDelta(t, expected, day.Cost, 1e-9)
			daySum += day.Cost
		}
		assert.InDelta(t, opt.TotalCost, daySum, 1e-9)
	})
}
