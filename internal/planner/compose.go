package planner

import (
	"sort"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

// SkeletonDay is one day of a skeleton: the day's attraction and food picks.
// A nil pick means the category is configured optional and had no valid
// candidate that day.
type SkeletonDay struct {
	Date       types.Date
	Attraction *ValidatedCandidate
	Food       *ValidatedCandidate
}

// Skeleton is one fully-specified itinerary candidate before budget screening:
// a hotel for the stay plus a pick per category per day.
type Skeleton struct {
	Hotel ValidatedCandidate
	Days  []SkeletonDay
}

// TotalCost sums the hotel stay and every day's picks.
func (s Skeleton) TotalCost() float64 {
	total := s.Hotel.StayCost
	for _, d := range s.Days {
		if d.Attraction != nil {
			total += d.Attraction.DailyCost
		}
		if d.Food != nil {
			total += d.Food.DailyCost
		}
	}
	return total
}

// Composer is a lazy, restartable cursor over the finite skeleton space.
// Emission order is deterministic and best-first:
//
//  1. Rank-matched tiers: skeleton k pairs the k-th ranked hotel with
//     rotation k through each day's ranked pools, so the first skeletons
//     combine like-ranked candidates (best with best, mid with mid).
//  2. The full cross-product of hotel x attraction-rotation x food-rotation
//     in index order, for when the tier diagonal alone cannot yield enough
//     distinct in-budget bundles.
//
// Rotating through a day pool instead of indexing it keeps consecutive days
// on different picks. The same skeleton can appear in both phases; the
// selector deduplicates by signature.
type Composer struct {
	dates  []types.Date
	hotels []ValidatedCandidate
	// attractions[i] and food[i] are day i's pools, ranked best-first.
	attractions [][]ValidatedCandidate
	food        [][]ValidatedCandidate

	tiers   int
	aShifts int
	fShifts int
	pos     int
}

// Compose ranks the pools and verifies every required category has at least
// one valid candidate for every day, then returns the cursor positioned at
// the first skeleton.
func (p *Planner) Compose(pools CandidatePools, trip Trip) (*Composer, error) {
	dates := trip.Dates()
	if len(pools.Hotels) == 0 {
		return nil, &NoViableItineraryError{Category: types.CategoryHotel, Date: trip.dates.Start}
	}

	attractions, err := p.rankDayPools(types.CategoryAttraction, pools.AttractionsByDay, dates)
	if err != nil {
		return nil, err
	}
	food, err := p.rankDayPools(types.CategoryFood, pools.FoodByDay, dates)
	if err != nil {
		return nil, err
	}

	c := &Composer{
		dates:       dates,
		hotels:      rankPool(pools.Hotels),
		attractions: attractions,
		food:        food,
	}
	c.tiers = max(len(c.hotels), maxPoolLen(c.attractions), maxPoolLen(c.food))
	c.aShifts = max(1, maxPoolLen(c.attractions))
	c.fShifts = max(1, maxPoolLen(c.food))
	return c, nil
}

// rankDayPools ranks each day's pool, failing on the first empty day when the
// category is required. Days beyond the provided pools count as empty.
func (p *Planner) rankDayPools(cat types.Category, byDay [][]ValidatedCandidate, dates []types.Date) ([][]ValidatedCandidate, error) {
	required := p.cfg.category(cat).Required
	ranked := make([][]ValidatedCandidate, len(dates))
	for i, date := range dates {
		var pool []ValidatedCandidate
		if i < len(byDay) {
			pool = byDay[i]
		}
		if len(pool) == 0 {
			if required {
				return nil, &NoViableItineraryError{Category: cat, Date: date}
			}
			continue
		}
		ranked[i] = rankPool(pool)
	}
	return ranked, nil
}

// rankPool copies the pool sorted by score descending. The stable sort keeps
// source order on ties, so rankings are reproducible.
func rankPool(pool []ValidatedCandidate) []ValidatedCandidate {
	ranked := make([]ValidatedCandidate, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func maxPoolLen(byDay [][]ValidatedCandidate) int {
	longest := 0
	for _, pool := range byDay {
		longest = max(longest, len(pool))
	}
	return longest
}

// Next returns the next skeleton in emission order, advancing the cursor.
func (c *Composer) Next() (Skeleton, bool) {
	i := c.pos
	if i >= c.tiers+len(c.hotels)*c.aShifts*c.fShifts {
		return Skeleton{}, false
	}
	c.pos++
	if i < c.tiers {
		return c.skeletonAt(min(i, len(c.hotels)-1), i, i), true
	}
	i -= c.tiers
	hotel := i / (c.aShifts * c.fShifts)
	rem := i % (c.aShifts * c.fShifts)
	return c.skeletonAt(hotel, rem/c.fShifts, rem%c.fShifts), true
}

// Restart rewinds the cursor to the first skeleton.
func (c *Composer) Restart() {
	c.pos = 0
}

func (c *Composer) skeletonAt(hotel, aShift, fShift int) Skeleton {
	days := make([]SkeletonDay, len(c.dates))
	for d := range c.dates {
		day := SkeletonDay{Date: c.dates[d]}
		if pool := c.attractions[d]; len(pool) > 0 {
			pick := pool[(aShift+d)%len(pool)]
			day.Attraction = &pick
		}
		if pool := c.food[d]; len(pool) > 0 {
			pick := pool[(fShift+d)%len(pool)]
			day.Food = &pick
		}
		days[d] = day
	}
	return Skeleton{Hotel: c.hotels[hotel], Days: days}
}
