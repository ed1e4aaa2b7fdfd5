package planner

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/voyaiger/voyaiger-server/internal/types"
)

// SelectBundles consumes the composer until it has BundleCount bundles that
// fit the total budget and are pairwise distinct by signature, then stops.
// Because the composer emits best-ranked combinations first, the first three
// survivors are also the highest-quality ones.
//
// Identical inputs always yield the same bundles in the same order. If the
// whole skeleton space holds fewer than BundleCount compliant distinct
// bundles, the error reports how many were found; the planner never retries
// or relaxes constraints on its own.
func (p *Planner) SelectBundles(c *Composer, totalBudget float64) ([]types.ItineraryBundle, error) {
	c.Restart()
	seen := make(map[string]struct{})
	options := make([]types.ItineraryBundle, 0, BundleCount)
	for {
		sk, ok := c.Next()
		if !ok {
			break
		}
		cost := sk.TotalCost()
		if cost-totalBudget > priceEpsilon {
			continue
		}
		sig := sk.signature()
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		options = append(options, buildBundle(sk, totalBudget, cost, sig))
		if len(options) == BundleCount {
			return options, nil
		}
	}
	return nil, &InsufficientOptionsError{Found: len(options)}
}

// signature fingerprints the exact candidate set in day order. Two skeletons
// that pick the same candidates for the same slots share a signature no
// matter how the cursor reached them.
func (s Skeleton) signature() string {
	h := fnv.New64a()
	write := func(c types.Candidate) {
		fmt.Fprintf(h, "%s|%s|%.2f;", c.Category, c.Name, c.Price)
	}
	write(s.Hotel.Candidate)
	for _, d := range s.Days {
		if d.Attraction != nil {
			write(d.Attraction.Candidate)
		}
		if d.Food != nil {
			write(d.Food.Candidate)
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func buildBundle(sk Skeleton, totalBudget, totalCost float64, sig string) types.ItineraryBundle {
	days := make([]types.DayPlan, len(sk.Days))
	for i, d := range sk.Days {
		plan := types.DayPlan{Date: d.Date, Cost: sk.Hotel.DailyCost}
		if d.Attraction != nil {
			pick := d.Attraction.Candidate
			plan.Attraction = &pick
			plan.Cost += d.Attraction.DailyCost
		}
		if d.Food != nil {
			pick := d.Food.Candidate
			plan.Food = &pick
			plan.Cost += d.Food.DailyCost
		}
		days[i] = plan
	}
	return types.ItineraryBundle{
		Hotel:           sk.Hotel.Candidate,
		Days:            days,
		TotalCost:       totalCost,
		RemainingBudget: totalBudget - totalCost,
		Signature:       sig,
	}
}
