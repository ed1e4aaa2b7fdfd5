package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
)

// PickIndices asks the model to choose entries from a numbered list the
// prompt carries and parses its {"picks": [...]} reply. Indices outside
// [0, n) are dropped and duplicates collapse to the first occurrence, so the
// result is safe to index with directly.
func PickIndices(ctx context.Context, g Generator, prompt string, n int) ([]int, error) {
	response, err := g.GenerateResponse(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate picks: %w", err)
	}

	var reply struct {
		Picks []int `json:"picks"`
	}
	if err := json.Unmarshal([]byte(CleanJSONResponse(response)), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse picks JSON: %w", err)
	}

	seen := make(map[int]bool, len(reply.Picks))
	picks := make([]int, 0, len(reply.Picks))
	for _, idx := range reply.Picks {
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		picks = append(picks, idx)
	}
	return picks, nil
}
