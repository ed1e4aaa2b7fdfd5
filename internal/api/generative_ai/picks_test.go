package generativeAI

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestPickIndices(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a plain reply", func(t *testing.T) {
		g := &stubGenerator{response: `{"picks": [2, 0, 4]}`}
		picks, err := PickIndices(ctx, g, "choose", 5)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 0, 4}, picks)
	})

	t.Run("parses a fenced reply", func(t *testing.T) {
		g := &stubGenerator{response: "```json\n{\"picks\": [1, 3]}\n```"}
		picks, err := PickIndices(ctx, g, "choose", 5)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, picks)
	})

	t.Run("drops out-of-range and duplicate indices", func(t *testing.T) {
		g := &stubGenerator{response: `{"picks": [0, 7, -1, 0, 2]}`}
		picks, err := PickIndices(ctx, g, "choose", 3)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 2}, picks)
	})

	t.Run("propagates generator errors", func(t *testing.T) {
		g := &stubGenerator{err: errors.New("quota exceeded")}
		_, err := PickIndices(ctx, g, "choose", 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("errors on non-JSON chatter", func(t *testing.T) {
		g := &stubGenerator{response: "I would pick the first two."}
		_, err := PickIndices(ctx, g, "choose", 3)
		assert.Error(t, err)
	})
}
