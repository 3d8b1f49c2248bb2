package chart

import (
	"testing"
	"time"

	"studypulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScoreProgression(t *testing.T) {
	renderer := NewEchartsRenderer()

	t.Run("EmptyPoints", func(t *testing.T) {
		out, err := renderer.RenderScoreProgression(nil)
		assert.Error(t, err)
		assert.Nil(t, out)
	})

	t.Run("RendersTitleAndData", func(t *testing.T) {
		base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
		points := []domain.TrendPoint{
			{Date: base, Score: 60},
			{Date: base.Add(24 * time.Hour), Score: 85},
		}

		out, err := renderer.RenderScoreProgression(points)
		require.NoError(t, err)

		html := string(out)
		assert.Contains(t, html, "Test Score Progression")
		assert.Contains(t, html, "2026-08-20 09:00")
		assert.Contains(t, html, "2026-08-21 09:00")
	})
}
