package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalMultipliers(t *testing.T) {
	t.Run("validates_positive_values", func(t *testing.T) {
		s := SeasonalMultipliers{1, 1, 1, 1, 2, 2, 2, 2, 1, 1, 1, 0.5}
		assert.NoError(t, s.Validate())
	})

	t.Run("rejects_zero_multiplier", func(t *testing.T) {
		s := SeasonalMultipliers{1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1}
		assert.Error(t, s.Validate())
	})

	t.Run("rejects_negative_multiplier", func(t *testing.T) {
		s := SeasonalMultipliers{1, 1, 1, 1, 1, -0.5, 1, 1, 1, 1, 1, 1}
		assert.Error(t, s.Validate())
	})

	t.Run("peak_and_low_months", func(t *testing.T) {
		s := SeasonalMultipliers{1, 1, 1, 1, 2, 2, 2.5, 2, 1, 1, 1, 0.5}
		assert.Equal(t, 7, s.PeakMonth())
		assert.Equal(t, 12, s.LowMonth())
	})

	t.Run("average", func(t *testing.T) {
		s := SeasonalMultipliers{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
		assert.InDelta(t, 1.0, s.Average(), 1e-9)
	})
}

func TestNewCategory(t *testing.T) {
	valid := SeasonalMultipliers{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

	t.Run("creates_category", func(t *testing.T) {
		c, err := NewCategory("Hand Tools", valid)
		require.NoError(t, err)
		assert.Equal(t, "Hand Tools", c.Name)
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		_, err := NewCategory("", valid)
		assert.Error(t, err)
	})

	t.Run("rejects_invalid_seasonal_table", func(t *testing.T) {
		bad := valid
		bad[3] = 0
		_, err := NewCategory("Hand Tools", bad)
		assert.Error(t, err)
	})
}
