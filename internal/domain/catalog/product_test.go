package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	catID := uuid.New()
	typeID := uuid.New()

	t.Run("creates_product_with_uppercase_sku", func(t *testing.T) {
		p, err := NewProduct("hw-1001", "Claw Hammer", catID, typeID, decimal.NewFromFloat(12.50))
		require.NoError(t, err)
		assert.Equal(t, "HW-1001", p.SKU)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("rejects_empty_sku", func(t *testing.T) {
		_, err := NewProduct("", "Claw Hammer", catID, typeID, decimal.NewFromFloat(12.50))
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_SKU", derr.Code)
	})

	t.Run("rejects_non_positive_cost", func(t *testing.T) {
		_, err := NewProduct("HW-1001", "Claw Hammer", catID, typeID, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestProductRetailPrice(t *testing.T) {
	catID := uuid.New()
	typeID := uuid.New()

	tests := []struct {
		name string
		cost float64
	}{
		{"low_cost", 1.00},
		{"typical_cost", 12.50},
		{"high_cost", 949.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct("SKU-1", "Item", catID, typeID, decimal.NewFromFloat(tt.cost))
			require.NoError(t, err)

			price, _ := p.RetailPrice().Float64()
			expected := tt.cost / (1 - GrossMargin)
			assert.InDelta(t, expected, price, 0.01, "retail price must equal cost / 0.67")
		})
	}
}

func TestSpaceForDim(t *testing.T) {
	t.Run("resolves_image_space", func(t *testing.T) {
		space, err := SpaceForDim(512)
		require.NoError(t, err)
		assert.Equal(t, SpaceImage, space)
	})

	t.Run("resolves_description_space", func(t *testing.T) {
		space, err := SpaceForDim(1536)
		require.NoError(t, err)
		assert.Equal(t, SpaceDescription, space)
	})

	t.Run("rejects_unsupported_dimension", func(t *testing.T) {
		_, err := SpaceForDim(256)
		assert.ErrorIs(t, err, shared.ErrDimensionMismatch)
	})
}
