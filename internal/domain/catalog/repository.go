package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
)

// CategoryRepository provides access to categories and their types.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	SaveProductType(ctx context.Context, pt *ProductType) error
	FindProductTypes(ctx context.Context, categoryID uuid.UUID) ([]ProductType, error)
}

// ProductRepository provides access to catalog products.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	SaveBatch(ctx context.Context, products []*Product) error
	Count(ctx context.Context) (int64, error)
}

// EmbeddingRepository persists product embeddings per space.
type EmbeddingRepository interface {
	Save(ctx context.Context, space EmbeddingSpace, emb Embedding) error
	SaveBatch(ctx context.Context, space EmbeddingSpace, embs []Embedding) error
	FindAll(ctx context.Context, space EmbeddingSpace) ([]Embedding, error)
	DeleteAll(ctx context.Context, space EmbeddingSpace) error
	Count(ctx context.Context, space EmbeddingSpace) (int64, error)
}
