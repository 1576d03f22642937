package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/retailsim/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmbeddingRepository implements EmbeddingRepository using GORM.
// The two embedding spaces live in separate tables so a vector can
// never be written against the wrong dimensionality's table.
type GormEmbeddingRepository struct {
	db *gorm.DB
}

// NewGormEmbeddingRepository creates a new GormEmbeddingRepository
func NewGormEmbeddingRepository(db *gorm.DB) *GormEmbeddingRepository {
	return &GormEmbeddingRepository{db: db}
}

func (r *GormEmbeddingRepository) tableName(space catalog.EmbeddingSpace) string {
	if space == catalog.SpaceImage {
		return models.ImageEmbeddingModel{}.TableName()
	}
	return models.DescriptionEmbeddingModel{}.TableName()
}

// Save persists one embedding into the space's table
func (r *GormEmbeddingRepository) Save(ctx context.Context, space catalog.EmbeddingSpace, emb catalog.Embedding) error {
	return r.SaveBatch(ctx, space, []catalog.Embedding{emb})
}

// SaveBatch persists embeddings in batched statements
func (r *GormEmbeddingRepository) SaveBatch(ctx context.Context, space catalog.EmbeddingSpace, embs []catalog.Embedding) error {
	if len(embs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.EmbeddingModel, len(embs))
	for i, emb := range embs {
		base := models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
		if err := rows[i].FromDomain(emb, base); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Table(r.tableName(space)).CreateInBatches(rows, 500).Error
}

// FindAll returns every embedding in a space
func (r *GormEmbeddingRepository) FindAll(ctx context.Context, space catalog.EmbeddingSpace) ([]catalog.Embedding, error) {
	var rows []models.EmbeddingModel
	if err := r.db.WithContext(ctx).
		Table(r.tableName(space)).
		Order("product_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	embs := make([]catalog.Embedding, 0, len(rows))
	for i := range rows {
		emb, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		embs = append(embs, emb)
	}
	return embs, nil
}

// DeleteAll clears a space, used before regeneration
func (r *GormEmbeddingRepository) DeleteAll(ctx context.Context, space catalog.EmbeddingSpace) error {
	return r.db.WithContext(ctx).
		Table(r.tableName(space)).
		Where("1 = 1").
		Delete(&models.EmbeddingModel{}).Error
}

// Count counts the embeddings in a space
func (r *GormEmbeddingRepository) Count(ctx context.Context, space catalog.EmbeddingSpace) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table(r.tableName(space)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEmbeddingRepository implements EmbeddingRepository
var _ catalog.EmbeddingRepository = (*GormEmbeddingRepository)(nil)
