package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the Category entity. The
// seasonal multiplier table is stored as a JSON array of 12 floats.
type CategoryModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Seasonal string `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() (*catalog.Category, error) {
	var seasonal catalog.SeasonalMultipliers
	if err := json.Unmarshal([]byte(m.Seasonal), &seasonal); err != nil {
		return nil, fmt.Errorf("decoding seasonal multipliers for category %s: %w", m.Name, err)
	}
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Seasonal:   seasonal,
	}, nil
}

// FromDomain populates the persistence model from a domain Category.
func (m *CategoryModel) FromDomain(c *catalog.Category) error {
	raw, err := json.Marshal(c.Seasonal)
	if err != nil {
		return fmt.Errorf("encoding seasonal multipliers: %w", err)
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Seasonal = string(raw)
	return nil
}

// ProductTypeModel is the persistence model for the ProductType entity.
type ProductTypeModel struct {
	BaseModel
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProductTypeModel) TableName() string {
	return "product_types"
}

// ToDomain converts the persistence model to a domain ProductType.
func (m *ProductTypeModel) ToDomain() *catalog.ProductType {
	return &catalog.ProductType{
		BaseEntity: m.BaseModel.ToDomain(),
		CategoryID: m.CategoryID,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain ProductType.
func (m *ProductTypeModel) FromDomain(pt *catalog.ProductType) {
	m.FromDomainBaseEntity(pt.BaseEntity)
	m.CategoryID = pt.CategoryID
	m.Name = pt.Name
}

// ProductModel is the persistence model for the Product entity. The
// base price column is always written as cost / (1 - margin); reads
// derive the price from cost so the two can never drift apart.
type ProductModel struct {
	BaseModel
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductTypeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cost          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		SKU:           m.SKU,
		Name:          m.Name,
		Description:   m.Description,
		CategoryID:    m.CategoryID,
		ProductTypeID: m.ProductTypeID,
		Cost:          m.Cost,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.ProductTypeID = p.ProductTypeID
	m.Cost = p.Cost
	m.BasePrice = p.RetailPrice()
}

// EmbeddingModel persists one product vector. Image and description
// embeddings share the shape but live in separate tables.
type EmbeddingModel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Vector    string    `gorm:"type:jsonb;not null"`
}

// ImageEmbeddingModel stores 512-dim image-derived vectors.
type ImageEmbeddingModel struct {
	EmbeddingModel
}

// TableName returns the table name for GORM
func (ImageEmbeddingModel) TableName() string {
	return "product_image_embeddings"
}

// DescriptionEmbeddingModel stores 1536-dim text-derived vectors.
type DescriptionEmbeddingModel struct {
	EmbeddingModel
}

// TableName returns the table name for GORM
func (DescriptionEmbeddingModel) TableName() string {
	return "product_description_embeddings"
}

// ToDomain converts the persisted vector to a domain Embedding.
func (m *EmbeddingModel) ToDomain() (catalog.Embedding, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(m.Vector), &vec); err != nil {
		return catalog.Embedding{}, fmt.Errorf("decoding embedding for product %s: %w", m.ProductID, err)
	}
	return catalog.Embedding{ProductID: m.ProductID, Vector: vec}, nil
}

// FromDomain populates the persistence model from a domain Embedding.
func (m *EmbeddingModel) FromDomain(e catalog.Embedding, base BaseModel) error {
	raw, err := json.Marshal(e.Vector)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}
	m.BaseModel = base
	m.ProductID = e.ProductID
	m.Vector = string(raw)
	return nil
}
