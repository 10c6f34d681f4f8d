package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/storebot/core/logger"
	"github.com/m3rciful/storebot/internal/models"
)

// ProductStore persists purchasable products and their credential pools.
type ProductStore struct {
	db *sqlx.DB
}

// NewProductStore returns a ProductStore bound to the given database handle.
func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// List returns all products with their category name resolved inline.
func (s *ProductStore) List(ctx context.Context) ([]models.ProductWithCategory, error) {
	products := []models.ProductWithCategory{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT p.id, p.name, p.cost, p.password, p.emails, p.category_id, c.name AS category_name
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetByID fetches one product with its category name.
func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductWithCategory, error) {
	var p models.ProductWithCategory
	err := s.db.GetContext(ctx, &p,
		`SELECT p.id, p.name, p.cost, p.password, p.emails, p.category_id, c.name AS category_name
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByCategory returns all products belonging to one category.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT id, name, cost, password, emails, category_id
		 FROM products WHERE category_id = $1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

// Create inserts a new product.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Emails == nil {
		p.Emails = pq.StringArray{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, cost, password, emails, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Cost, p.Password, p.Emails, p.CategoryID)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	logger.SVCCatalog.LogAttrs(ctx, slog.LevelInfo, "product.created",
		slog.String("product_id", p.ID.String()),
		slog.String("category_id", p.CategoryID.String()),
		slog.Int64("price", p.Cost),
		slog.Int("count", len(p.Emails)),
	)
	return nil
}

// Update replaces all mutable product fields.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	if p.Emails == nil {
		p.Emails = pq.StringArray{}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $2, cost = $3, password = $4, emails = $5, category_id = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.Cost, p.Password, p.Emails, p.CategoryID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res)
}

// Delete removes a product.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res)
}

// GetForUpdate locks the product row. Call within a transaction.
func (s *ProductStore) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := tx.GetContext(ctx, &p,
		`SELECT id, name, cost, password, emails, category_id
		 FROM products WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return &p, nil
}

// SetEmails replaces the credential pool inside the supplied transaction.
func (s *ProductStore) SetEmails(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, emails pq.StringArray) error {
	if emails == nil {
		emails = pq.StringArray{}
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET emails = $2 WHERE id = $1`, id, emails)
	if err != nil {
		return fmt.Errorf("set product emails: %w", err)
	}
	return requireRow(res)
}
