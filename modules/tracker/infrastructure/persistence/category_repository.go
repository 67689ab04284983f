package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/category"
	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence/models"
	"github.com/actiontracker/tracker/pkg/composables"
)

type CategoryRepository struct{}

func NewCategoryRepository() category.Repository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) ListByVendor(ctx context.Context, vendorID int) ([]category.Category, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, `
		SELECT id, vendor_id, name, description, created_at
		FROM categories
		WHERE vendor_id = $1
		ORDER BY name ASC
	`, vendorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var categories []category.Category
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(&m.ID, &m.VendorID, &m.Name, &m.Description, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan category row")
		}
		categories = append(categories, toDomainCategory(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate category rows")
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c category.Category) (category.Category, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return category.Category{}, errors.Wrap(err, "failed to get transaction")
	}

	var m models.Category
	if err := tx.QueryRow(ctx, `
		INSERT INTO categories (vendor_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, vendor_id, name, description, created_at
	`, c.VendorID, c.Name, pointerToNullString(c.Description)).Scan(
		&m.ID, &m.VendorID, &m.Name, &m.Description, &m.CreatedAt,
	); err != nil {
		return category.Category{}, errors.Wrapf(err, "failed to insert category %q", c.Name)
	}
	return toDomainCategory(&m), nil
}
