package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence/models"
	"github.com/actiontracker/tracker/pkg/composables"
)

const (
	vendorFindQuery = `SELECT id, prefix, name, description, next_number, created_at FROM vendors`
)

type VendorRepository struct{}

func NewVendorRepository() vendor.Repository {
	return &VendorRepository{}
}

func (r *VendorRepository) GetByPrefix(ctx context.Context, prefix string) (vendor.Vendor, error) {
	vendors, err := r.queryVendors(ctx, vendorFindQuery+" WHERE prefix = $1", prefix)
	if err != nil {
		return vendor.Vendor{}, err
	}
	if len(vendors) == 0 {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return vendors[0], nil
}

func (r *VendorRepository) List(ctx context.Context) ([]vendor.Vendor, error) {
	return r.queryVendors(ctx, vendorFindQuery+" ORDER BY prefix ASC")
}

func (r *VendorRepository) Create(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vendor.Vendor{}, errors.Wrap(err, "failed to get transaction")
	}

	next := max(v.NextNumber, 1)
	var m models.Vendor
	if err := tx.QueryRow(ctx, `
		INSERT INTO vendors (prefix, name, description, next_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, prefix, name, description, next_number, created_at
	`, v.Prefix, v.Name, pointerToNullString(v.Description), next).Scan(
		&m.ID, &m.Prefix, &m.Name, &m.Description, &m.NextNumber, &m.CreatedAt,
	); err != nil {
		return vendor.Vendor{}, errors.Wrapf(err, "failed to insert vendor %s", v.Prefix)
	}
	return toDomainVendor(&m), nil
}

func (r *VendorRepository) AdvanceNextNumber(ctx context.Context, id int, next int) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, `UPDATE vendors SET next_number = $2 WHERE id = $1 AND next_number < $2`, id, next)
	if err != nil {
		return false, errors.Wrapf(err, "failed to advance next_number for vendor %d", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VendorRepository) SetNextNumber(ctx context.Context, id int, next int) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, `UPDATE vendors SET next_number = $2 WHERE id = $1`, id, next)
	if err != nil {
		return errors.Wrapf(err, "failed to set next_number for vendor %d", id)
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) queryVendors(ctx context.Context, query string, args ...any) ([]vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var vendors []vendor.Vendor
	for rows.Next() {
		var m models.Vendor
		if err := rows.Scan(&m.ID, &m.Prefix, &m.Name, &m.Description, &m.NextNumber, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan vendor row")
		}
		vendors = append(vendors, toDomainVendor(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate vendor rows")
	}
	return vendors, nil
}
