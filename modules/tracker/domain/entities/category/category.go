package category

import (
	"context"
	"time"
)

// Category names are unique within a vendor.
type Category struct {
	ID          int
	VendorID    int
	Name        string
	Description *string
	CreatedAt   time.Time
}

type Repository interface {
	ListByVendor(ctx context.Context, vendorID int) ([]Category, error)
	Create(ctx context.Context, c Category) (Category, error)
}
