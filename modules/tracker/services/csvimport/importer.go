package csvimport

import (
	"context"
	"errors"
	"fmt"

	ferrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/category"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/pkg/composables"
)

const importComment = "Imported from CSV"

var (
	ErrNoUsers = errors.New("no users exist; create at least one user before importing")
	// ErrRolledBack wraps every failure inside the import transaction.
	ErrRolledBack = errors.New("import transaction rolled back")
)

// TxFunc runs fn inside a single transaction.
type TxFunc func(ctx context.Context, fn func(context.Context) error) error

type Result struct {
	RunID             string `json:"run_id"`
	Vendor            string `json:"vendor"`
	Total             int    `json:"total"`
	Imported          int    `json:"imported"`
	Skipped           int    `json:"skipped"`
	CategoriesCreated int    `json:"categories_created"`
	NextNumber        int    `json:"next_number"`
}

type Importer struct {
	vendors    vendor.Repository
	users      user.Repository
	categories category.Repository
	items      actionitem.Repository
	inTx       TxFunc
	logger     *logrus.Entry
}

type Option func(*Importer)

func WithTxFunc(fn TxFunc) Option {
	return func(i *Importer) { i.inTx = fn }
}

func WithLogger(logger *logrus.Entry) Option {
	return func(i *Importer) { i.logger = logger }
}

func NewImporter(
	vendors vendor.Repository,
	users user.Repository,
	categories category.Repository,
	items actionitem.Repository,
	opts ...Option,
) *Importer {
	i := &Importer{
		vendors:    vendors,
		users:      users,
		categories: categories,
		items:      items,
		inTx:       composables.InTx,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Apply writes a validated batch. Users are resolved before anything is
// written; all action items, statuses and notes share one transaction.
func (i *Importer) Apply(ctx context.Context, b *Batch) (Result, error) {
	if !b.validated {
		return Result{}, ErrNotValidated
	}

	res := Result{RunID: uuid.NewString(), Vendor: b.Prefix, Total: len(b.Items)}
	logger := i.logger
	if logger == nil {
		logger = composables.UseLogger(ctx)
	}
	logger = logger.WithFields(logrus.Fields{"run_id": res.RunID, "vendor": b.Prefix})

	v, err := i.vendors.GetByPrefix(ctx, b.Prefix)
	if errors.Is(err, vendor.ErrNotFound) {
		return res, &MissingVendorError{Prefix: b.Prefix}
	}
	if err != nil {
		return res, ferrors.Wrap(err, "lookup vendor")
	}

	people, err := i.resolvePeople(ctx, b, logger)
	if err != nil {
		return res, err
	}

	categoryIDs, created, err := i.reconcileCategories(ctx, v.ID, b.Categories)
	if err != nil {
		return res, err
	}
	res.CategoriesCreated = created
	if created > 0 {
		logger.WithField("created", created).Info("categories reconciled")
	}

	err = i.inTx(ctx, func(txCtx context.Context) error {
		for _, it := range b.Items {
			rowLogger := logger.WithFields(logrus.Fields{"row": it.Row, "item_id": it.ID})

			exists, err := i.items.Exists(txCtx, it.ID)
			if err != nil {
				return err
			}
			if exists {
				rowLogger.Debug("item already present, skipping")
				res.Skipped++
				continue
			}
			if err := i.insertItem(txCtx, v.ID, it, people, categoryIDs); err != nil {
				return ferrors.Wrapf(err, "row %d (%s)", it.Row, it.ID)
			}
			rowLogger.Debug("item imported")
			res.Imported++
		}

		next := b.MaxNumber() + 1
		advanced, err := i.vendors.AdvanceNextNumber(txCtx, v.ID, next)
		if err != nil {
			return err
		}
		res.NextNumber = v.NextNumber
		if advanced {
			res.NextNumber = next
		}
		return nil
	})
	if err != nil {
		res.Imported, res.Skipped = 0, 0
		return res, fmt.Errorf("%w: %w", ErrRolledBack, err)
	}

	logger.WithFields(logrus.Fields{
		"imported": res.Imported,
		"skipped":  res.Skipped,
	}).Info("import committed")
	return res, nil
}

// personIndex maps every trimmed creator/owner cell to a user id. The empty
// name maps to the first user and stands in for blank creators.
type personIndex map[string]int

func (i *Importer) resolvePeople(ctx context.Context, b *Batch, logger *logrus.Entry) (personIndex, error) {
	users, err := i.users.GetAll(ctx)
	if err != nil {
		return nil, ferrors.Wrap(err, "load users")
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	resolver := NewUserResolver(users, logger)
	out := personIndex{"": users[0].ID}
	var errs []error
	for _, name := range b.People {
		res, err := resolver.Resolve(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[name] = res.User.ID
		logger.WithFields(logrus.Fields{
			"name":    name,
			"user_id": res.User.ID,
			"rule":    res.Rule.String(),
		}).Debug("resolved user")
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// reconcileCategories reuses vendor categories by exact name and creates the rest.
func (i *Importer) reconcileCategories(ctx context.Context, vendorID int, names []string) (map[string]int, int, error) {
	existing, err := i.categories.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, 0, ferrors.Wrap(err, "list categories")
	}
	ids := make(map[string]int, len(existing))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}

	created := 0
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		c, err := i.categories.Create(ctx, category.Category{VendorID: vendorID, Name: name})
		if err != nil {
			return nil, created, ferrors.Wrapf(err, "create category %q", name)
		}
		ids[name] = c.ID
		created++
	}
	return ids, created, nil
}

func (i *Importer) insertItem(ctx context.Context, vendorID int, it Item, people personIndex, categoryIDs map[string]int) error {
	categoryID, ok := categoryIDs[it.Category]
	if !ok {
		return &MissingCategoryError{Name: it.Category}
	}
	creatorID := people[it.CreatedBy]
	ownerID := creatorID
	if it.Owner != "" {
		ownerID = people[it.Owner]
	}

	if err := i.items.Create(ctx, actionitem.ActionItem{
		ID:          it.ID,
		VendorID:    vendorID,
		Number:      it.Number,
		Title:       it.Title,
		CreateDate:  it.CreateDate,
		CreatedByID: creatorID,
		DueDate:     it.DueDate,
		OwnerID:     ownerID,
		Priority:    it.Priority,
		CategoryID:  categoryID,
	}); err != nil {
		return err
	}

	comment := importComment
	if _, err := i.items.AddStatus(ctx, actionitem.StatusEntry{
		ActionItemID: it.ID,
		Status:       it.Status,
		ChangedByID:  creatorID,
		ChangedAt:    it.ChangedAt(),
		Comment:      &comment,
	}); err != nil {
		return err
	}

	for n, block := range it.Notes {
		noteDate := it.CreateDate
		if block.Date != nil {
			noteDate = *block.Date
		}
		if _, err := i.items.AddNote(ctx, actionitem.Note{
			ActionItemID: it.ID,
			NoteDate:     noteDate,
			AuthorID:     creatorID,
			Content:      block.Text,
		}); err != nil {
			return fmt.Errorf("note %d: %w", n+1, err)
		}
	}
	return nil
}
