package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence/models"
	"github.com/actiontracker/tracker/pkg/composables"
)

const (
	actionItemFindQuery = `
		SELECT id, vendor_id, number, title, description, create_date, created_by_id, due_date,
			owner_id, priority, category_id, created_at, updated_at
		FROM action_items`

	actionItemInsertQuery = `
		INSERT INTO action_items (
			id, vendor_id, number, title, description, create_date, created_by_id, due_date,
			owner_id, priority, category_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	statusInsertQuery = `
		INSERT INTO status_history (action_item_id, status, changed_by_id, changed_at, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	currentStatusQuery = `
		SELECT id, action_item_id, status, changed_by_id, changed_at, comment
		FROM status_history
		WHERE action_item_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT 1`

	noteInsertQuery = `
		INSERT INTO notes (action_item_id, note_date, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	notesFindQuery = `
		SELECT id, action_item_id, note_date, author_id, content, created_at
		FROM notes
		WHERE action_item_id = $1
		ORDER BY note_date ASC, id ASC`
)

type ActionItemRepository struct{}

func NewActionItemRepository() actionitem.Repository {
	return &ActionItemRepository{}
}

func (r *ActionItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM action_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, errors.Wrapf(err, "failed to check action item %s", id)
	}
	return exists, nil
}

func (r *ActionItemRepository) GetByID(ctx context.Context, id string) (actionitem.ActionItem, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actionitem.ActionItem{}, errors.Wrap(err, "failed to get transaction")
	}

	var m models.ActionItem
	err = tx.QueryRow(ctx, actionItemFindQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.VendorID, &m.Number, &m.Title, &m.Description, &m.CreateDate, &m.CreatedByID, &m.DueDate,
		&m.OwnerID, &m.Priority, &m.CategoryID, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return actionitem.ActionItem{}, actionitem.ErrNotFound
	}
	if err != nil {
		return actionitem.ActionItem{}, errors.Wrapf(err, "failed to load action item %s", id)
	}
	return toDomainActionItem(&m), nil
}

func (r *ActionItemRepository) Create(ctx context.Context, item actionitem.ActionItem) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	if _, err := tx.Exec(
		ctx,
		actionItemInsertQuery,
		item.ID,
		item.VendorID,
		item.Number,
		item.Title,
		pointerToNullString(item.Description),
		pgDateOnlyUTC(item.CreateDate),
		item.CreatedByID,
		pgDatePointer(item.DueDate),
		item.OwnerID,
		string(item.Priority),
		item.CategoryID,
	); err != nil {
		return errors.Wrapf(err, "failed to insert action item %s", item.ID)
	}
	return nil
}

func (r *ActionItemRepository) AddStatus(ctx context.Context, entry actionitem.StatusEntry) (actionitem.StatusEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actionitem.StatusEntry{}, errors.Wrap(err, "failed to get transaction")
	}
	if err := tx.QueryRow(
		ctx,
		statusInsertQuery,
		entry.ActionItemID,
		string(entry.Status),
		entry.ChangedByID,
		entry.ChangedAt,
		pointerToNullString(entry.Comment),
	).Scan(&entry.ID); err != nil {
		return actionitem.StatusEntry{}, errors.Wrapf(err, "failed to insert status for %s", entry.ActionItemID)
	}
	return entry, nil
}

func (r *ActionItemRepository) AddNote(ctx context.Context, note actionitem.Note) (actionitem.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actionitem.Note{}, errors.Wrap(err, "failed to get transaction")
	}
	if err := tx.QueryRow(
		ctx,
		noteInsertQuery,
		note.ActionItemID,
		pgDateOnlyUTC(note.NoteDate),
		note.AuthorID,
		note.Content,
	).Scan(&note.ID, &note.CreatedAt); err != nil {
		return actionitem.Note{}, errors.Wrapf(err, "failed to insert note for %s", note.ActionItemID)
	}
	return note, nil
}

func (r *ActionItemRepository) CurrentStatus(ctx context.Context, id string) (actionitem.StatusEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actionitem.StatusEntry{}, errors.Wrap(err, "failed to get transaction")
	}

	var m models.StatusHistory
	err = tx.QueryRow(ctx, currentStatusQuery, id).Scan(
		&m.ID, &m.ActionItemID, &m.Status, &m.ChangedByID, &m.ChangedAt, &m.Comment,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return actionitem.StatusEntry{}, actionitem.ErrNotFound
	}
	if err != nil {
		return actionitem.StatusEntry{}, errors.Wrapf(err, "failed to load current status for %s", id)
	}
	return toDomainStatusEntry(&m), nil
}

func (r *ActionItemRepository) Notes(ctx context.Context, id string) ([]actionitem.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, notesFindQuery, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var notes []actionitem.Note
	for rows.Next() {
		var m models.Note
		if err := rows.Scan(&m.ID, &m.ActionItemID, &m.NoteDate, &m.AuthorID, &m.Content, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan note row")
		}
		notes = append(notes, toDomainNote(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate note rows")
	}
	return notes, nil
}

func (r *ActionItemRepository) MaxNumber(ctx context.Context, vendorID int) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	var n int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM action_items WHERE vendor_id = $1`, vendorID).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "failed to read max item number for vendor %d", vendorID)
	}
	return n, nil
}
