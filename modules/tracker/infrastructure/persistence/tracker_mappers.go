package persistence

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/category"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence/models"
)

func toDomainVendor(m *models.Vendor) vendor.Vendor {
	return vendor.Vendor{
		ID:          m.ID,
		Prefix:      m.Prefix,
		Name:        m.Name,
		Description: nullStringToPointer(m.Description),
		NextNumber:  m.NextNumber,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainUser(m *models.User) user.User {
	return user.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Initials:  nullStringToPointer(m.Initials),
		CreatedAt: m.CreatedAt,
	}
}

func toDomainCategory(m *models.Category) category.Category {
	return category.Category{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Name:        m.Name,
		Description: nullStringToPointer(m.Description),
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainActionItem(m *models.ActionItem) actionitem.ActionItem {
	item := actionitem.ActionItem{
		ID:          m.ID,
		VendorID:    m.VendorID,
		Number:      m.Number,
		Title:       m.Title,
		Description: nullStringToPointer(m.Description),
		CreatedByID: m.CreatedByID,
		OwnerID:     m.OwnerID,
		Priority:    actionitem.Priority(m.Priority),
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CreateDate.Valid {
		item.CreateDate = m.CreateDate.Time
	}
	if m.DueDate.Valid {
		due := m.DueDate.Time
		item.DueDate = &due
	}
	return item
}

func toDomainStatusEntry(m *models.StatusHistory) actionitem.StatusEntry {
	return actionitem.StatusEntry{
		ID:           m.ID,
		ActionItemID: m.ActionItemID,
		Status:       actionitem.Status(m.Status),
		ChangedByID:  m.ChangedByID,
		ChangedAt:    m.ChangedAt,
		Comment:      nullStringToPointer(m.Comment),
	}
}

func toDomainNote(m *models.Note) actionitem.Note {
	note := actionitem.Note{
		ID:           m.ID,
		ActionItemID: m.ActionItemID,
		AuthorID:     m.AuthorID,
		Content:      m.Content,
		CreatedAt:    m.CreatedAt,
	}
	if m.NoteDate.Valid {
		note.NoteDate = m.NoteDate.Time
	}
	return note
}

func nullStringToPointer(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func pointerToNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func pgDateOnlyUTC(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.UTC().Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func pgDatePointer(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgDateOnlyUTC(*t)
}
