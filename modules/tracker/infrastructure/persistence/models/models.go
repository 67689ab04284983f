package models

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Vendor struct {
	ID          int
	Prefix      string
	Name        string
	Description sql.NullString
	NextNumber  int
	CreatedAt   time.Time
}

type User struct {
	ID        int
	Email     string
	Name      string
	Initials  sql.NullString
	CreatedAt time.Time
}

type Category struct {
	ID          int
	VendorID    int
	Name        string
	Description sql.NullString
	CreatedAt   time.Time
}

type ActionItem struct {
	ID          string
	VendorID    int
	Number      int
	Title       string
	Description sql.NullString
	CreateDate  pgtype.Date
	CreatedByID int
	DueDate     pgtype.Date
	OwnerID     int
	Priority    string
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StatusHistory struct {
	ID           int64
	ActionItemID string
	Status       string
	ChangedByID  int
	ChangedAt    time.Time
	Comment      sql.NullString
}

type Note struct {
	ID           int
	ActionItemID string
	NoteDate     pgtype.Date
	AuthorID     int
	Content      string
	CreatedAt    time.Time
}
