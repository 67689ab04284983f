package actionitem

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("action item not found")

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type Status string

const (
	StatusNew        Status = "New"
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusTBC        Status = "TBC"
	StatusComplete   Status = "Complete"
	StatusBlocked    Status = "Blocked"
)

// ActionItem is written once; only UpdatedAt changes afterwards.
type ActionItem struct {
	ID          string
	VendorID    int
	Number      int
	Title       string
	Description *string
	CreateDate  time.Time
	CreatedByID int
	DueDate     *time.Time
	OwnerID     int
	Priority    Priority
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusEntry is an append-only status-history row. The latest ChangedAt wins;
// equal timestamps are ordered by ID.
type StatusEntry struct {
	ID           int64
	ActionItemID string
	Status       Status
	ChangedByID  int
	ChangedAt    time.Time
	Comment      *string
}

type Note struct {
	ID           int
	ActionItemID string
	NoteDate     time.Time
	AuthorID     int
	Content      string
	CreatedAt    time.Time
}

type Repository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (ActionItem, error)
	Create(ctx context.Context, item ActionItem) error
	AddStatus(ctx context.Context, entry StatusEntry) (StatusEntry, error)
	AddNote(ctx context.Context, note Note) (Note, error)
	CurrentStatus(ctx context.Context, id string) (StatusEntry, error)
	// Notes returns the item's notes ordered by note date, then insertion order.
	Notes(ctx context.Context, id string) ([]Note, error)
	MaxNumber(ctx context.Context, vendorID int) (int, error)
}
