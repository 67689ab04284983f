package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
)

// DefaultCategory is used for rows whose Category cell is blank.
const DefaultCategory = "Uncategorized"

var (
	ErrEmptyBatch   = errors.New("import file has no action item rows")
	ErrNotValidated = errors.New("batch has not been validated")
)

type Options struct {
	// VendorPrefix overrides the prefix derived from the first row's item id.
	VendorPrefix string
}

// Row holds the raw, trimmed cells of one data row.
type Row struct {
	Number     int
	Line       int
	ID         string
	Title      string
	CreateDate string
	CreatedBy  string
	DueDate    string
	Category   string
	Owner      string
	Priority   string
	Status     string
	StatusDate string
	Notes      string
}

// Item is a row that passed validation.
type Item struct {
	Row        int
	Line       int
	ID         string
	Number     int
	Title      string
	CreateDate time.Time
	DueDate    *time.Time
	CreatedBy  string
	Owner      string
	Category   string
	Priority   actionitem.Priority
	Status     actionitem.Status
	StatusDate *time.Time
	Notes      []NoteBlock
}

// ChangedAt is when the imported status took effect.
func (it Item) ChangedAt() time.Time {
	if it.StatusDate != nil {
		return *it.StatusDate
	}
	return it.CreateDate
}

type Batch struct {
	Source string
	Prefix string
	Rows   []Row
	// People and Categories list distinct values in first-seen order.
	People     []string
	Categories []string
	Items      []Item
	validated  bool
}

// Prepare reads and validates an export. It never touches the database. On a
// *ValidationError the loaded batch is still returned for reporting.
func Prepare(path string, opts Options) (*Batch, error) {
	b, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return b, err
	}
	return b, nil
}

// Load reads the file, skips to the header and drops rows without a title.
func Load(path string, opts Options) (*Batch, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	t, err := locateHeader(records)
	if err != nil {
		return nil, err
	}

	b := &Batch{Source: path}
	for _, rec := range t.rows {
		title := t.cell(rec, ColTitle)
		if title == "" {
			continue
		}
		b.Rows = append(b.Rows, Row{
			Number:     len(b.Rows) + 1,
			Line:       rec.line,
			ID:         t.cell(rec, ColID),
			Title:      title,
			CreateDate: t.cell(rec, ColCreateDate),
			CreatedBy:  t.cell(rec, ColCreatedBy),
			DueDate:    t.cell(rec, ColDueDate),
			Category:   t.cell(rec, ColCategory),
			Owner:      t.cell(rec, ColOwner),
			Priority:   t.cell(rec, ColPriority),
			Status:     t.cell(rec, ColStatus),
			StatusDate: t.cell(rec, ColStatusDate),
			Notes:      t.cell(rec, ColNotes),
		})
	}

	b.Prefix = strings.ToUpper(strings.TrimSpace(opts.VendorPrefix))
	if b.Prefix == "" {
		if len(b.Rows) == 0 {
			return nil, ErrEmptyBatch
		}
		// Malformed ids are reported by Validate; the first well-formed one
		// sets the prefix every other row is checked against.
		for _, r := range b.Rows {
			if prefix, _, err := actionitem.ParseID(r.ID); err == nil {
				b.Prefix = prefix
				break
			}
		}
	}

	b.collectReport()
	return b, nil
}

func (b *Batch) collectReport() {
	people := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, r := range b.Rows {
		for _, name := range []string{r.CreatedBy, r.Owner} {
			if name == "" {
				continue
			}
			if _, ok := people[name]; !ok {
				people[name] = struct{}{}
				b.People = append(b.People, name)
			}
		}
		cat := categoryName(r.Category)
		if _, ok := categories[cat]; !ok {
			categories[cat] = struct{}{}
			b.Categories = append(b.Categories, cat)
		}
	}
}

func categoryName(s string) string {
	if s == "" {
		return DefaultCategory
	}
	return s
}

// Validate checks every row and collects all failures before returning.
func (b *Batch) Validate() error {
	var (
		items []Item
		errs  []RowError
	)
	for _, r := range b.Rows {
		item, rowErrs := b.validateRow(r)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		items = append(items, item)
	}
	if len(errs) > 0 {
		b.Items = nil
		return &ValidationError{Errors: errs}
	}
	b.Items = items
	b.validated = true
	return nil
}

func (b *Batch) validateRow(r Row) (Item, []RowError) {
	var errs []RowError
	fail := func(field string, err error) {
		errs = append(errs, RowError{Row: r.Number, Line: r.Line, Field: field, Err: err})
	}

	item := Item{
		Row:       r.Number,
		Line:      r.Line,
		Title:     r.Title,
		CreatedBy: r.CreatedBy,
		Owner:     r.Owner,
		Category:  categoryName(r.Category),
	}

	prefix, number, err := actionitem.ParseID(r.ID)
	switch {
	case err != nil:
		fail(ColID, &ParseError{Kind: "item id", Input: r.ID, Err: err})
	case b.Prefix != "" && prefix != b.Prefix:
		fail(ColID, fmt.Errorf("prefix %q does not match vendor %q", prefix, b.Prefix))
	default:
		item.ID = actionitem.FormatID(prefix, number)
		item.Number = number
	}

	if d, err := ParseDate(r.CreateDate); err != nil {
		fail(ColCreateDate, err)
	} else {
		item.CreateDate = d
	}

	if d, err := parseDueDate(r.DueDate); err != nil {
		fail(ColDueDate, err)
	} else {
		item.DueDate = d
	}

	if p, err := NormalizePriority(r.Priority); err != nil {
		fail(ColPriority, err)
	} else {
		item.Priority = p
	}

	if s, err := NormalizeStatus(r.Status); err != nil {
		fail(ColStatus, err)
	} else {
		item.Status = s
	}

	if r.StatusDate != "" {
		if d, err := ParseDate(r.StatusDate); err != nil {
			fail(ColStatusDate, err)
		} else {
			item.StatusDate = &d
		}
	}

	if notes, err := ParseNotes(r.Notes); err != nil {
		fail(ColNotes, err)
	} else {
		item.Notes = notes
	}

	return item, errs
}

// MaxNumber returns the highest item number in the validated batch.
func (b *Batch) MaxNumber() int {
	n := 0
	for _, it := range b.Items {
		n = max(n, it.Number)
	}
	return n
}
