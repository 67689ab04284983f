package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column names of the tracker export.
const (
	ColID         = "Action Item #"
	ColTitle      = "Title"
	ColCreateDate = "Create Date"
	ColCreatedBy  = "Created by"
	ColDueDate    = "Due Date"
	ColCategory   = "Category"
	ColOwner      = "Owner"
	ColPriority   = "Priority"
	ColStatus     = "Status"
	ColStatusDate = "Status Date"
	ColNotes      = "Notes"
)

var requiredColumns = []string{
	ColID, ColTitle, ColCreateDate, ColCreatedBy, ColDueDate, ColCategory,
	ColOwner, ColPriority, ColStatus, ColStatusDate, ColNotes,
}

// ErrInvalidSource marks files that cannot be read as a tracker export at all.
var ErrInvalidSource = errors.New("invalid import file")

type record struct {
	line   int
	fields []string
}

func readRecords(path string) ([]record, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]record, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []record
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		line, _ := cr.FieldPos(0)
		out = append(out, record{line: line, fields: fields})
	}
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// readXLSX reads the first sheet of a workbook; the record line is the sheet row number.
func readXLSX(path string) ([]record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSource)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	out := make([]record, 0, len(rows))
	for i, fields := range rows {
		out = append(out, record{line: i + 1, fields: fields})
	}
	return out, nil
}

// table is the export after junk rows above the header have been skipped.
type table struct {
	index map[string]int
	rows  []record
}

func locateHeader(records []record) (*table, error) {
	for i, rec := range records {
		if !containsCell(rec.fields, ColID) {
			continue
		}
		header := make([]string, len(rec.fields))
		for j := range rec.fields {
			header[j] = strings.TrimSpace(rec.fields[j])
		}
		if err := requireHeader(header, requiredColumns); err != nil {
			return nil, err
		}
		return &table{index: headerIndex(header), rows: records[i+1:]}, nil
	}
	return nil, fmt.Errorf("%w: no header row containing %q", ErrInvalidSource, ColID)
}

func containsCell(fields []string, want string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == want {
			return true
		}
	}
	return false
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := m[name]; !dup {
			m[name] = i
		}
	}
	return m
}

func requireHeader(header []string, required []string) error {
	hset := make(map[string]struct{}, len(header))
	for _, h := range header {
		hset[h] = struct{}{}
	}
	var missing []string
	for _, req := range required {
		if _, ok := hset[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required header column(s): %s", ErrInvalidSource, strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the trimmed value of col, or "" for short records.
func (t *table) cell(rec record, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(rec.fields) {
		return ""
	}
	return strings.TrimSpace(rec.fields[i])
}
