package csvimport

import (
	"regexp"
	"strings"
	"time"
)

// NoteBlock is one dated entry of a multi-line Notes cell. Date is nil when the
// cell starts without a date; the importer then uses the item's create date.
type NoteBlock struct {
	Date *time.Time
	Text string
}

var leadingDate = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})(?:\s+|$)`)

// ParseNotes splits a Notes cell into blocks. A line that begins with a date
// starts a new block; any other line continues the previous one.
func ParseNotes(text string) ([]NoteBlock, error) {
	blocks := []NoteBlock{}
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		date, rest, ok, err := splitLeadingDate(line)
		if err != nil {
			return nil, err
		}
		switch {
		case ok:
			blocks = append(blocks, NoteBlock{Date: &date, Text: rest})
		case len(blocks) == 0:
			blocks = append(blocks, NoteBlock{Text: line})
		default:
			last := &blocks[len(blocks)-1]
			if last.Text == "" {
				last.Text = line
			} else {
				last.Text += "\n" + line
			}
		}
	}
	return blocks, nil
}

// splitLeadingDate reports whether line starts a new note and returns its date
// and the remaining text.
func splitLeadingDate(line string) (time.Time, string, bool, error) {
	m := leadingDate.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, "", false, nil
	}
	date, err := ParseDate(m[1])
	if err != nil {
		return time.Time{}, "", false, err
	}
	return date, strings.TrimSpace(line[len(m[0]):]), true, nil
}
