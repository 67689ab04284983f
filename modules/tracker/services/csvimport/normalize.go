package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
)

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ParseDate accepts M/D/YYYY and MM/DD/YYYY and returns the civil date at 00:00 UTC.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	m := slashDate.FindStringSubmatch(v)
	if m == nil {
		return time.Time{}, &ParseError{Kind: "date", Input: s}
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (2/30 -> 3/1); reject anything it had to move.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, &ParseError{Kind: "date", Input: s}
	}
	return t, nil
}

var statusAliases = map[string]actionitem.Status{
	"new":         actionitem.StatusNew,
	"not started": actionitem.StatusNotStarted,
	"in progress": actionitem.StatusInProgress,
	"in-progress": actionitem.StatusInProgress,
	"tbc":         actionitem.StatusTBC,
	"complete":    actionitem.StatusComplete,
	"completed":   actionitem.StatusComplete,
	"done":        actionitem.StatusComplete,
	"blocked":     actionitem.StatusBlocked,
}

func NormalizeStatus(s string) (actionitem.Status, error) {
	if status, ok := statusAliases[fold(s)]; ok {
		return status, nil
	}
	return "", &UnknownStatusError{Input: s}
}

var priorityAliases = map[string]actionitem.Priority{
	"high":   actionitem.PriorityHigh,
	"h":      actionitem.PriorityHigh,
	"medium": actionitem.PriorityMedium,
	"med":    actionitem.PriorityMedium,
	"m":      actionitem.PriorityMedium,
	"low":    actionitem.PriorityLow,
	"l":      actionitem.PriorityLow,
}

func NormalizePriority(s string) (actionitem.Priority, error) {
	if priority, ok := priorityAliases[fold(s)]; ok {
		return priority, nil
	}
	return "", &UnknownPriorityError{Input: s}
}

// parseDueDate treats blank, TBD and PDR as "no due date".
func parseDueDate(s string) (*time.Time, error) {
	switch fold(s) {
	case "", "tbd", "pdr":
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
