package actionitem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedID = errors.New("malformed action item id")

// ParseID splits "PREFIX-NUMBER" on the first hyphen only. The prefix is
// returned uppercased; the number part must be plain ASCII digits.
func ParseID(s string) (string, int, error) {
	prefix, suffix, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q has no hyphen", ErrMalformedID, s)
	}
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", 0, fmt.Errorf("%w: %q has no prefix", ErrMalformedID, s)
	}
	if !isDigits(suffix) {
		return "", 0, fmt.Errorf("%w: %q number part is not an integer", ErrMalformedID, s)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q number part is out of range", ErrMalformedID, s)
	}
	return prefix, n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatID renders the canonical identifier, e.g. FormatID("AD", 7) == "AD-007".
func FormatID(prefix string, number int) string {
	return fmt.Sprintf("%s-%03d", prefix, number)
}
