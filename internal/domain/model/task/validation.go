package task

import (
	"strings"
	"unicode/utf8"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

// Field limits
const (
	MaxTextLength    = 500
	MaxTagLength     = 50
	MaxProjectLength = 100
)

// ValidateText trims text and checks it is non-empty and within MaxTextLength characters
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxTextLength {
		return "", Errorf(ErrTextTooLong, "%d characters, max %d", n, MaxTextLength)
	}
	return trimmed, nil
}

// ValidateTag trims a single tag and checks its length and charset
func ValidateTag(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", ErrEmptyTag
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxTagLength {
		return "", Errorf(ErrTagTooLong, "%q is %d characters, max %d", trimmed, n, MaxTagLength)
	}
	for _, r := range trimmed {
		if !isTagRune(r) {
			return "", Errorf(ErrInvalidTag, "%q: only letters, digits, '-' and '_' are allowed", trimmed)
		}
	}
	return trimmed, nil
}

func isTagRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

// ValidateTags validates every tag and rejects case-insensitive duplicates
func ValidateTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		cleaned, err := ValidateTag(tag)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(cleaned)
		if _, dup := seen[key]; dup {
			return nil, Errorf(ErrDuplicateTag, "%q", cleaned)
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	return out, nil
}

// ValidateProject trims a project name and checks it is non-empty and short enough
func ValidateProject(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyProject
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxProjectLength {
		return "", Errorf(ErrProjectTooLong, "%d characters, max %d", n, MaxProjectLength)
	}
	return trimmed, nil
}

// ValidateDueDate rejects a due date before today unless allowPast is set (edits)
func ValidateDueDate(due, today model.Date, allowPast bool) error {
	if due.IsZero() || allowPast {
		return nil
	}
	if due.Before(today) {
		return Errorf(ErrDueDateInPast, "%s is before %s", due, today)
	}
	return nil
}

// ValidateRecurrence checks the pattern and that a recurring task has a due date
func ValidateRecurrence(r model.Recurrence, due model.Date) error {
	if !r.IsValid() {
		return Errorf(ErrInvalidRecurrence, "%q", r)
	}
	if r.IsSet() && due.IsZero() {
		return ErrRecurrenceRequiresDueDate
	}
	return nil
}
