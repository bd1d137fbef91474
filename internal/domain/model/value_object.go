package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskID is the stable identifier of a task. It is assigned once at creation
// and never renumbered; list positions are a display concern only.
type TaskID struct {
	value string
}

// NewTaskID creates a new TaskID
func NewTaskID() TaskID {
	return TaskID{value: uuid.New().String()}
}

// NewTaskIDFromString creates a TaskID from an existing string
func NewTaskIDFromString(id string) (TaskID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return TaskID{}, errors.New("task ID cannot be empty")
	}
	return TaskID{value: id}, nil
}

// String returns the string representation
func (t TaskID) String() string {
	return t.value
}

// Short returns the first eight characters, enough to address a task by prefix
func (t TaskID) Short() string {
	if len(t.value) <= 8 {
		return t.value
	}
	return t.value[:8]
}

// Equals checks if two TaskIDs are equal
func (t TaskID) Equals(other TaskID) bool {
	return t.value == other.value
}

// IsZero reports whether the ID was never assigned (legacy records)
func (t TaskID) IsZero() bool {
	return t.value == ""
}

// MarshalText implements encoding.TextMarshaler
func (t TaskID) MarshalText() ([]byte, error) {
	return []byte(t.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TaskID) UnmarshalText(b []byte) error {
	t.value = strings.TrimSpace(string(b))
	return nil
}

// Priority represents the urgency of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority parses a priority name (case-insensitive)
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q (expected high, medium or low)", s)
	}
	return p, nil
}

// String returns the string representation
func (p Priority) String() string {
	return string(p)
}

// IsValid validates the priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Order returns the sort order, lower is more urgent
func (p Priority) Order() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Letter returns the single-letter form used in tables
func (p Priority) Letter() string {
	switch p {
	case PriorityHigh:
		return "H"
	case PriorityMedium:
		return "M"
	default:
		return "L"
	}
}

// Recurrence is the repeat pattern of a task. The zero value means no recurrence.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence parses a recurrence pattern name (case-insensitive)
func ParseRecurrence(s string) (Recurrence, error) {
	r := Recurrence(strings.ToLower(strings.TrimSpace(s)))
	if r == RecurrenceNone || !r.IsValid() {
		return RecurrenceNone, fmt.Errorf("invalid recurrence %q (expected daily, weekly or monthly)", s)
	}
	return r, nil
}

// String returns the string representation
func (r Recurrence) String() string {
	return string(r)
}

// IsSet reports whether a pattern is present
func (r Recurrence) IsSet() bool {
	return r != RecurrenceNone
}

// IsValid validates the recurrence, the empty pattern included
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// DateLayout is the wire and display format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day. The zero value means "no date".
type Date struct {
	value time.Time
}

// NewDate creates a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date in the time's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local calendar date
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is absent
func (d Date) IsZero() bool {
	return d.value.IsZero()
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time {
	return d.value
}

// Year returns the calendar year
func (d Date) Year() int {
	return d.value.Year()
}

// Month returns the calendar month
func (d Date) Month() time.Month {
	return d.value.Month()
}

// Day returns the day of month
func (d Date) Day() int {
	return d.value.Day()
}

// Weekday returns the day of week
func (d Date) Weekday() time.Weekday {
	return d.value.Weekday()
}

// AddDays returns the date n days later (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date{value: d.value.AddDate(0, 0, n)}
}

// AddMonthsClamped adds n calendar months, clamping the day to the last day of
// the target month instead of overflowing into the following one.
func (d Date) AddMonthsClamped(n int) Date {
	y, m, day := d.value.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// DaysUntil returns the number of days from d to other
func (d Date) DaysUntil(other Date) int {
	return int(other.value.Sub(d.value).Hours() / 24)
}

// Before checks if this date is before another
func (d Date) Before(other Date) bool {
	return d.value.Before(other.value)
}

// After checks if this date is after another
func (d Date) After(other Date) bool {
	return d.value.After(other.value)
}

// Equal checks if two dates are the same day
func (d Date) Equal(other Date) bool {
	return d.value.Equal(other.value)
}

// String returns YYYY-MM-DD, or an empty string for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.value.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
