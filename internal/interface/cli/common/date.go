package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	whencommon "github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/YoshitsuguKoike/deetodo/internal/domain/model"
)

var (
	relativeDate = regexp.MustCompile(`^in (\d+) (day|week|month)s?$`)
	isoShaped    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var naturalDates = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(whencommon.All...)
	return w
}()

// ParseDate resolves a due date relative to today. Accepted forms:
// YYYY-MM-DD, today, tomorrow, yesterday, "in N days|weeks|months",
// and English phrases such as "next friday" or "march 15".
func ParseDate(input string, today model.Date) (model.Date, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return model.Date{}, fmt.Errorf("empty date")
	}

	if isoShaped.MatchString(s) {
		return model.ParseDate(s)
	}

	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	if m := relativeDate.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return model.Date{}, fmt.Errorf("could not parse date %q: %w", input, err)
		}
		switch m[2] {
		case "day":
			return today.AddDays(n), nil
		case "week":
			return today.AddDays(7 * n), nil
		default:
			return today.AddMonthsClamped(n), nil
		}
	}

	base := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.Local)
	r, err := naturalDates.Parse(s, base)
	// a match on part of the input ("friday next to nothing") is not a date
	if err == nil && r != nil && r.Index == 0 && len(r.Text) == len(s) {
		return model.DateOf(r.Time), nil
	}

	return model.Date{}, fmt.Errorf(`could not parse date %q

Accepted formats:
  * Strict format:    YYYY-MM-DD (e.g. 2026-02-20)
  * Relative:         today, tomorrow, in 3 days, in 2 weeks, in 1 month
  * Natural language: next friday, monday, march 20`, strings.TrimSpace(input))
}
