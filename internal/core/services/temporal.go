package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/retrace-cli/internal/core/domain"
	"github.com/custodia-labs/retrace-cli/internal/matching"
)

// TemporalResolver converts relative and absolute date-time phrases
// into concrete date ranges against an injectable reference instant.
//
// Phrases resolve to full calendar boundaries: day-level phrases cover
// [00:00:00, 23:59:59] in the reference location, week phrases cover
// Monday through Sunday, month phrases the full calendar month.
type TemporalResolver struct{}

// NewTemporalResolver creates a resolver.
func NewTemporalResolver() *TemporalResolver {
	return &TemporalResolver{}
}

var (
	weekdayNames = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}

	monthNames = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}

	numberWords = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}

	agoPattern     = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten) (day|week|month)s? ago\b`)
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	usDatePattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// Resolve recognises the first temporal phrase in the given text and
// returns its date range, or nil when no phrase is recognised. The
// caller treats nil as "no temporal filter", never as an error.
func (r *TemporalResolver) Resolve(text string, ref time.Time) *domain.DateRange {
	// Absolute dates take precedence: they are unambiguous. They are
	// matched against the raw text because normalisation strips the
	// separators the patterns rely on.
	if rng := resolveAbsolute(strings.ToLower(text), ref); rng != nil {
		return rng
	}

	norm := matching.Normalize(text)
	if norm == "" {
		return nil
	}

	if rng := resolveRelativeDay(norm, ref); rng != nil {
		return rng
	}
	if rng := resolveRelativeSpan(norm, ref); rng != nil {
		return rng
	}
	if rng := resolveAgo(norm, ref); rng != nil {
		return rng
	}
	if rng := resolveWeekday(norm, ref); rng != nil {
		return rng
	}
	if rng := resolveMonthName(norm, ref); rng != nil {
		return rng
	}
	return nil
}

func resolveRelativeDay(norm string, ref time.Time) *domain.DateRange {
	switch {
	case strings.Contains(norm, "yesterday"):
		return dayRange(ref.AddDate(0, 0, -1))
	case strings.Contains(norm, "tomorrow"):
		return dayRange(ref.AddDate(0, 0, 1))
	case strings.Contains(norm, "today"):
		return dayRange(ref)
	default:
		return nil
	}
}

func resolveRelativeSpan(norm string, ref time.Time) *domain.DateRange {
	switch {
	case strings.Contains(norm, "last week"):
		return weekRange(ref.AddDate(0, 0, -7))
	case strings.Contains(norm, "this week"):
		return weekRange(ref)
	case strings.Contains(norm, "last month"):
		return monthRange(ref.AddDate(0, -1, 0))
	case strings.Contains(norm, "this month"):
		return monthRange(ref)
	case strings.Contains(norm, "last year"):
		return yearRange(ref.AddDate(-1, 0, 0))
	case strings.Contains(norm, "this year"):
		return yearRange(ref)
	default:
		return nil
	}
}

func resolveAgo(norm string, ref time.Time) *domain.DateRange {
	m := agoPattern.FindStringSubmatch(norm)
	if m == nil {
		return nil
	}

	n, ok := numberWords[m[1]]
	if !ok {
		parsed, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		n = parsed
	}

	switch m[2] {
	case "day":
		return dayRange(ref.AddDate(0, 0, -n))
	case "week":
		return weekRange(ref.AddDate(0, 0, -7*n))
	case "month":
		return monthRange(ref.AddDate(0, -n, 0))
	default:
		return nil
	}
}

// resolveWeekday handles "last tuesday", "this tuesday", and bare
// weekday names. "Last X" and a bare weekday resolve to the most
// recent occurrence strictly before the reference day: "last Tuesday"
// asked on a Tuesday means seven days prior, never today.
// "This X" resolves within the current Monday-based week.
func resolveWeekday(norm string, ref time.Time) *domain.DateRange {
	tokens := strings.Fields(norm)
	for i, tok := range tokens {
		wd, ok := weekdayNames[tok]
		if !ok {
			continue
		}

		qualifier := ""
		if i > 0 {
			qualifier = tokens[i-1]
		}

		if qualifier == "this" {
			monday := startOfWeek(ref)
			offset := (int(wd) - int(time.Monday) + 7) % 7
			return dayRange(monday.AddDate(0, 0, offset))
		}

		// Most recent strictly prior occurrence.
		delta := (int(ref.Weekday()) - int(wd) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return dayRange(ref.AddDate(0, 0, -delta))
	}
	return nil
}

// resolveMonthName handles "in june" and bare month names, picking the
// most recent occurrence not after the reference month.
func resolveMonthName(norm string, ref time.Time) *domain.DateRange {
	for _, tok := range strings.Fields(norm) {
		month, ok := monthNames[tok]
		if !ok {
			continue
		}
		year := ref.Year()
		if month > ref.Month() {
			year--
		}
		return monthRange(time.Date(year, month, 1, 0, 0, 0, 0, ref.Location()))
	}
	return nil
}

func resolveAbsolute(norm string, ref time.Time) *domain.DateRange {
	if m := isoDatePattern.FindStringSubmatch(norm); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validDate(year, month, day) {
			return dayRange(time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location()))
		}
	}
	if m := usDatePattern.FindStringSubmatch(norm); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if validDate(year, month, day) {
			return dayRange(time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location()))
		}
	}
	return nil
}

func validDate(year, month, day int) bool {
	if year < 1970 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return int(t.Month()) == month && t.Day() == day
}

func dayRange(t time.Time) *domain.DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	return &domain.DateRange{Start: start, End: end}
}

// startOfWeek returns midnight on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

func weekRange(t time.Time) *domain.DateRange {
	start := startOfWeek(t)
	end := start.AddDate(0, 0, 6)
	return &domain.DateRange{
		Start: start,
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location()),
	}
}

func monthRange(t time.Time) *domain.DateRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := start.AddDate(0, 1, -1)
	return &domain.DateRange{
		Start: start,
		End:   time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, last.Location()),
	}
}

func yearRange(t time.Time) *domain.DateRange {
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	return &domain.DateRange{
		Start: start,
		End:   time.Date(t.Year(), 12, 31, 23, 59, 59, 0, t.Location()),
	}
}
