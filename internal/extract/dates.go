package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/slipline/slipline/internal/pkg/models"
)

// Hungarian weekday and month names as printed in slip date headers.
var weekdayNames = map[string]int{
	"hétfő":     0,
	"kedd":      1,
	"szerda":    2,
	"csütörtök": 3,
	"péntek":    4,
	"szombat":   5,
	"vasárnap":  6,
}

var monthNames = map[string]time.Month{
	"január":     time.January,
	"február":    time.February,
	"március":    time.March,
	"április":    time.April,
	"május":      time.May,
	"június":     time.June,
	"július":     time.July,
	"augusztus":  time.August,
	"szeptember": time.September,
	"október":    time.October,
	"november":   time.November,
	"december":   time.December,
}

// Anchor header: weekday name, then "(year. month day.)", parentheses
// optional. Example: "Péntek (2024. január 5.)".
var anchorRe = regexp.MustCompile(
	`(?i)^\s*(hétfő|kedd|szerda|csütörtök|péntek|szombat|vasárnap)\s*\(?\s*(\d{4})\.\s*([a-záéíóöőúüű]+)\s+(\d{1,2})\.\s*\)?\s*$`)

// Anchor maps a header line to its resolved date and weekday index
// (Monday = 0).
type Anchor struct {
	Line    int
	Date    time.Time
	Weekday int
}

// ParseAnchor recognizes a date header line.
func ParseAnchor(line string, lineNumber int) (Anchor, bool) {
	m := anchorRe.FindStringSubmatch(line)
	if m == nil {
		return Anchor{}, false
	}

	weekday, ok := weekdayNames[strings.ToLower(m[1])]
	if !ok {
		return Anchor{}, false
	}
	month, ok := monthNames[strings.ToLower(m[3])]
	if !ok {
		return Anchor{}, false
	}
	year, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[4])

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Anchor{Line: lineNumber, Date: date, Weekday: weekday}, true
}

// ScanAnchors collects all date headers from a source, in line order.
func ScanAnchors(lines []string) []Anchor {
	var anchors []Anchor
	for i, line := range lines {
		if a, ok := ParseAnchor(line, i+1); ok {
			anchors = append(anchors, a)
		}
	}
	return anchors
}

// DateResolver assigns calendar dates to match lines.
//
// The slips carry two date mechanisms that historically disagreed: explicit
// date headers plus weekday deltas, and a cursor that advances when the
// printed weekday code changes. This implementation makes headers
// authoritative: a line with a weekday code is dated from the nearest
// preceding header via (weekday - headerWeekday) mod 7, so a code "behind"
// the header lands in the following week, never before the header. The
// cursor only serves lines without their own weekday code, following the
// most recently resolved date. Lines before the first header get no date
// and are dropped by the caller.
type DateResolver struct {
	anchors    []Anchor
	cursor     time.Time
	haveCursor bool
}

// NewDateResolver builds a resolver over the source's anchors.
func NewDateResolver(anchors []Anchor) *DateResolver {
	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })
	return &DateResolver{anchors: sorted}
}

// Resolve returns the date for a line, or false when no date is available.
func (r *DateResolver) Resolve(c *models.ParsedLineCandidate) (time.Time, bool) {
	anchor, hasAnchor := r.nearestAnchor(c.LineNumber)

	if c.DayCode != "" {
		if !hasAnchor {
			return time.Time{}, false
		}
		dayIdx, ok := dayCodes[c.DayCode]
		if !ok {
			return time.Time{}, false
		}
		delta := ((dayIdx - anchor.Weekday) % 7 + 7) % 7
		date := anchor.Date.AddDate(0, 0, delta)
		r.cursor = date
		r.haveCursor = true
		return date, true
	}

	if hasAnchor {
		date := anchor.Date
		if r.haveCursor && !r.cursor.Before(anchor.Date) {
			date = r.cursor
		}
		r.cursor = date
		r.haveCursor = true
		return date, true
	}
	if r.haveCursor {
		return r.cursor, true
	}
	return time.Time{}, false
}

// nearestAnchor finds the last anchor at or before the line.
func (r *DateResolver) nearestAnchor(lineNumber int) (Anchor, bool) {
	i := sort.Search(len(r.anchors), func(i int) bool {
		return r.anchors[i].Line > lineNumber
	})
	if i == 0 {
		return Anchor{}, false
	}
	return r.anchors[i-1], true
}
