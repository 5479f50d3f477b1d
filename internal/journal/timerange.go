package journal

import (
	"fmt"
	"strings"
	"time"
)

type rangeKind int

const (
	kindAllTime rangeKind = iota
	kindThisMonth
)

// AllTimeTag is the cache tag of the all-time range.
const AllTimeTag = "alltime"

// TimeRange selects which records an analysis looks at: everything, or the
// calendar month containing a reference date.
type TimeRange struct {
	kind rangeKind
	ref  time.Time
}

// AllTime returns the range covering every record.
func AllTime() TimeRange {
	return TimeRange{kind: kindAllTime}
}

// ThisMonth returns the range covering the calendar month of ref, evaluated
// in ref's location.
func ThisMonth(ref time.Time) TimeRange {
	return TimeRange{kind: kindThisMonth, ref: ref}
}

// ParseTimeRange accepts "all"/"alltime", "month" (the month of now) or an
// explicit "YYYY-MM".
func ParseTimeRange(s string, now time.Time) (TimeRange, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all", AllTimeTag, "all-time":
		return AllTime(), nil
	case "month", "this-month", "thismonth":
		return ThisMonth(now), nil
	default:
		t, err := time.ParseInLocation("2006-01", v, now.Location())
		if err != nil {
			return TimeRange{}, fmt.Errorf("invalid time range %q (want all, month or YYYY-MM)", s)
		}
		return ThisMonth(t), nil
	}
}

// IsAllTime reports whether r covers every record.
func (r TimeRange) IsAllTime() bool {
	return r.kind == kindAllTime
}

// Reference returns the anchor date of a month range (zero for all-time).
func (r TimeRange) Reference() time.Time {
	return r.ref
}

// Contains reports whether t falls inside r.
func (r TimeRange) Contains(t time.Time) bool {
	if r.kind == kindAllTime {
		return true
	}
	local := t.In(r.ref.Location())
	return local.Year() == r.ref.Year() && local.Month() == r.ref.Month()
}

// Equal compares ranges. Month ranges are equal when they share year and
// month, regardless of the day-of-month of their reference dates.
func (r TimeRange) Equal(o TimeRange) bool {
	if r.kind != o.kind {
		return false
	}
	if r.kind == kindAllTime {
		return true
	}
	return r.ref.Year() == o.ref.Year() && r.ref.Month() == o.ref.Month()
}

// Tag identifies the range in cache keys: "alltime" or "YYYY-MM".
func (r TimeRange) Tag() string {
	if r.kind == kindAllTime {
		return AllTimeTag
	}
	return r.ref.Format("2006-01")
}

// DisplayName is the human label of the range.
func (r TimeRange) DisplayName() string {
	if r.kind == kindAllTime {
		return "All Time"
	}
	return "This Month"
}

// String implements fmt.Stringer.
func (r TimeRange) String() string {
	return r.Tag()
}

// Dated is implemented by records that carry a timestamp.
type Dated interface {
	RecordDate() time.Time
}

// Filter keeps the records inside r, preserving their order. The all-time
// range returns records unchanged.
func Filter[T Dated](records []T, r TimeRange) []T {
	if r.IsAllTime() {
		return records
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.RecordDate()) {
			out = append(out, rec)
		}
	}
	return out
}
