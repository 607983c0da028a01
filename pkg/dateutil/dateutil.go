// Package dateutil provides calendar bucketing helpers for reporting.
// All functions are pure: results depend only on the input instant and the
// organization's reporting location, never on the process-local zone.
package dateutil

import "time"

// StartOfDay returns midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the first day of the week containing t.
// weekStart configures which weekday opens the week (default calendars in
// this system start on Sunday).
func StartOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of the month containing t.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// StartOfYear returns midnight of January 1st of the year containing t.
func StartOfYear(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
}

// DayKey returns the canonical YYYY-MM-DD key for the calendar day
// containing t in loc. Records sharing a DayKey belong to the same bucket.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}

// DaysBetween returns the number of whole calendar days from a to b in loc.
// The result is negative when b precedes a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := StartOfDay(a, loc)
	end := StartOfDay(b, loc)
	return int(end.Sub(start).Hours() / 24)
}

// Dated is satisfied by any record carrying a timestamp.
type Dated interface {
	Timestamp() time.Time
}

// BucketByDay groups records into calendar-day buckets keyed by DayKey.
func BucketByDay[T Dated](records []T, loc *time.Location) map[string][]T {
	buckets := make(map[string][]T, len(records))
	for _, rec := range records {
		key := DayKey(rec.Timestamp(), loc)
		buckets[key] = append(buckets[key], rec)
	}
	return buckets
}

// BucketByWeek groups records into week buckets keyed by the week's start day.
func BucketByWeek[T Dated](records []T, weekStart time.Weekday, loc *time.Location) map[string][]T {
	buckets := make(map[string][]T)
	for _, rec := range records {
		key := DayKey(StartOfWeek(rec.Timestamp(), weekStart, loc), loc)
		buckets[key] = append(buckets[key], rec)
	}
	return buckets
}

// BucketByMonth groups records into month buckets keyed YYYY-MM.
func BucketByMonth[T Dated](records []T, loc *time.Location) map[string][]T {
	buckets := make(map[string][]T)
	for _, rec := range records {
		key := rec.Timestamp().In(loc).Format("2006-01")
		buckets[key] = append(buckets[key], rec)
	}
	return buckets
}

// ParseWeekday maps a config value like "SUNDAY" or "monday" onto a
// time.Weekday, defaulting to Sunday for unknown input.
func ParseWeekday(raw string) time.Weekday {
	switch raw {
	case "MONDAY", "monday", "Monday":
		return time.Monday
	case "TUESDAY", "tuesday", "Tuesday":
		return time.Tuesday
	case "WEDNESDAY", "wednesday", "Wednesday":
		return time.Wednesday
	case "THURSDAY", "thursday", "Thursday":
		return time.Thursday
	case "FRIDAY", "friday", "Friday":
		return time.Friday
	case "SATURDAY", "saturday", "Saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
