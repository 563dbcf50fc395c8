package filetime

import "fmt"

// SystemTime holds the calendar fields of a tick count, in UTC.
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// String formats the calendar fields like "2024-02-29 13:45:07.250".
func (s SystemTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		s.Year, s.Month, s.Day, s.Hour, s.Minute, s.Second, s.Milliseconds)
}

// monthYearDay holds the cumulative days before each month, for non-leap and
// leap years.
//
//nolint:gochecknoglobals
var monthYearDay = [2][13]int64{
	{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365},
	{0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335, 366},
}

const firstYear = 1601

func isLeap(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// floorDiv is integer division rounding towards negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// leapsThrough counts the leap days from year 1 through the end of year.
func leapsThrough(year int64) int64 {
	return floorDiv(year, 4) - floorDiv(year, 100) + floorDiv(year, 400)
}

func yearLength(year int64) int64 {
	if isLeap(year) {
		return 366
	}

	return 365
}

// ToSystemTime decomposes a tick count into proleptic Gregorian calendar
// fields. Negative tick counts are rejected.
func ToSystemTime(t Ticks) (SystemTime, error) {
	if t < 0 {
		return SystemTime{}, fmt.Errorf("%w: %d", ErrNegativeTicks, t)
	}

	days := int64(t / TicksPerDay)
	rem := t % TicksPerDay

	st := SystemTime{}

	st.Hour = uint16(rem / TicksPerHour) //nolint:gosec
	rem %= TicksPerHour
	st.Minute = uint16(rem / TicksPerMinute) //nolint:gosec
	rem %= TicksPerMinute
	st.Second = uint16(rem / TicksPerSecond) //nolint:gosec
	rem %= TicksPerSecond
	st.Milliseconds = uint16(rem / TicksPerMillisecond) //nolint:gosec

	// 1601-01-01 was a Monday, Sunday is 0.
	st.DayOfWeek = uint16((1 + days) % 7) //nolint:gosec

	year := int64(firstYear)
	for days < 0 || days >= yearLength(year) {
		guess := year + floorDiv(days, 365)
		days -= (guess-year)*365 + leapsThrough(guess-1) - leapsThrough(year-1)
		year = guess
	}
	st.Year = uint16(year) //nolint:gosec

	table := &monthYearDay[0]
	if isLeap(year) {
		table = &monthYearDay[1]
	}

	month := 11
	for days < table[month] {
		month--
	}
	days -= table[month]

	st.Month = uint16(month + 1) //nolint:gosec
	st.Day = uint16(days + 1)    //nolint:gosec

	return st, nil
}
