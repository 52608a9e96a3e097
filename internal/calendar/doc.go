// Package calendar provides a date-only value type for scheduling arithmetic.
//
// A Date has no time-of-day and no location. Work order dates cross API
// boundaries as ISO "YYYY-MM-DD" strings and are parsed straight into a
// Date, so a conversion can never move a day across a timezone boundary.
//
// Arithmetic is done on UTC midnights internally, where every day is exactly
// 24 hours long:
//   - AddDays steps whole calendar days
//   - AddMonths steps calendar months, clamping the day to the month's end
//   - DaysBetween returns exact whole-day differences
//
// "Today" is obtained through a Clock so callers and tests can pin it.
package calendar
