package contacts

import (
	"time"

	"github.com/username/address-book-bot/pkg/dateutil"
)

// DefaultUpcomingWindow is the default number of days UpcomingBirthdays looks ahead
const DefaultUpcomingWindow = 7

// passedBirthdayOffset is added to an anniversary that already passed this year.
// It is a flat offset, not a calendar-aware "same day next year".
const passedBirthdayOffset = 366

// Congratulation is an upcoming birthday with its weekend-adjusted date
type Congratulation struct {
	Name               string `json:"name" yaml:"name"`
	CongratulationDate string `json:"congratulation_date" yaml:"congratulation_date"`
}

// UpcomingBirthdays returns contacts whose birthday falls within the next days
// days, counting from today's local date
func (b *AddressBook) UpcomingBirthdays(days int) []Congratulation {
	return b.UpcomingBirthdaysAt(b.now(), days)
}

// UpcomingBirthdaysAt is UpcomingBirthdays with an explicit today.
// Results follow the book order. Records are never modified.
func (b *AddressBook) UpcomingBirthdaysAt(today time.Time, days int) []Congratulation {
	today = dateutil.CalendarDate(today)
	upcoming := []Congratulation{}

	for _, key := range b.order {
		record := b.records[key]
		if record.birthday == nil {
			continue
		}

		date, ok := nextCongratulation(record.birthday.Date(), today, days)
		if !ok {
			continue
		}

		upcoming = append(upcoming, Congratulation{
			Name:               key,
			CongratulationDate: dateutil.FormatDate(date),
		})
	}

	return upcoming
}

// nextCongratulation applies the birthday's month and day to today's year,
// rolls it forward if it already passed, checks the window and moves weekend
// dates to Monday
func nextCongratulation(birthday, today time.Time, days int) (time.Time, bool) {
	// 29 February on a common year normalizes to 1 March
	candidate := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = candidate.AddDate(0, 0, passedBirthdayOffset)
	}

	diff := dateutil.DaysBetween(today, candidate)
	if diff < 0 || diff > days {
		return time.Time{}, false
	}

	return dateutil.AdjustForWeekend(candidate), true
}
