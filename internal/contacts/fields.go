package contacts

import (
	"time"

	"github.com/username/address-book-bot/pkg/dateutil"
)

const phoneLength = 10

// Name is a contact name. It is the address book key.
type Name struct {
	value string
}

// NewName validates a contact name
func NewName(value string) (Name, error) {
	if value == "" {
		return Name{}, &ValidationError{Field: "name", Value: value, Reason: "Name cannot be empty."}
	}
	return Name{value: value}, nil
}

func (n Name) String() string {
	return n.value
}

// Phone is a phone number of exactly ten decimal digits
type Phone struct {
	value string
}

// NewPhone validates a phone number. Separators are not stripped.
func NewPhone(value string) (Phone, error) {
	if len(value) != phoneLength || !isDigits(value) {
		return Phone{}, &ValidationError{
			Field:  "phone",
			Value:  value,
			Reason: "Phone number must contain exactly 10 digits.",
		}
	}
	return Phone{value: value}, nil
}

func (p Phone) String() string {
	return p.value
}

// Birthday is a calendar date written as DD.MM.YYYY
type Birthday struct {
	date time.Time
}

// NewBirthday parses a DD.MM.YYYY date
func NewBirthday(value string) (Birthday, error) {
	date, err := dateutil.ParseDate(value)
	if err != nil || date.Year() < 1 {
		return Birthday{}, &ValidationError{
			Field:  "birthday",
			Value:  value,
			Reason: "Invalid date format. Use DD.MM.YYYY",
		}
	}
	return Birthday{date: date}, nil
}

// Date returns the birthday as a UTC calendar date
func (b Birthday) Date() time.Time {
	return b.date
}

func (b Birthday) String() string {
	return dateutil.FormatDate(b.date)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
