package contacts

import (
	"fmt"
	"strings"
)

// Record holds one contact: a name, its phones in insertion order and an optional birthday
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record with no phones and no birthday
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact name
func (r *Record) Name() Name {
	return r.name
}

// Phones returns a copy of the phone list
func (r *Record) Phones() []Phone {
	phones := make([]Phone, len(r.phones))
	copy(phones, r.phones)
	return phones
}

// Birthday returns the birthday and whether it is set
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone appends a phone. Duplicates are kept.
func (r *Record) AddPhone(value string) error {
	phone, err := NewPhone(value)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// RemovePhone removes the first phone equal to value, if any
func (r *Record) RemovePhone(value string) {
	if i := r.indexOf(value); i >= 0 {
		r.phones = append(r.phones[:i], r.phones[i+1:]...)
	}
}

// EditPhone replaces the first phone equal to old with newValue.
// The replacement goes to the end of the list.
func (r *Record) EditPhone(old, newValue string) error {
	i := r.indexOf(old)
	if i < 0 {
		return &NotFoundError{Kind: "phone", Value: old}
	}

	phone, err := NewPhone(newValue)
	if err != nil {
		return err
	}

	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	r.phones = append(r.phones, phone)
	return nil
}

// FindPhone returns the first phone equal to value
func (r *Record) FindPhone(value string) (Phone, bool) {
	if i := r.indexOf(value); i >= 0 {
		return r.phones[i], true
	}
	return Phone{}, false
}

// AddBirthday sets the birthday, replacing any previous one
func (r *Record) AddBirthday(value string) error {
	birthday, err := NewBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = &birthday
	return nil
}

func (r *Record) String() string {
	phones := make([]string, len(r.phones))
	for i, p := range r.phones {
		phones[i] = p.String()
	}
	return fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(phones, "; "))
}

func (r *Record) indexOf(value string) int {
	for i, p := range r.phones {
		if p.value == value {
			return i
		}
	}
	return -1
}
