package contacts

import (
	"strings"
	"time"

	"github.com/username/address-book-bot/pkg/dateutil"
)

const bookBorder = "--------------------------"

// AddressBook maps contact names to records, keeping insertion order for listing.
// It is not safe for concurrent use; one session owns it.
type AddressBook struct {
	records map[string]*Record
	order   []string
	now     func() time.Time
}

// New creates an empty address book
func New() *AddressBook {
	return &AddressBook{
		records: make(map[string]*Record),
		now:     dateutil.Today,
	}
}

// WithClock replaces the clock used by UpcomingBirthdays
func (b *AddressBook) WithClock(now func() time.Time) *AddressBook {
	b.now = now
	return b
}

// AddRecord stores the record under its name. An existing record with the
// same name is replaced and keeps its position. Records without a name
// (not built by NewRecord) are ignored.
func (b *AddressBook) AddRecord(record *Record) {
	if record == nil || record.name.String() == "" {
		return
	}
	key := record.name.String()
	if _, ok := b.records[key]; !ok {
		b.order = append(b.order, key)
	}
	b.records[key] = record
}

// Find returns the record for name
func (b *AddressBook) Find(name string) (*Record, bool) {
	record, ok := b.records[name]
	return record, ok
}

// Delete removes the record for name, if present
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	for i, key := range b.order {
		if key == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Records returns all records in insertion order
func (b *AddressBook) Records() []*Record {
	records := make([]*Record, 0, len(b.order))
	for _, key := range b.order {
		records = append(records, b.records[key])
	}
	return records
}

// Len returns the number of records
func (b *AddressBook) Len() int {
	return len(b.order)
}

func (b *AddressBook) String() string {
	var sb strings.Builder
	sb.WriteString("\nYour address book\n")
	sb.WriteString(bookBorder + "\n")
	for _, record := range b.Records() {
		sb.WriteString(record.String())
		sb.WriteString("\n")
	}
	sb.WriteString(bookBorder + "\n")
	return sb.String()
}
