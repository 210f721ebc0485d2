package contact

import "strings"

// Record is one contact: an immutable name and an ordered list of phones.
// Duplicate phones are allowed. Not safe for concurrent use.
type Record struct {
	name   string
	phones []Phone
}

// NewRecord creates a record for name, validating each initial phone in order.
// The first invalid phone fails construction.
func NewRecord(name string, phones ...string) (*Record, error) {
	r := &Record{name: name}
	for _, raw := range phones {
		if err := r.AddPhone(raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the contact name.
func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the record's phones in insertion order.
func (r *Record) Phones() []Phone {
	return append([]Phone(nil), r.phones...)
}

// AddPhone validates raw and appends it.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes the first phone equal to raw.
// It reports whether a phone was removed; an absent number is a no-op.
func (r *Record) RemovePhone(raw string) bool {
	i := r.index(raw)
	if i < 0 {
		return false
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	return true
}

// EditPhone replaces the first phone equal to oldRaw with newRaw.
// newRaw is validated before anything changes. It reports false with a nil
// error when oldRaw is not on the record.
func (r *Record) EditPhone(oldRaw, newRaw string) (bool, error) {
	p, err := NewPhone(newRaw)
	if err != nil {
		return false, err
	}
	i := r.index(oldRaw)
	if i < 0 {
		return false, nil
	}
	r.phones[i] = p
	return true, nil
}

// FindPhone returns the first phone equal to raw.
func (r *Record) FindPhone(raw string) (Phone, bool) {
	i := r.index(raw)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// String renders the record as "Contact name: <name>, phones: <p1>; <p2>".
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.value
	}
	return "Contact name: " + r.name + ", phones: " + strings.Join(values, "; ")
}

func (r *Record) index(raw string) int {
	for i, p := range r.phones {
		if p.value == raw {
			return i
		}
	}
	return -1
}
