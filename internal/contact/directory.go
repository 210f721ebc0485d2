package contact

// Directory maps contact names to records. Names are unique; adding a record
// under an existing name replaces the old record but keeps its position in
// enumeration order.
// It is not safe for concurrent use; callers confine it to one goroutine.
type Directory struct {
	records map[string]*Record
	order   []string
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Add inserts rec keyed by its name, overwriting any existing entry.
func (d *Directory) Add(rec *Record) {
	if _, ok := d.records[rec.name]; !ok {
		d.order = append(d.order, rec.name)
	}
	d.records[rec.name] = rec
}

// Find returns the record stored under name.
func (d *Directory) Find(name string) (*Record, bool) {
	rec, ok := d.records[name]
	return rec, ok
}

// Delete removes the entry for name and reports whether one existed.
func (d *Directory) Delete(name string) bool {
	if _, ok := d.records[name]; !ok {
		return false
	}
	delete(d.records, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every record in insertion order.
func (d *Directory) All() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}
