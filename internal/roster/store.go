package roster

// Store holds the ordered employee sequence for the lifetime of a session.
// It is not safe for concurrent use; the TUI mutates it from a single loop.
//
// None of the operations fail. Missing ids degrade to no-ops.
type Store struct {
	records []Employee
}

// NewStore returns a store seeded with a copy of records.
func NewStore(records ...Employee) *Store {
	s := &Store{}
	s.records = append(s.records, records...)
	return s
}

// Add appends e to the end of the sequence.
func (s *Store) Add(e Employee) {
	s.records = append(s.records, e)
}

// Delete removes every record whose ID equals id and keeps the relative order
// of the rest. It returns the number of records removed.
func (s *Store) Delete(id string) int {
	kept := make([]Employee, 0, len(s.records))
	for _, rec := range s.records {
		if rec.ID == id {
			continue
		}
		kept = append(kept, rec)
	}
	removed := len(s.records) - len(kept)
	if removed > 0 {
		s.records = kept
	}
	return removed
}

// Update replaces, in place, each record whose ID equals e.ID. It returns the
// number of records replaced.
func (s *Store) Update(e Employee) int {
	replaced := 0
	for i := range s.records {
		if s.records[i].ID == e.ID {
			s.records[i] = e
			replaced++
		}
	}
	return replaced
}

// Find returns the first record in sequence order whose ID equals id.
func (s *Store) Find(id string) (Employee, bool) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Employee{}, false
}

// All returns a copy of the sequence.
func (s *Store) All() []Employee {
	out := make([]Employee, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports how many records are held.
func (s *Store) Len() int {
	return len(s.records)
}
