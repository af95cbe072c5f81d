package workspace

// UnitSet is the subset of a workspace classified as buildable units, kept
// in name order.
type UnitSet struct {
	units []PackageRecord
	index map[string]int
}

// NewUnitSet builds a set from records that are already known to be units.
// Later duplicates of a name are ignored.
func NewUnitSet(records []PackageRecord) *UnitSet {
	s := &UnitSet{index: make(map[string]int, len(records))}
	for _, rec := range records {
		if _, dup := s.index[rec.Name]; dup {
			continue
		}
		s.index[rec.Name] = len(s.units)
		s.units = append(s.units, rec)
	}
	return s
}

// Len returns the number of units.
func (s *UnitSet) Len() int { return len(s.units) }

// Lookup returns the unit named name.
func (s *UnitSet) Lookup(name string) (PackageRecord, bool) {
	i, ok := s.index[name]
	if !ok {
		return PackageRecord{}, false
	}
	return s.units[i], true
}

// Contains reports whether name is a unit.
func (s *UnitSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Units returns the units in stable order. The slice must not be modified.
func (s *UnitSet) Units() []PackageRecord { return s.units }

// Names returns the unit names in stable order.
func (s *UnitSet) Names() []string {
	out := make([]string, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u.Name)
	}
	return out
}
