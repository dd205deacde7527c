package archive

import "github.com/veeg-labs/disir-go/pkg/core/status"

// MemStager is an in-memory Stager, sufficient for small archives and
// tests; pkg/adapter/archivefs provides a filesystem-backed one for
// large archives that should not hold every entry's bytes at once.
type MemStager struct {
	order []EntryRef
	data  map[EntryRef][]byte
}

// NewMemStager returns an empty MemStager.
func NewMemStager() *MemStager {
	return &MemStager{data: make(map[EntryRef][]byte)}
}

// Put stores data under (group, entryID), overwriting any prior value
// without changing its position in List's order.
func (s *MemStager) Put(group, entryID string, data []byte) error {
	ref := EntryRef{Group: group, EntryID: entryID}
	if _, exists := s.data[ref]; !exists {
		s.order = append(s.order, ref)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[ref] = cp
	return nil
}

// Get returns the bytes staged under (group, entryID).
func (s *MemStager) Get(group, entryID string) ([]byte, error) {
	ref := EntryRef{Group: group, EntryID: entryID}
	data, ok := s.data[ref]
	if !ok {
		return nil, status.New(status.NotExist, "no staged entry for %s/%s", group, entryID)
	}
	return data, nil
}

// List returns every staged entry ref in the order first staged.
func (s *MemStager) List() []EntryRef {
	return append([]EntryRef(nil), s.order...)
}
