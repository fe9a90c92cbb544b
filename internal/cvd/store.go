package cvd

import (
	_ "embed"
	"os"
	"sync"
)

// Calibration data from Machado, Oliveira & Fernandes (2009), sampled at
// severity tenths for each deficiency.
//
//go:embed machado.json
var machadoJSON []byte

// Store owns the cached matrix table. It starts unloaded; Load populates
// it once and later calls return the cached table without re-reading the
// source. A failed Load leaves the store unloaded so it can be retried.
// Resolve is safe to call concurrently with Load and reports unavailable
// until a load has succeeded.
type Store struct {
	mu    sync.RWMutex
	table *Table
}

// NewStore returns an unloaded Store.
func NewStore() *Store {
	return &Store{}
}

// Load builds the table from the given locator. An empty locator selects
// the embedded calibration data; anything else is read as a file path in
// the same schema. Idempotent after the first success.
func (s *Store) Load(locator string) error {
	s.mu.RLock()
	loaded := s.table != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	data := machadoJSON
	if locator != "" {
		var err error
		data, err = os.ReadFile(locator)
		if err != nil {
			return &LoadError{Reason: "read source", Err: err}
		}
	}

	table, err := ParseTable(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.table == nil {
		s.table = table
	}
	s.mu.Unlock()
	return nil
}

// Loaded reports whether a table has been successfully loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}

// Table returns the loaded table, or nil while the store is unloaded.
func (s *Store) Table() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Resolve looks up the transform matrix for d at the given severity.
// It reports ok == false while the store is unloaded or the table has no
// samples for d; callers should treat that as "skip this frame", not as
// an error.
func (s *Store) Resolve(d Deficiency, severity float64) (Matrix, bool) {
	t := s.Table()
	if t == nil {
		return Matrix{}, false
	}
	return t.Resolve(d, severity)
}
