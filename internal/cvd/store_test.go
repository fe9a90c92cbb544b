package cvd

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestStoreResolveBeforeLoad(t *testing.T) {
	s := NewStore()
	if _, ok := s.Resolve(Protanopia, 0.5); ok {
		t.Error("Resolve before Load reported ok")
	}
	if s.Loaded() {
		t.Error("new store reports loaded")
	}
}

func TestStoreLoadEmbedded(t *testing.T) {
	s := NewStore()
	if err := s.Load(""); err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	if !s.Loaded() {
		t.Fatal("store not loaded after successful Load")
	}
	for _, d := range Deficiencies() {
		if _, ok := s.Resolve(d, 1.0); !ok {
			t.Errorf("Resolve(%v, 1.0) unavailable after load", d)
		}
	}
}

func TestStoreLoadFailureLeavesUnloaded(t *testing.T) {
	s := NewStore()

	err := s.Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load of missing file succeeded")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error %v is not a *LoadError", err)
	}
	if s.Loaded() {
		t.Fatal("store loaded after failed Load")
	}
	if _, ok := s.Resolve(Protanopia, 0.5); ok {
		t.Error("Resolve after failed Load reported ok")
	}

	// A later attempt against a good source must succeed.
	if err := s.Load(""); err != nil {
		t.Fatalf("retry Load: %v", err)
	}
	if !s.Loaded() {
		t.Error("store not loaded after retry")
	}
}

func TestStoreLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	if err := os.WriteFile(path, []byte(`{"protan": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	err := s.Load(path)
	if err == nil {
		t.Fatal("Load of malformed table succeeded")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error %v is not a *LoadError", err)
	}
	if s.Loaded() {
		t.Error("store loaded after malformed Load")
	}

	if err := os.WriteFile(path, []byte(twoSampleTable), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(path); err != nil {
		t.Fatalf("Load after fixing file: %v", err)
	}
	if _, ok := s.Resolve(Protanopia, 0.5); !ok {
		t.Error("Resolve unavailable after successful reload")
	}
}

func TestStoreLoadIdempotent(t *testing.T) {
	s := NewStore()
	if err := s.Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := s.Table()

	// The second load must return the cached table, not re-parse.
	if err := s.Load("definitely/not/a/real/path.json"); err != nil {
		t.Fatalf("Load after success returned error: %v", err)
	}
	if s.Table() != first {
		t.Error("second Load replaced the cached table")
	}
}

func TestStoreConcurrentResolveDuringLoad(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Must never observe a torn table: either unavailable or
				// a fully valid matrix.
				if m, ok := s.Resolve(Deuteranopia, 0.7); ok {
					if m == (Matrix{}) {
						t.Error("Resolve returned ok with a zero matrix")
						return
					}
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Load(""); err != nil {
			t.Errorf("Load: %v", err)
		}
	}()
	wg.Wait()

	if _, ok := s.Resolve(Deuteranopia, 0.7); !ok {
		t.Error("Resolve unavailable after concurrent load finished")
	}
}
