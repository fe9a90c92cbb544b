package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cvd-simulator/internal/cvd"
)

func TestNewDefaults(t *testing.T) {
	f := New("demo")
	if f.Version != 1 {
		t.Errorf("Version = %d, want 1", f.Version)
	}
	if f.Deficiency != cvd.Protanopia.Key() {
		t.Errorf("Deficiency = %q, want %q", f.Deficiency, cvd.Protanopia.Key())
	}
	if f.Severity != 1.0 {
		t.Errorf("Severity = %v, want 1.0", f.Severity)
	}
	if f.Created.IsZero() || f.Modified.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo"+Extension)

	f := New("demo")
	f.Deficiency = cvd.Tritanopia.Key()
	f.Severity = 0.6
	f.Daltonize = true
	f.SetImage(path, filepath.Join(dir, "scans", "photo.png"))

	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d := cmp.Diff(f, got, cmpopts.EquateApproxTime(time.Second)); d != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", d)
	}
	if got.ImagePath != filepath.Join("scans", "photo.png") {
		t.Errorf("image stored as %q, want relative path", got.ImagePath)
	}
	if want := filepath.Join(dir, "scans", "photo.png"); got.GetImagePath(path) != want {
		t.Errorf("GetImagePath = %q, want %q", got.GetImagePath(path), want)
	}
}

func TestLoadRejectsUnknownDeficiency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+Extension)
	if err := os.WriteFile(path, []byte(`{"version":1,"deficiency":"achromat","severity":0.5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted an unknown deficiency")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none"+Extension)); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestTablePathEmptyMeansBuiltin(t *testing.T) {
	f := New("demo")
	if got := f.GetTablePath("/tmp/s" + Extension); got != "" {
		t.Errorf("GetTablePath = %q, want empty for built-in data", got)
	}
}

func TestAbsolutePathPreserved(t *testing.T) {
	f := New("demo")
	f.TablePath = "/etc/cvd/table.json"
	if got := f.GetTablePath("/home/user/s" + Extension); got != "/etc/cvd/table.json" {
		t.Errorf("GetTablePath = %q, want absolute path preserved", got)
	}
}
