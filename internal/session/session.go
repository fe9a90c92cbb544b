// Package session provides simulator session file handling and persistence.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cvd-simulator/internal/cvd"
)

// Extension is the session file suffix.
const Extension = ".cvdsession"

// File represents a simulator session file: which image was open and the
// simulation settings in effect.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Image path (relative to session file)
	ImagePath string `json:"image,omitempty"`

	// Simulation settings
	Deficiency string  `json:"deficiency"`
	Severity   float64 `json:"severity"`
	Daltonize  bool    `json:"daltonize"`

	// Optional calibration table override (relative to session file)
	TablePath string `json:"table,omitempty"`
}

// New creates a session with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:    1,
		Name:       name,
		Created:    now,
		Modified:   now,
		Deficiency: cvd.Protanopia.Key(),
		Severity:   1.0,
	}
}

// Load loads a session from a .cvdsession file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if _, ok := cvd.ParseDeficiency(f.Deficiency); !ok {
		return nil, fmt.Errorf("session has unknown deficiency %q", f.Deficiency)
	}

	return &f, nil
}

// Save saves the session to a file.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path, stored relative to the session file.
func (f *File) SetImage(sessionPath, imagePath string) {
	f.ImagePath = relativeTo(sessionPath, imagePath)
	f.Modified = time.Now()
}

// GetImagePath returns the absolute path to the session's image.
func (f *File) GetImagePath(sessionPath string) string {
	return absoluteFrom(sessionPath, f.ImagePath)
}

// SetTable sets the calibration table path, stored relative to the session
// file.
func (f *File) SetTable(sessionPath, tablePath string) {
	f.TablePath = relativeTo(sessionPath, tablePath)
	f.Modified = time.Now()
}

// GetTablePath returns the absolute path to the session's calibration
// table, or "" if the session uses the built-in data.
func (f *File) GetTablePath(sessionPath string) string {
	return absoluteFrom(sessionPath, f.TablePath)
}

func relativeTo(basePath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(basePath), target)
	if err != nil {
		return target
	}
	return rel
}

func absoluteFrom(basePath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(basePath), stored)
}
