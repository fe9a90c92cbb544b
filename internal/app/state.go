// Package app provides application state, events, and runtime services.
package app

import (
	"image"
	"sync"

	"cvd-simulator/internal/cvd"
	"cvd-simulator/internal/imageio"
	"cvd-simulator/internal/session"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventSimulationUpdated
	EventSettingsChanged
	EventSessionLoaded
	EventSessionSaved
	EventTableReloaded
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the open image, its simulated
// rendition, and the active simulation settings.
type State struct {
	mu sync.RWMutex

	SessionPath string
	Modified    bool

	// Images
	ImagePath string
	Source    *image.RGBA
	Simulated *image.RGBA

	// Simulation settings
	Deficiency cvd.Deficiency
	Severity   float64
	Daltonize  bool

	// Calibration table override ("" = built-in data)
	TablePath string

	store *cvd.Store

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new application state with an unloaded matrix store.
func NewState() *State {
	return &State{
		Deficiency: cvd.Protanopia,
		Severity:   1.0,
		store:      cvd.NewStore(),
		listeners:  make(map[EventType][]EventListener),
	}
}

// Store returns the matrix store handle shared by all lookups.
func (s *State) Store() *cvd.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// ReplaceStore swaps in a freshly loaded matrix store, used by the table
// watcher after the calibration file changes. Readers holding the old
// store keep a valid table.
func (s *State) ReplaceStore(store *cvd.Store) {
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	s.Emit(EventTableReloaded, nil)
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage loads an image and makes it the simulation source. The
// previous simulated rendition is dropped.
func (s *State) LoadImage(path string) error {
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ImagePath = path
	s.Source = img
	s.Simulated = nil
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventImageLoaded, path)
	return nil
}

// SetSimulated stores the latest simulated rendition.
func (s *State) SetSimulated(img *image.RGBA) {
	s.mu.Lock()
	s.Simulated = img
	s.mu.Unlock()
	s.Emit(EventSimulationUpdated, nil)
}

// Images returns the current source and simulated buffers.
func (s *State) Images() (src, sim *image.RGBA) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Source, s.Simulated
}

// Settings returns a consistent snapshot of the simulation settings.
func (s *State) Settings() (cvd.Deficiency, float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Deficiency, s.Severity, s.Daltonize
}

// SetDeficiency updates the active deficiency.
func (s *State) SetDeficiency(d cvd.Deficiency) {
	s.mu.Lock()
	if s.Deficiency == d {
		s.mu.Unlock()
		return
	}
	s.Deficiency = d
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventSettingsChanged, nil)
}

// SetSeverity updates the severity setting.
func (s *State) SetSeverity(severity float64) {
	s.mu.Lock()
	if s.Severity == severity {
		s.mu.Unlock()
		return
	}
	s.Severity = severity
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventSettingsChanged, nil)
}

// SetDaltonize toggles corrective mode.
func (s *State) SetDaltonize(enabled bool) {
	s.mu.Lock()
	if s.Daltonize == enabled {
		s.mu.Unlock()
		return
	}
	s.Daltonize = enabled
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventSettingsChanged, nil)
}

// LoadSession restores settings and the referenced image from a session
// file.
func (s *State) LoadSession(path string) error {
	f, err := session.Load(path)
	if err != nil {
		return err
	}

	d, _ := cvd.ParseDeficiency(f.Deficiency)

	s.mu.Lock()
	s.SessionPath = path
	s.Deficiency = d
	s.Severity = f.Severity
	s.Daltonize = f.Daltonize
	s.TablePath = f.GetTablePath(path)
	s.Modified = false
	s.mu.Unlock()

	if imagePath := f.GetImagePath(path); imagePath != "" {
		if err := s.LoadImage(imagePath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSettingsChanged, nil)
	s.Emit(EventSessionLoaded, path)
	return nil
}

// SaveSession writes the current settings to a session file.
func (s *State) SaveSession(path string) error {
	s.mu.RLock()
	f := session.New("")
	f.Deficiency = s.Deficiency.Key()
	f.Severity = s.Severity
	f.Daltonize = s.Daltonize
	if s.ImagePath != "" {
		f.SetImage(path, s.ImagePath)
	}
	if s.TablePath != "" {
		f.SetTable(path, s.TablePath)
	}
	s.mu.RUnlock()

	if err := f.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionSaved, path)
	return nil
}
