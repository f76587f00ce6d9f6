package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// ManifestVersion is the current schema version
	ManifestVersion = 1

	// ManifestFilename is the default manifest filename
	ManifestFilename = "manifest.json"
)

// Manifest stores the pack state for all source roots.
type Manifest struct {
	Version  int                  `json:"version"`
	LastPack time.Time            `json:"last_pack"`
	Roots    map[string]RootState `json:"roots"`
	mu       sync.RWMutex         `json:"-"`
}

// RootState stores the pack state for a single source root.
type RootState struct {
	Path          string               `json:"path"`
	FirstPackedAt time.Time            `json:"first_packed_at"`
	LastPacked    time.Time            `json:"last_packed"`
	RunID         string               `json:"run_id"`
	FileCount     int                  `json:"file_count"`
	Files         map[string]FileState `json:"files,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// FileState stores per-file pack state, keyed by path relative to the root.
// The fingerprint detects changes between runs; the byte counts feed the
// compression ratio report.
type FileState struct {
	Fingerprint    uint64 `json:"fingerprint"`
	OriginalBytes  int    `json:"original_bytes"`
	EstimatedBytes int    `json:"estimated_bytes"`
}

// Totals sums the byte counts across all files in the root.
func (r *RootState) Totals() (originalBytes, estimatedBytes int) {
	for _, f := range r.Files {
		originalBytes += f.OriginalBytes
		estimatedBytes += f.EstimatedBytes
	}
	return originalBytes, estimatedBytes
}

// NewManifest creates a new empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		Roots:   make(map[string]RootState),
	}
}

// LoadManifest reads a manifest from disk, or creates a new one if it doesn't exist.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	// Initialize roots map if nil (for backwards compatibility)
	if manifest.Roots == nil {
		manifest.Roots = make(map[string]RootState)
	}

	return &manifest, nil
}

// Save writes the manifest to disk atomically.
// Uses write-to-temp + rename pattern to prevent corruption.
func (m *Manifest) Save(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename manifest file: %w", err)
	}

	return nil
}

// GetRootState returns a copy of the state for a root, creating an empty one
// if it doesn't exist yet.
func (m *Manifest) GetRootState(rootID string) *RootState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.Roots[rootID]
	if !ok {
		state = RootState{}
		m.Roots[rootID] = state
	}
	return &state
}

// SetRootState updates the state for a root.
func (m *Manifest) SetRootState(rootID string, state RootState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Roots[rootID] = state
}

// HasRoot returns true if the root exists in the manifest.
func (m *Manifest) HasRoot(rootID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Roots[rootID]
	return ok
}

// RemoveRoot removes a root from the manifest.
func (m *Manifest) RemoveRoot(rootID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Roots, rootID)
}

// GetRootIDs returns a list of all root IDs in the manifest.
func (m *Manifest) GetRootIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.Roots))
	for id := range m.Roots {
		ids = append(ids, id)
	}
	return ids
}

// RemoveStaleRoots removes roots not in the given path list.
// Returns the list of removed root IDs.
func (m *Manifest) RemoveStaleRoots(paths []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	expected := make(map[string]bool)
	for _, path := range paths {
		expected[RootToID(path)] = true
	}

	var removed []string
	for rootID := range m.Roots {
		if !expected[rootID] {
			removed = append(removed, rootID)
		}
	}

	for _, rootID := range removed {
		delete(m.Roots, rootID)
	}

	return removed
}

// UpdateLastPack updates the last pack timestamp.
func (m *Manifest) UpdateLastPack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPack = time.Now()
}

// GetRootsWithErrors returns roots that failed their last pack, keyed by root ID.
func (m *Manifest) GetRootsWithErrors() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string)
	for rootID, state := range m.Roots {
		if state.Error != "" {
			result[rootID] = state.Error
		}
	}
	return result
}

// ClearRootError clears the error for a root.
func (m *Manifest) ClearRootError(rootID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.Roots[rootID]; ok {
		state.Error = ""
		m.Roots[rootID] = state
	}
}

// SetRootError sets the error for a root.
func (m *Manifest) SetRootError(rootID string, err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.Roots[rootID]; ok {
		state.Error = err
		m.Roots[rootID] = state
	} else {
		m.Roots[rootID] = RootState{Error: err}
	}
}
