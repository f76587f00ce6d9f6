package archive

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/codetome/linepack/internal/codec"
	"github.com/codetome/linepack/internal/config"
	"github.com/codetome/linepack/internal/domain"
	"github.com/google/uuid"
)

// LockFilename is the name of the pack coordination lock file
const LockFilename = "pack.lock"

// Service coordinates packing, storage, indexing, and search.
type Service struct {
	settings *config.PackSettings
	indexer  *Indexer
	filter   *FileFilter
	manifest *Manifest
	lock     *FileLock
	alias    bleve.IndexAlias
	ready    bool
	mu       sync.RWMutex
}

// NewService creates a new pack service.
func NewService(settings *config.PackSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	// Ensure base directory exists
	if err := os.MkdirAll(settings.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	// Create packs directory
	packsDir := filepath.Join(settings.BaseDir, "packs")
	if err := os.MkdirAll(packsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create packs directory: %w", err)
	}

	// Create indexes directory
	indexesDir := filepath.Join(settings.BaseDir, "indexes")
	if err := os.MkdirAll(indexesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create indexes directory: %w", err)
	}

	// Load or create manifest
	manifestPath := filepath.Join(settings.BaseDir, ManifestFilename)
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	filter := NewFileFilter(settings.MaxFileSize)
	indexer := NewIndexer(settings.BaseDir)
	lock := NewFileLock(filepath.Join(settings.BaseDir, LockFilename))

	return &Service{
		settings: settings,
		indexer:  indexer,
		filter:   filter,
		manifest: manifest,
		lock:     lock,
	}, nil
}

// Initialize prepares the service with leader/follower pack logic.
// The first instance to grab the lock packs the roots; other instances wait
// and then open the resulting indexes read-only.
func (s *Service) Initialize(ctx context.Context) error {
	acquired, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if acquired {
		// Leader: pack roots
		slog.Info("Acquired pack leader lock, starting pack")
		if err := s.PackAll(ctx); err != nil {
			slog.Error("Pack failed", "error", err)
			// Continue to open indexes anyway
		}
		if err := s.saveManifest(); err != nil {
			slog.Error("Failed to save manifest", "error", err)
		}
		if err := s.lock.Unlock(); err != nil {
			slog.Error("Failed to unlock", "error", err)
		}
	} else {
		// Follower: wait for the leader to finish
		slog.Info("Another instance is packing, waiting for completion")
		if err := s.lock.Lock(s.settings.PackTimeout); err != nil {
			slog.Warn("Timeout waiting for pack, using existing indexes", "error", err)
		} else {
			// Got the lock, release it immediately
			if err := s.lock.Unlock(); err != nil {
				slog.Error("Failed to unlock", "error", err)
			}
		}
	}

	return s.openIndexes()
}

// PackAll packs all configured source roots.
func (s *Service) PackAll(ctx context.Context) error {
	roots, err := s.normalizedRoots()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return nil
	}

	// Remove state for roots that are no longer configured
	removed := s.manifest.RemoveStaleRoots(roots)
	for _, rootID := range removed {
		slog.Info("Removing stale root", "root_id", rootID)
		if err := s.indexer.DeleteIndex(rootID); err != nil {
			slog.Error("Failed to delete index for stale root", "root_id", rootID, "error", err)
		}
		packDir := filepath.Join(s.settings.BaseDir, "packs", rootID)
		if err := os.RemoveAll(packDir); err != nil {
			slog.Error("Failed to remove stale pack directory", "root_id", rootID, "error", err)
		}
	}

	// Use semaphore to limit parallel packs
	sem := make(chan struct{}, s.settings.Workers)
	var wg sync.WaitGroup
	errChan := make(chan error, len(roots))

	for _, root := range roots {
		rootID := RootToID(root)
		wg.Add(1)
		go func(root, rootID string) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			if err := s.packRoot(ctx, rootID, root); err != nil {
				slog.Error("Failed to pack root", "root_id", rootID, "error", err)
				s.manifest.SetRootError(rootID, err.Error())
				errChan <- fmt.Errorf("pack %s: %w", rootID, err)
			} else {
				s.manifest.ClearRootError(rootID)
			}
		}(root, rootID)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	s.manifest.UpdateLastPack()

	if len(errs) > 0 {
		return fmt.Errorf("%d root pack(s) failed", len(errs))
	}
	return nil
}

// packRoot packs a single source root. Unchanged files (by content
// fingerprint) are skipped; deleted files are dropped from the archive
// and index.
func (s *Service) packRoot(ctx context.Context, rootID, root string) error {
	ctx, cancel := context.WithTimeout(ctx, s.settings.PackTimeout)
	defer cancel()

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root is not a directory: %s", root)
	}

	state := s.manifest.GetRootState(rootID)
	isNew := state.FirstPackedAt.IsZero()
	prevFiles := state.Files

	var packed []domain.PackedFile
	files := make(map[string]FileState)
	skipped := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip files with errors
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.filter.ShouldExclude(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > s.settings.MaxFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if IsBinary(content) {
			return nil
		}

		fp := Fingerprint(content)

		// Unchanged since the last run: keep the stored container as-is
		if prev, ok := prevFiles[relPath]; ok && prev.Fingerprint == fp {
			files[relPath] = prev
			skipped++
			return nil
		}

		file, err := s.packFile(rootID, relPath, content)
		if err != nil {
			slog.Warn("Failed to pack file", "root_id", rootID, "path", relPath, "error", err)
			return nil
		}

		files[relPath] = FileState{
			Fingerprint:    fp,
			OriginalBytes:  file.OriginalBytes,
			EstimatedBytes: file.EstimatedBytes,
		}
		packed = append(packed, *file)
		return nil
	})
	if err != nil {
		return err
	}

	// Drop files that disappeared since the last run
	var deleted []string
	for relPath := range prevFiles {
		if _, ok := files[relPath]; !ok {
			deleted = append(deleted, rootID+"/"+relPath)
			containerPath := s.ContainerPath(rootID, relPath)
			if err := os.Remove(containerPath); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove stale container", "path", containerPath, "error", err)
			}
		}
	}
	if err := s.indexer.DeleteDocuments(rootID, deleted); err != nil {
		slog.Warn("Failed to remove stale documents from index", "root_id", rootID, "error", err)
	}

	indexed, err := s.indexer.IndexFiles(rootID, packed)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	now := time.Now()
	if isNew {
		state.FirstPackedAt = now
		state.Path = root
	}
	state.LastPacked = now
	state.RunID = uuid.NewString()
	state.FileCount = len(files)
	state.Files = files
	s.manifest.SetRootState(rootID, *state)

	slog.Info("Pack complete", "root_id", rootID,
		"packed", indexed, "unchanged", skipped, "removed", len(deleted))
	return nil
}

// packFile encodes one source file, verifies it decodes cleanly, stores the
// container, and returns the index document.
func (s *Service) packFile(rootID, relPath string, content []byte) (*domain.PackedFile, error) {
	language := ExtensionToLanguage(GetFileExtension(relPath))
	if language == "" {
		language = "text"
	}

	doc, err := codec.EncodeText(string(content), language)
	if err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}

	// Verify the stored form reconstructs before committing anything
	decoded, err := codec.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("verification decode failed: %w", err)
	}
	if len(decoded) != len(doc.Records) {
		return nil, fmt.Errorf("verification decode produced %d records, expected %d", len(decoded), len(doc.Records))
	}

	containerPath := s.ContainerPath(rootID, relPath)
	if err := WriteContainer(containerPath, doc); err != nil {
		return nil, err
	}

	estimated, ratio := codec.Ratio(len(content), doc)

	// Index the original text. The stored container is lossy (semantic
	// references collapse same-category lines to one template), so decoded
	// text would make search miss most of what authors actually wrote.
	return &domain.PackedFile{
		ID:             rootID + "/" + relPath,
		Root:           RootIDToDisplay(rootID),
		FilePath:       relPath,
		Language:       language,
		Content:        string(content),
		PatternCount:   doc.Metadata.PatternCount,
		SemanticCount:  doc.Metadata.SemanticCount,
		OriginalBytes:  len(content),
		EstimatedBytes: estimated,
		Ratio:          ratio,
	}, nil
}

// normalizedRoots validates and cleans the configured root paths.
func (s *Service) normalizedRoots() ([]string, error) {
	roots := make([]string, 0, len(s.settings.Roots))
	for _, raw := range s.settings.Roots {
		root, err := NormalizeRoot(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, raw)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// openIndexes opens all indexes and creates the alias.
func (s *Service) openIndexes() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var indexedRoots []string
	for _, raw := range s.settings.Roots {
		root, err := NormalizeRoot(raw)
		if err != nil {
			continue
		}
		rootID := RootToID(root)
		if s.indexer.IndexExists(rootID) {
			indexedRoots = append(indexedRoots, rootID)
		}
	}

	if len(indexedRoots) == 0 {
		slog.Warn("No indexes available")
		s.ready = false
		return nil
	}

	alias, err := s.indexer.CreateAlias(indexedRoots)
	if err != nil {
		return fmt.Errorf("failed to create index alias: %w", err)
	}

	s.alias = alias
	s.ready = true
	slog.Info("Indexes ready", "count", len(indexedRoots))
	return nil
}

// saveManifest saves the manifest to disk.
func (s *Service) saveManifest() error {
	manifestPath := filepath.Join(s.settings.BaseDir, ManifestFilename)
	return s.manifest.Save(manifestPath)
}

// IsReady returns true if indexes are ready for search.
func (s *Service) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// GetIndexAlias returns the combined index for searching.
func (s *Service) GetIndexAlias() (bleve.IndexAlias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready || s.alias == nil {
		return nil, fmt.Errorf("indexes not ready")
	}
	return s.alias, nil
}

// ContainerPath returns the stored container path for a packed file.
func (s *Service) ContainerPath(rootID, relPath string) string {
	return filepath.Join(s.settings.BaseDir, "packs", rootID, relPath+ContainerSuffix)
}

// GetManifest returns the pack manifest.
func (s *Service) GetManifest() *Manifest {
	return s.manifest
}

// GetSettings returns the service settings.
func (s *Service) GetSettings() *config.PackSettings {
	return s.settings
}

// Close releases all resources.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alias != nil {
		if err := s.alias.Close(); err != nil {
			return fmt.Errorf("failed to close alias: %w", err)
		}
		s.alias = nil
	}

	s.ready = false
	return nil
}
