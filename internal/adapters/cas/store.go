// Package cas persists build information about produced bundles.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

const manifestVersion = 1

var _ ports.BuildInfoStore = (*Store)(nil)

// ManifestPath returns the manifest location below an output directory.
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ".assetpack", "manifest.json")
}

type manifest struct {
	Version  int                         `json:"version"`
	Packages map[string]domain.BuildInfo `json:"packages"`
}

// Store implements ports.BuildInfoStore using a JSON manifest file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.BuildInfo
}

// NewStore creates a new BuildInfoStore backed by the manifest below outputDir.
func NewStore(outputDir string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(ManifestPath(outputDir)),
		cache: make(map[string]domain.BuildInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal manifest"), "path", s.path)
	}
	if m.Packages != nil {
		s.cache = m.Packages
	}

	return nil
}

// save writes the manifest atomically. Callers must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(manifest{Version: manifestVersion, Packages: s.cache}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create manifest directory"), "path", dir)
	}

	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace manifest"), "path", s.path)
	}

	return nil
}

// Get retrieves the build info for a package. It returns nil, nil when unknown.
func (s *Store) Get(pkg string) (*domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[pkg]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info and persists the manifest.
func (s *Store) Put(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[info.Package] = info
	return s.save()
}

// All returns every recorded build sorted by package name.
func (s *Store) All() []domain.BuildInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.BuildInfo, 0, len(s.cache))
	for _, info := range s.cache {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Package < infos[j].Package })
	return infos
}
