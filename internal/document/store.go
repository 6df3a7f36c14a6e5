// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNotRegularFile is returned when the path resolves to something other
// than a regular file.
var ErrNotRegularFile = errors.New("path is not a regular file")

// DefaultCacheSize is the default number of snapshots kept in memory.
const DefaultCacheSize = 32

// StoreConfig configures the snapshot store.
type StoreConfig struct {
	CacheSize int
}

// Store loads file snapshots and caches them until the underlying file
// changes. A watcher evicts the cached snapshot on write, rename, or remove,
// so the next Open re-reads from disk.
type Store struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Snapshot]
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewStore creates a snapshot store and starts its invalidation watcher.
func NewStore(cfg StoreConfig) (*Store, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	s := &Store{
		watcher: watcher,
		done:    make(chan struct{}),
	}
	s.cache, err = lru.NewWithEvict(size, func(path string, _ *Snapshot) {
		// Best effort: the path may already be gone.
		_ = watcher.Remove(path)
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.watch()

	return s, nil
}

// Open returns a snapshot of the file at path, from cache when the file has
// not changed since it was last read.
func (s *Store) Open(path string) (*Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	s.mu.Lock()
	if snap, ok := s.cache.Get(abs); ok {
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotRegularFile
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := string(data)
	snap := &Snapshot{
		Path:       abs,
		Name:       filepath.Base(abs),
		Content:    content,
		Size:       info.Size(),
		LineEnding: DetectLineEnding(content),
		Language:   LanguageFor(abs),
	}

	s.mu.Lock()
	s.cache.Add(abs, snap)
	s.mu.Unlock()

	if err := s.watcher.Add(abs); err != nil {
		log.Printf("document: watch %s: %v", abs, err)
	}

	return snap, nil
}

// Cached reports whether a snapshot for path is currently cached.
func (s *Store) Cached(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Contains(abs)
}

// watch evicts snapshots whose files changed on disk.
func (s *Store) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Remove|fsnotify.Create) != 0 {
				s.mu.Lock()
				s.cache.Remove(event.Name)
				s.mu.Unlock()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("document: watcher error: %v", err)
		}
	}
}

// Close stops the watcher and drops all cached snapshots.
func (s *Store) Close() error {
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()

	s.mu.Lock()
	s.cache.Purge()
	s.mu.Unlock()
	return err
}
