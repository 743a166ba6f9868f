package serve

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/pagefile"
)

// PageExt is the file extension of page files.
const PageExt = ".yaml"

// Store holds the decoded pages of one directory, keyed by page name.
// It is safe for concurrent use.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	pages map[string]*pagefile.Page
}

// NewStore loads every page file in dir. A page that fails to decode fails
// the whole load.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		dir:    dir,
		logger: logger.With("component", "store"),
		pages:  make(map[string]*pagefile.Page),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Reload replaces the store contents with a fresh read of the directory.
// The previous contents are kept when any page fails.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return errors.New("P002").WithDetailf("page directory %s cannot be read", s.dir).Wrap(err)
	}

	pages := make(map[string]*pagefile.Page, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isPageFile(entry.Name()) {
			continue
		}
		p, err := pagefile.Load(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return err
		}
		pages[p.Name] = p
	}

	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
	s.logger.Debug("pages loaded", "dir", s.dir, "count", len(pages))
	return nil
}

// Get returns the page with the given name.
func (s *Store) Get(name string) (*pagefile.Page, error) {
	s.mu.RLock()
	p, ok := s.pages[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New("P002").WithDetailf("page %q is not loaded", name)
	}
	return p, nil
}

// Names returns the loaded page names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Put adds or replaces a page.
func (s *Store) Put(p *pagefile.Page) {
	s.mu.Lock()
	s.pages[p.Name] = p
	s.mu.Unlock()
}

// Watch reloads pages as their files change until ctx is done. It returns
// once the directory is being watched; events are handled on a separate
// goroutine. A page that fails to decode is logged and its previous
// version keeps being served.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}
	s.logger.Info("watching pages", "dir", s.dir)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.handleEvent(event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("page watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *Store) handleEvent(event fsnotify.Event) {
	if !isPageFile(event.Name) {
		return
	}
	name := pagefile.NameOf(event.Name)

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		s.mu.Lock()
		delete(s.pages, name)
		s.mu.Unlock()
		s.logger.Info("page removed", "page", name)

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		p, err := pagefile.Load(event.Name)
		if err != nil {
			s.logger.Warn("page reload failed", "page", name, "error", err)
			return
		}
		s.Put(p)
		s.logger.Info("page reloaded", "page", name)
	}
}

func isPageFile(name string) bool {
	return strings.HasSuffix(name, PageExt) && !strings.HasPrefix(filepath.Base(name), ".")
}
