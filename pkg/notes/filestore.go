package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdnotes/internal/logging"
	"github.com/yaklabco/mdnotes/pkg/fsutil"
)

// DefaultDirName is the notes directory under the user's home.
const DefaultDirName = ".mdnotes/notes"

// DefaultDir returns $HOME/.mdnotes/notes.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, filepath.FromSlash(DefaultDirName)), nil
}

// FileStore keeps notes as UTF-8 files in a single directory.
type FileStore struct {
	dir    string
	logger *log.Logger

	mu     sync.Mutex
	loaded map[string]*fsutil.FileInfo // by file name, as of the last load or save
}

// OpenFileStore opens the store rooted at dir, creating the directory when
// missing.
func OpenFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("open notes directory: %w", err)
	}

	return &FileStore{
		dir:    dir,
		logger: logging.Or(logger),
		loaded: make(map[string]*fsutil.FileInfo),
	}, nil
}

// Dir returns the notes directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file a title is stored in.
func (s *FileStore) Path(title string) string {
	return filepath.Join(s.dir, FileName(title))
}

// Save writes content under title, replacing whatever was stored there.
// When the file changed on disk since this store last read or wrote it, the
// save still goes ahead and a warning is logged.
func (s *FileStore) Save(ctx context.Context, title, content string) error {
	if err := checkTitle(title); err != nil {
		return err
	}

	path := s.Path(title)
	if info, ok := s.Stat(title); ok {
		if modified, err := fsutil.CheckModified(ctx, info); err == nil && modified {
			s.logger.Warn("note changed on disk since it was loaded", logging.FieldTitle, title, logging.FieldPath, path)
		}
	}

	if _, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(content), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("save note %q: %w", title, err)
	}

	if _, info, err := fsutil.ReadFile(ctx, path); err == nil {
		s.remember(path, info)
	}

	s.logger.Debug("saved note", logging.FieldTitle, title, logging.FieldPath, path)
	return nil
}

// Load reads the note stored under title.
func (s *FileStore) Load(ctx context.Context, title string) (Note, error) {
	if err := checkTitle(title); err != nil {
		return Note{}, err
	}

	path := s.Path(title)
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return Note{}, fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		return Note{}, fmt.Errorf("load note %q: %w", title, err)
	}

	s.remember(path, info)
	return Note{Title: title, Content: string(content)}, nil
}

// List returns the stems of the regular ".md" files in the directory.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Extension) {
			continue
		}
		if stem := strings.TrimSuffix(name, Extension); stem != "" {
			titles = append(titles, stem)
		}
	}
	slices.Sort(titles)

	return titles, nil
}

// Delete removes the note stored under title. It reports false when there
// was nothing to remove.
func (s *FileStore) Delete(ctx context.Context, title string) (bool, error) {
	if err := checkTitle(title); err != nil {
		return false, err
	}

	path := s.Path(title)
	removed, err := fsutil.Remove(ctx, path)
	if err != nil {
		return false, fmt.Errorf("delete note %q: %w", title, err)
	}

	s.mu.Lock()
	delete(s.loaded, filepath.Base(path))
	s.mu.Unlock()

	return removed, nil
}

// Stat returns the file state recorded when title was last loaded or saved.
func (s *FileStore) Stat(title string) (*fsutil.FileInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.loaded[FileName(title)]
	return info, ok
}

func (s *FileStore) remember(path string, info *fsutil.FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[filepath.Base(path)] = info
}
