package projects

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chronoreel/internal/fileutil"
	"chronoreel/internal/textutil"
)

// ErrNotFound is returned when no project directory matches an identifier.
var ErrNotFound = errors.New("project not found")

// Repository describes project persistence as seen by the orchestrator and
// the query surface. The filesystem Store is the only implementation today;
// the interface keeps the orchestrator independent of the storage layout.
type Repository interface {
	Create(project Project) (*Record, error)
	Get(idFragment string) (*Record, error)
	List() ([]*Record, error)
	MarkCompleted(id string, completedAt time.Time) error
	Stats() (Stats, error)
}

// Store persists projects under a root directory.
type Store struct {
	root string
	now  func() time.Time
}

// StoreOption customizes the store.
type StoreOption func(*Store)

// WithClock overrides the wall clock used for identifier generation.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs a filesystem project store rooted at dir, creating the
// directory if needed.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("projects root directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create projects directory: %w", err)
	}
	store := &Store{root: dir, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Root returns the directory backing the store.
func (s *Store) Root() string { return s.root }

// Create materializes a new project directory from the provided metadata.
// The ID and CreatedAt fields are assigned here; Status is forced to created.
// The metadata record and script file are written before returning.
func (s *Store) Create(project Project) (*Record, error) {
	createdAt := s.now()
	token := textutil.SanitizeTitleToken(project.Title)
	base := fmt.Sprintf("%s_%s", createdAt.Format("20060102_150405"), token)

	id := base
	dir := filepath.Join(s.root, id)
	for counter := 2; ; counter++ {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("stat project directory: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, counter)
		dir = filepath.Join(s.root, id)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	project.ID = id
	project.CreatedAt = createdAt
	project.Status = StatusCreated
	project.CompletedAt = nil

	if err := os.WriteFile(filepath.Join(dir, ScriptFile), []byte(project.Script), 0o644); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	if err := s.writeMetadata(dir, &project); err != nil {
		return nil, err
	}
	return s.record(dir, &project), nil
}

// Get resolves an identifier fragment to a project. Matching prefers an exact
// directory-name match, then a name-prefix match, then the lexicographically
// first directory containing the fragment.
func (s *Store) Get(idFragment string) (*Record, error) {
	fragment := strings.TrimSpace(idFragment)
	if fragment == "" {
		return nil, ErrNotFound
	}
	names, err := s.projectDirNames()
	if err != nil {
		return nil, err
	}

	var prefix, substring string
	for _, name := range names {
		switch {
		case name == fragment:
			return s.read(name)
		case strings.HasPrefix(name, fragment) && prefix == "":
			prefix = name
		case strings.Contains(name, fragment) && substring == "":
			substring = name
		}
	}
	if prefix != "" {
		return s.read(prefix)
	}
	if substring != "" {
		return s.read(substring)
	}
	return nil, ErrNotFound
}

// List returns all projects newest-first. Directories without a metadata
// record are skipped; unreadable records are skipped rather than failing the
// whole listing.
func (s *Store) List() ([]*Record, error) {
	names, err := s.projectDirNames()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	records := make([]*Record, 0, len(names))
	for _, name := range names {
		record, err := s.read(name)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkCompleted flips a project to completed and stamps the completion time.
func (s *Store) MarkCompleted(id string, completedAt time.Time) error {
	record, err := s.Get(id)
	if err != nil {
		return err
	}
	project := record.Project
	project.Status = StatusCompleted
	at := completedAt.UTC()
	project.CompletedAt = &at
	return s.writeMetadata(record.Dir, &project)
}

// Stats counts projects and how many have a finished video artifact.
func (s *Store) Stats() (Stats, error) {
	names, err := s.projectDirNames()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(names)}
	for _, name := range names {
		if fileutil.Exists(filepath.Join(s.root, name, VideoFile)) {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (s *Store) projectDirNames() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) read(name string) (*Record, error) {
	dir := filepath.Join(s.root, name)
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read metadata for %s: %w", name, err)
	}
	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", name, err)
	}
	return s.record(dir, &project), nil
}

func (s *Store) record(dir string, project *Project) *Record {
	return &Record{
		Project:  *project,
		Dir:      dir,
		HasImage: fileutil.Exists(filepath.Join(dir, ImageFile)),
		HasVoice: fileutil.Exists(filepath.Join(dir, VoiceFile)),
		HasVideo: fileutil.Exists(filepath.Join(dir, VideoFile)),
	}
}

func (s *Store) writeMetadata(dir string, project *Project) error {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
