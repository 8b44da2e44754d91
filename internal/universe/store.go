// Package universe persists finalized topic universes. Each universe is
// one JSON document named by its ID under a root directory; nothing is
// written mid-session.
package universe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wikiplan/wikiplan/internal/types"
)

// DefaultDirName is the store location under the user's home directory.
const DefaultDirName = ".wikiplan/universes"

// Store reads and writes universe documents in a single directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. An empty dir selects the
// default under the user's home directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// Save writes the universe as <id>.json. The write goes through a temp
// file and rename so a crash never leaves a truncated document.
func (s *Store) Save(u *types.TopicUniverse) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("universe has no id")
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding universe %s: %w", u.ID, err)
	}
	path := s.path(u.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing universe %s: %w", u.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing universe %s: %w", u.ID, err)
	}
	return nil
}

// Load reads a universe by ID.
func (s *Store) Load(id string) (*types.TopicUniverse, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("loading universe %s: %w", id, err)
	}
	var u types.TopicUniverse
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding universe %s: %w", id, err)
	}
	return &u, nil
}

// Summary is one row of the store listing.
type Summary struct {
	ID            string
	Name          string
	Topics        int
	Accepted      int
	Relationships int
	CreatedAt     time.Time
}

// List returns a summary for every stored universe, newest first.
// Unreadable documents are skipped rather than failing the listing.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing store: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		u, err := s.Load(id)
		if err != nil {
			continue
		}
		out = append(out, Summary{
			ID:            u.ID,
			Name:          u.Name,
			Topics:        len(u.Topics),
			Accepted:      u.AcceptedCount(),
			Relationships: len(u.ConfirmedRelationships()),
			CreatedAt:     u.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat maps a flag value onto a format.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Export writes a stored universe to the given path in the given format.
func (s *Store) Export(id, path string, format ExportFormat) error {
	u, err := s.Load(id)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(u)
	default:
		data, err = json.MarshalIndent(u, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding universe %s: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("exporting universe %s: %w", id, err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.root, id+".json")
}
