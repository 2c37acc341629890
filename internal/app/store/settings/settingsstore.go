// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
)

// InvalidError reports settings that fail validation. Nothing is written.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string { return strings.Join(e.Problems, ", ") }

// Store keeps the site settings in a JSON file. All access goes through one
// mutex; writes replace the file atomically.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a settings store backed by the file at path. The file and its
// directory are created on first read.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Get returns the current settings, writing the defaults first when the
// file does not exist.
func (s *Store) Get() (models.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (models.SiteSettings, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		def := models.DefaultSiteSettings()
		if err := s.write(def); err != nil {
			return models.SiteSettings{}, err
		}
		return def, nil
	}
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("read settings: %w", err)
	}
	var out models.SiteSettings
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.SiteSettings{}, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	if out.Social == nil {
		out.Social = map[string]string{}
	}
	return out, nil
}

// Update merges the top-level keys of patch onto the current settings,
// validates the result and writes it. Keys absent from patch keep their
// current value; nested objects in patch replace the stored object whole.
// Unknown keys are rejected.
func (s *Store) Update(patch map[string]json.RawMessage) (models.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load()
	if err != nil {
		return models.SiteSettings{}, err
	}
	merged, err := merge(cur, patch)
	if err != nil {
		return models.SiteSettings{}, err
	}
	if err := check(&merged); err != nil {
		return models.SiteSettings{}, err
	}
	now := s.now().UTC()
	merged.UpdatedAt = &now
	if err := s.write(merged); err != nil {
		return models.SiteSettings{}, err
	}
	return merged, nil
}

func merge(cur models.SiteSettings, patch map[string]json.RawMessage) (models.SiteSettings, error) {
	raw, err := json.Marshal(cur)
	if err != nil {
		return cur, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return cur, err
	}
	for k, v := range patch {
		if k == "updatedAt" {
			continue
		}
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return cur, err
	}

	var out models.SiteSettings
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return cur, &InvalidError{Problems: []string{err.Error()}}
	}
	return out, nil
}

func check(st *models.SiteSettings) error {
	var problems []string
	st.SiteName = strings.TrimSpace(st.SiteName)
	st.ContactEmail = strings.TrimSpace(st.ContactEmail)
	if st.SiteName == "" {
		problems = append(problems, "siteName is required")
	}
	if st.ContactEmail != "" && !validate.SimpleEmailValid(st.ContactEmail) {
		problems = append(problems, "contactEmail must be a valid email address")
	}
	if st.Social == nil {
		st.Social = map[string]string{}
	}
	if len(problems) > 0 {
		return &InvalidError{Problems: problems}
	}
	return nil
}

// write replaces the settings file through a temp file in the same directory.
func (s *Store) write(st models.SiteSettings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
