package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Template is one email template as stored on disk.
type Template struct {
	Name    string `yaml:"name" json:"name"`
	Subject string `yaml:"subject" json:"subject"`
	Body    string `yaml:"body" json:"body"`

	// Optional metadata
	Description string `yaml:"description" json:"description,omitempty"`
	Tier        int    `yaml:"tier" json:"tier,omitempty"` // 0 initial, 1..n follow-ups
}

// Store holds templates loaded from a directory of YAML files. Safe for
// concurrent reads after Load.
type Store struct {
	mu        sync.RWMutex
	dir       string
	templates map[string]*Template
}

// NewStore creates an empty store rooted at dir. Call Load before use.
func NewStore(dir string) *Store {
	return &Store{dir: dir, templates: make(map[string]*Template)}
}

// Load reads every *.yaml / *.yml file under the store directory. A file
// may hold a single template or a list of templates.
func (s *Store) Load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read templates dir: %w", err)
	}

	loaded := make(map[string]*Template)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		tmpls, err := parseFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		for _, t := range tmpls {
			if t.Name == "" {
				// Fall back to the file name for single-template files.
				t.Name = strings.TrimSuffix(e.Name(), ext)
			}
			loaded[t.Name] = t
		}
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()
	return nil
}

func parseFile(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Try a list first, then a single document.
	var list []*Template
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return validateAll(list)
	}
	var single Template
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return validateAll([]*Template{&single})
}

func validateAll(list []*Template) ([]*Template, error) {
	for _, t := range list {
		if strings.TrimSpace(t.Subject) == "" {
			return nil, fmt.Errorf("%q: %w", t.Name, ErrMissingSubject)
		}
		if strings.TrimSpace(t.Body) == "" {
			return nil, fmt.Errorf("%q: %w", t.Name, ErrMissingBody)
		}
	}
	return list, nil
}

// Get returns the named template or ErrTemplateNotFound.
func (s *Store) Get(name string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrTemplateNotFound)
	}
	return t, nil
}

// Names returns all loaded template names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.templates))
	for n := range s.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Add registers a template in memory. Used by tests and the preview CLI.
func (s *Store) Add(t *Template) {
	s.mu.Lock()
	s.templates[t.Name] = t
	s.mu.Unlock()
}
