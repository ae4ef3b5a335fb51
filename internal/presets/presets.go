// Package presets loads named color presets from YAML files and turns
// them into color frames for controllers.
package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
	"github.com/orgbnet-project/orgbnet/internal/util"
)

// Preset is a named set of colors. Colors are hex strings ("#rrggbb")
// and are cycled across however many LEDs a controller or zone has.
type Preset struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Colors      []string `yaml:"colors"`
}

// Colors parses the preset's hex colors.
func (p *Preset) ParsedColors() ([]protocol.Color, error) {
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("preset %q has no colors", p.Name)
	}
	out := make([]protocol.Color, 0, len(p.Colors))
	for _, s := range p.Colors {
		c, err := protocol.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Frame builds a color frame of n LEDs by cycling the preset's colors.
func (p *Preset) Frame(n int) ([]protocol.Color, error) {
	colors, err := p.ParsedColors()
	if err != nil {
		return nil, err
	}
	frame := make([]protocol.Color, n)
	for i := range frame {
		frame[i] = colors[i%len(colors)]
	}
	return frame, nil
}

// Store holds the presets loaded from a directory.
type Store struct {
	mu      sync.RWMutex
	dir     string
	presets map[string]*Preset
	logger  zerolog.Logger
}

// NewStore creates a preset store rooted at dir. Call Load to read the
// preset files.
func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		presets: make(map[string]*Preset),
		logger:  util.ComponentLogger("presets"),
	}
}

// Load reads every .yaml/.yml file in the store directory. A missing
// directory is not an error; it just yields an empty store.
func (s *Store) Load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("dir", s.dir).Msg("preset directory does not exist")
			return nil
		}
		return fmt.Errorf("failed to read preset directory %s: %w", s.dir, err)
	}

	loaded := make(map[string]*Preset)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read preset file %s: %w", path, err)
		}

		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("failed to parse preset file %s: %w", path, err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		if _, err := p.ParsedColors(); err != nil {
			return fmt.Errorf("invalid preset file %s: %w", path, err)
		}

		loaded[p.Name] = &p
	}

	s.mu.Lock()
	s.presets = loaded
	s.mu.Unlock()

	s.logger.Info().Int("count", len(loaded)).Str("dir", s.dir).Msg("presets loaded")
	return nil
}

// Get returns a preset by name.
func (s *Store) Get(name string) (*Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[name]
	return p, ok
}

// List returns all presets sorted by name.
func (s *Store) List() []*Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Save validates a preset, writes it to the store directory, and adds it
// to the in-memory set.
func (s *Store) Save(p *Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if _, err := p.ParsedColors(); err != nil {
		return err
	}

	if err := util.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("failed to create preset directory %s: %w", s.dir, err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset %q: %w", p.Name, err)
	}

	path := filepath.Join(s.dir, p.Name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file %s: %w", path, err)
	}

	s.mu.Lock()
	s.presets[p.Name] = p
	s.mu.Unlock()

	s.logger.Info().Str("preset", p.Name).Str("path", path).Msg("preset saved")
	return nil
}
