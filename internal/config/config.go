// internal/config/config.go
//
// This package handles configuration and the .roster directory structure.
// Every project directory the roster runs in gets a .roster/ folder holding
// the config file and the session logs. Employee records are never written
// here; they live in memory only.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// RosterDir is the name of the directory we create in each project
	RosterDir = ".roster"

	defaultPickerHeight = 12
	defaultTableHeight  = 8
)

// DefaultImageTypes are the extensions the picture picker offers when the
// config does not list any.
var DefaultImageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg"}

const defaultProjectConfigYAML = `# employee roster configuration
version: 1

# Profile picture file picker. start_dir is resolved relative to this project.
picker:
  start_dir: .
  allowed_types: [.png, .jpg, .jpeg, .gif, .webp, .bmp, .svg]
  show_hidden: false
  height: 12

# Records visible at once in the all-employees table (header not counted).
table:
  height: 8
`

// PickerConfig controls the profile picture file picker.
type PickerConfig struct {
	StartDir     string   `yaml:"start_dir"`
	AllowedTypes []string `yaml:"allowed_types"`
	ShowHidden   bool     `yaml:"show_hidden"`
	Height       int      `yaml:"height"`
}

// TableConfig controls the employee tables.
type TableConfig struct {
	Height int `yaml:"height"`
}

// ProjectConfig models .roster/config.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Picker  PickerConfig `yaml:"picker"`
	Table   TableConfig  `yaml:"table"`
}

// Config holds the runtime configuration for the roster.
type Config struct {
	// ProjectDir is the directory where the user ran `roster` from
	ProjectDir string

	// RosterProjectDir is ProjectDir/.roster
	RosterProjectDir string

	Project ProjectConfig
}

// InitRosterDir creates the .roster directory structure in the given project
// directory and writes a default config file if none exists.
//
// Structure created:
// .roster/
// ├── config.yaml
// └── logs/
func InitRosterDir(projectDir string) error {
	rosterDir := filepath.Join(projectDir, RosterDir)
	if err := os.MkdirAll(filepath.Join(rosterDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure roster dir: %w", err)
	}
	return ensureProjectConfig(filepath.Join(rosterDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		RosterProjectDir: filepath.Join(projectDir, RosterDir),
		Project:          defaultProjectConfig(projectDir),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.RosterProjectDir, "logs")
}

// LogPath returns the session log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "roster.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.RosterProjectDir, "config.yaml")
}

// PictureStartDir returns the directory the picture picker opens in.
func (c *Config) PictureStartDir() string {
	if c.Project.Picker.StartDir == "" {
		return c.ProjectDir
	}
	return c.Project.Picker.StartDir
}

// ImageTypes returns the extensions the picture picker accepts.
func (c *Config) ImageTypes() []string {
	return c.Project.Picker.AllowedTypes
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig(projectDir string) ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	pc.normalize(projectDir)
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Picker.AllowedTypes == nil {
		pc.Picker.AllowedTypes = append([]string(nil), DefaultImageTypes...)
	}
	if pc.Picker.Height == 0 {
		pc.Picker.Height = defaultPickerHeight
	}
	if pc.Table.Height == 0 {
		pc.Table.Height = defaultTableHeight
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Picker.StartDir = resolvePath(base, pc.Picker.StartDir)
	if pc.Picker.StartDir == "" {
		pc.Picker.StartDir = filepath.Clean(base)
	}
	seen := map[string]struct{}{}
	types := make([]string, 0, len(pc.Picker.AllowedTypes))
	for _, raw := range pc.Picker.AllowedTypes {
		ext := normalizeExt(raw)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		types = append(types, ext)
	}
	pc.Picker.AllowedTypes = types
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if len(pc.Picker.AllowedTypes) == 0 {
		return fmt.Errorf("picker.allowed_types must list at least one extension")
	}
	if pc.Picker.Height < 1 {
		return fmt.Errorf("picker.height must be >= 1")
	}
	if pc.Table.Height < 1 {
		return fmt.Errorf("table.height must be >= 1")
	}
	return nil
}

func normalizeExt(value string) string {
	ext := strings.ToLower(strings.TrimSpace(value))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
