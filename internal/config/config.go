// Package config loads the sitebuilder YAML configuration.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "sitebuilder.yaml"

// Config represents the application configuration.
type Config struct {
	SiteName    string          `yaml:"site_name"`
	ProjectRoot string          `yaml:"project_root"`
	Content     ContentConfig   `yaml:"content"`
	Output      OutputConfig    `yaml:"output"`
	Templates   TemplatesConfig `yaml:"templates"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

// ContentConfig locates the content documents.
type ContentConfig struct {
	Directory string `yaml:"directory"` // relative to the project root
	Extension string `yaml:"extension"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"` // relative to the project root
	Clean     bool   `yaml:"clean"`     // Clean output directory before writing
}

// TemplatesConfig points at optional template overrides.
type TemplatesConfig struct {
	Directory string `yaml:"directory,omitempty"` // empty selects the built-in templates
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SiteName:    "kimmo.blog",
		ProjectRoot: ".",
		Content: ContentConfig{
			Directory: "posts",
			Extension: ".mdx",
		},
		Output: OutputConfig{
			Directory: "output",
			Clean:     true,
		},
	}
}

// Load loads configuration from the specified file. Environment variables
// referenced as ${VAR} are expanded before decoding. Keys absent from the
// file keep their defaults; unknown keys are rejected.
func Load(configPath string) (*Config, error) {
	// #nosec G304 -- the configuration path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigNotFound(configPath)
		}
		return nil, errors.IOFailed("read configuration", configPath, err)
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); stderrors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(configPath)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.ConfigInvalid("yaml", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.SiteName) == "":
		return errors.ConfigInvalid("site_name", "must not be empty")
	case c.ProjectRoot == "":
		return errors.ConfigInvalid("project_root", "must not be empty")
	case c.Content.Directory == "":
		return errors.ConfigInvalid("content.directory", "must not be empty")
	case len(c.Content.Extension) < 2 || c.Content.Extension[0] != '.':
		return errors.ConfigInvalid("content.extension", fmt.Sprintf("must start with a dot, got %q", c.Content.Extension))
	case !filepath.IsLocal(c.Output.Directory) || filepath.Clean(c.Output.Directory) == ".":
		return errors.ConfigInvalid("output.directory", fmt.Sprintf("must be a directory inside the project root, got %q", c.Output.Directory))
	case overlaps(c.Output.Directory, c.Content.Directory):
		return errors.ConfigInvalid("output.directory",
			fmt.Sprintf("must not contain or be inside content.directory (%q and %q)", c.Output.Directory, c.Content.Directory))
	}
	return nil
}

// overlaps reports whether a and b, both relative to the project root, are
// the same directory or one contains the other.
func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

// within reports whether dir is parent or dir itself.
func within(dir, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(dir))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ContentDir returns the content directory joined to the project root.
func (c *Config) ContentDir() string {
	return filepath.Join(c.ProjectRoot, c.Content.Directory)
}

// Init creates a new configuration file holding the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigInvalid("path", "configuration file already exists: "+configPath+" (use --force to overwrite)")
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.InternalError("marshal configuration", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.IOFailed("write configuration", configPath, err)
	}
	return nil
}
