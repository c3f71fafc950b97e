// Package config loads site settings from .quire.yml, QUIRE_* environment
// variables and an optional .env file, in increasing order of precedence
// for the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the per-site configuration file looked up at the site root.
const FileName = ".quire.yml"

// EnvPrefix namespaces environment overrides (QUIRE_CONTENT_DIR, ...).
const EnvPrefix = "QUIRE"

// Config holds the per-site settings read from .quire.yml and QUIRE_* variables.
// Directories are relative to the site root.
type Config struct {
	ContentDir  string        `mapstructure:"content_dir" yaml:"content_dir"`
	AuthorsDir  string        `mapstructure:"authors_dir" yaml:"authors_dir"`
	SystemDir   string        `mapstructure:"system_dir" yaml:"system_dir"`
	Versioning  bool          `mapstructure:"versioning" yaml:"versioning"`
	AutoInit    bool          `mapstructure:"auto_init" yaml:"auto_init"`
	Remote      string        `mapstructure:"remote" yaml:"remote"`
	Branch      string        `mapstructure:"branch" yaml:"branch,omitempty"`
	Ignore      []string      `mapstructure:"ignore" yaml:"ignore,omitempty"`
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`

	// Source is the config file that was read, empty when running on defaults.
	Source string `mapstructure:"-" yaml:"-"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		ContentDir:  "content/posts",
		AuthorsDir:  "authors",
		SystemDir:   ".quire",
		Versioning:  true,
		AutoInit:    true,
		Remote:      "origin",
		LockTimeout: 10 * time.Second,
	}
}

// Load reads the configuration for the site at root. An explicit file must
// exist; otherwise a missing .quire.yml just means defaults.
func Load(root, file string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("content_dir", def.ContentDir)
	v.SetDefault("authors_dir", def.AuthorsDir)
	v.SetDefault("system_dir", def.SystemDir)
	v.SetDefault("versioning", def.Versioning)
	v.SetDefault("auto_init", def.AutoInit)
	v.SetDefault("remote", def.Remote)
	v.SetDefault("branch", def.Branch)
	v.SetDefault("ignore", []string{})
	v.SetDefault("lock_timeout", def.LockTimeout)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(root)
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks directory settings stay inside the site and values are sane.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ContentDir, validation.Required, validation.By(relativeDir)),
		validation.Field(&c.AuthorsDir, validation.Required, validation.By(relativeDir)),
		validation.Field(&c.SystemDir, validation.Required, validation.By(relativeDir)),
		validation.Field(&c.Remote, validation.When(c.Versioning, validation.Required)),
		validation.Field(&c.LockTimeout, validation.Min(time.Duration(0)).Error("must not be negative")),
		validation.Field(&c.Ignore, validation.Each(validation.By(doublestarPattern))),
	)
}

func relativeDir(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if filepath.IsAbs(s) {
		return errors.New("must be relative to the site root")
	}
	clean := filepath.ToSlash(filepath.Clean(s))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("must not leave the site root")
	}
	return nil
}

func doublestarPattern(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid pattern %q", s)
	}
	return nil
}

// Save writes cfg as the site's .quire.yml, refusing to overwrite an existing file.
func Save(root string, cfg Config) (string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, os.ErrExist
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// LoadEnvFile reads root/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
