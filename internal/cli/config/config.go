package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
	"github.com/shaderpatch/shaderpatch/internal/inject"
)

// FileNames are the config file names searched for, in order
var FileNames = []string{"shaderpatch.yml", "shaderpatch.yaml"}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the shaderpatch project configuration
type Config struct {
	Shaders   ShadersConfig     `mapstructure:"shaders" yaml:"shaders"`
	Patches   PatchesConfig     `mapstructure:"patches" yaml:"patches"`
	Snippets  SnippetsConfig    `mapstructure:"snippets" yaml:"snippets"`
	Debug     DebugConfig       `mapstructure:"debug" yaml:"debug"`
	Defines   []DefineConfig    `mapstructure:"defines" yaml:"defines,omitempty"`
	Generated map[string]string `mapstructure:"generated" yaml:"generated,omitempty"`
	Extract   []ExtractConfig   `mapstructure:"extract" yaml:"extract,omitempty"`
}

// ShadersConfig locates shader sources and build output
type ShadersConfig struct {
	Dir        string   `mapstructure:"dir" yaml:"dir"`
	Output     string   `mapstructure:"output" yaml:"output"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// PatchesConfig locates the declarative patch list
type PatchesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// SnippetsConfig locates reusable snippet assets
type SnippetsConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// DebugConfig controls writing of fully resolved stages
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

// DefineConfig declares a value property emitted as a #define
type DefineConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Type  string `mapstructure:"type" yaml:"type"`
	Value string `mapstructure:"value" yaml:"value"`
}

// ExtractConfig declares a function-extraction producer: the named function is
// pulled from the patched source of File and stored as generated value Key.
type ExtractConfig struct {
	File     string `mapstructure:"file" yaml:"file"`
	Function string `mapstructure:"function" yaml:"function"`
	Key      string `mapstructure:"key" yaml:"key"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Shaders: ShadersConfig{
			Dir:        "shaders",
			Output:     "build/shaders",
			Extensions: defaultExtensions(),
		},
		Patches:  PatchesConfig{File: "patches.yml"},
		Snippets: SnippetsConfig{Dir: "snippets", Extension: ".glsl"},
		Debug:    DebugConfig{Enabled: false, Dir: "build/debug"},
	}
}

func defaultExtensions() []string {
	return []string{".vert", ".frag", ".geom", ".comp", ".tesc", ".tese", ".glsl"}
}

// Load loads the configuration from path, or from shaderpatch.yml / shaderpatch.yaml
// in the current directory when path is empty. A missing default file is not
// an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	def := DefaultConfig()
	v.SetDefault("shaders.dir", def.Shaders.Dir)
	v.SetDefault("shaders.output", def.Shaders.Output)
	v.SetDefault("shaders.extensions", def.Shaders.Extensions)
	v.SetDefault("patches.file", def.Patches.File)
	v.SetDefault("snippets.dir", def.Snippets.Dir)
	v.SetDefault("snippets.extension", def.Snippets.Extension)
	v.SetDefault("debug.enabled", def.Debug.Enabled)
	v.SetDefault("debug.dir", def.Debug.Dir)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shaderpatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment overrides, e.g. SHADERPATCH_DEBUG_ENABLED=true
	v.SetEnvPrefix("SHADERPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Save writes cfg as YAML to path
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindConfigFile walks up from the current directory looking for a config file
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found", FileNames[0])
		}
		dir = parent
	}
}

// Validate checks defines and extraction producers
func Validate(cfg *Config) error {
	seen := make(map[string]bool)
	for i, d := range cfg.Defines {
		if !identifier.MatchString(d.Name) {
			return perrors.NewInvalidConfig(fmt.Sprintf("defines[%d]: invalid name %q", i, d.Name))
		}
		if seen[d.Name] {
			return perrors.NewInvalidConfig(fmt.Sprintf("defines[%d]: duplicate name %q", i, d.Name))
		}
		seen[d.Name] = true

		if err := d.check(); err != nil {
			return perrors.NewInvalidConfig(fmt.Sprintf("defines[%d] %s: %v", i, d.Name, err))
		}
	}

	for i, e := range cfg.Extract {
		if e.File == "" || e.Function == "" || e.Key == "" {
			return perrors.NewInvalidConfig(fmt.Sprintf("extract[%d]: file, function and key are required", i))
		}
	}

	return nil
}

// Kind returns the define's property kind
func (d DefineConfig) Kind() (inject.Kind, error) {
	kind, ok := inject.ParseKind(d.Type)
	if !ok {
		return 0, fmt.Errorf("unknown type %q (want bool, int, float or static)", d.Type)
	}
	return kind, nil
}

// Bool parses the value of a bool define
func (d DefineConfig) Bool() (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(d.Value))
}

// Int parses the value of an int define
func (d DefineConfig) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(d.Value))
}

// Float parses the value of a float define
func (d DefineConfig) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(d.Value), 64)
}

func (d DefineConfig) check() error {
	kind, err := d.Kind()
	if err != nil {
		return err
	}

	switch kind {
	case inject.KindBool:
		_, err = d.Bool()
	case inject.KindInt:
		_, err = d.Int()
	case inject.KindFloat:
		_, err = d.Float()
	}
	return err
}

// DefineByName returns the define called name
func (c *Config) DefineByName(name string) (DefineConfig, bool) {
	for _, d := range c.Defines {
		if d.Name == name {
			return d, true
		}
	}
	return DefineConfig{}, false
}

// IsShader reports whether path has one of the configured shader extensions
func (c *Config) IsShader(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Shaders.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
