// Package config loads fakergen settings from flags, environment variables
// and an optional config file.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides, e.g.
// FAKERGEN_OUTPUT_DIR.
const EnvPrefix = "FAKERGEN"

// Config is the complete fakergen configuration.
type Config struct {
	// InputDir is scanned for model files.
	InputDir string `mapstructure:"input_dir"`
	// Namespace is the namespace of the generated fakers.
	Namespace string `mapstructure:"namespace"`
	// OutputDir receives the generated files. It is created if absent.
	OutputDir string `mapstructure:"output_dir"`
	// Recursive also scans subdirectories of InputDir.
	Recursive bool `mapstructure:"recursive"`
	// Pattern selects model files by base name.
	Pattern string `mapstructure:"pattern"`
	// Ext is the extension of generated files.
	Ext string `mapstructure:"ext"`
	// LineEndings is "lf" or "crlf".
	LineEndings string `mapstructure:"line_endings"`
	// Workers bounds the number of model files generated concurrently.
	Workers int `mapstructure:"workers"`

	Log LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "")
	v.SetDefault("namespace", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("recursive", false)
	v.SetDefault("pattern", "*.cs")
	v.SetDefault("ext", ".cs")
	v.SetDefault("line_endings", "lf")
	v.SetDefault("workers", 1)
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)
}

// New returns a Viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads file into v when file is non-empty, then unmarshals and
// validates the result. The file format follows its extension.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing or malformed settings.
func (c *Config) Validate() error {
	var missing []string
	if c.InputDir == "" {
		missing = append(missing, "input directory")
	}
	if c.Namespace == "" {
		missing = append(missing, "output namespace")
	}
	if c.OutputDir == "" {
		missing = append(missing, "output directory")
	}
	if len(missing) > 0 {
		return errors.WithHint(
			errors.Newf("missing %s", strings.Join(missing, ", ")),
			"Usage: fakergen <path_to_model_directory> <output_namespace> <output_path> [-r]",
		)
	}

	switch c.LineEndings {
	case "lf", "crlf":
	default:
		return errors.Newf("line_endings must be lf or crlf, got %q", c.LineEndings)
	}
	if c.Workers < 1 {
		return errors.Newf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Ext != "" && !strings.HasPrefix(c.Ext, ".") {
		c.Ext = "." + c.Ext
	}
	return nil
}

// EOL is the line terminator selected by LineEndings.
func (c *Config) EOL() string {
	if c.LineEndings == "crlf" {
		return "\r\n"
	}
	return "\n"
}
