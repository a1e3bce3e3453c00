package config

import (
	"bytes"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultPort              = "8080"
	DefaultLogging           = "info"
	DefaultMaxQueryLogLength = 10000
)

type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Config contains the settings of the HTTP server. Values given as command line flags take precedence over the values
// of a config file (see ApplyOverrides).
type Config struct {
	Port              string `toml:"port" yaml:"port"`
	CertFile          string `toml:"cert" yaml:"cert"`
	KeyFile           string `toml:"key" yaml:"key"`
	Logging           string `toml:"logging" yaml:"logging"`
	MaxQueryLogLength int    `toml:"max-query-log-length" yaml:"max-query-log-length"`
}

func Default() *Config {
	return &Config{
		Port:              DefaultPort,
		Logging:           DefaultLogging,
		MaxQueryLogLength: DefaultMaxQueryLogLength,
	}
}

// Load reads the file at the given path. The format is determined by the file extension, everything except ".yaml"
// and ".yml" is read as TOML. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	return LoadWithFormat(path, FormatAuto)
}

func LoadWithFormat(path string, format Format) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("Config file path must not be empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading config file %s", path)
	}

	if format == FormatAuto {
		format = detectFormat(path)
	}

	config, err := Parse(content, format)
	if err != nil {
		return nil, errors.Wrapf(err, "Error loading config file %s", path)
	}

	return config, nil
}

// Parse decodes the content in the given format and validates the result. Unknown keys are rejected.
func Parse(content []byte, format Format) (*Config, error) {
	config := Default()

	switch format {
	case FormatTOML, FormatAuto:
		metadata, err := toml.Decode(string(content), config)
		if err != nil {
			return nil, errors.Wrap(err, "Error decoding TOML")
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("Unknown config key '%s'", undecoded[0].String())
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		err := decoder.Decode(config)
		// An empty document keeps all defaults
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "Error decoding YAML")
		}
	default:
		return nil, errors.Errorf("Unsupported config format %s", format.String())
	}

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// ApplyOverrides takes all non-empty values of the given config, typically filled from command line flags.
func (c *Config) ApplyOverrides(overrides Config) {
	if overrides.Port != "" {
		c.Port = overrides.Port
	}
	if overrides.CertFile != "" {
		c.CertFile = overrides.CertFile
	}
	if overrides.KeyFile != "" {
		c.KeyFile = overrides.KeyFile
	}
	if overrides.Logging != "" {
		c.Logging = overrides.Logging
	}
	if overrides.MaxQueryLogLength > 0 {
		c.MaxQueryLogLength = overrides.MaxQueryLogLength
	}
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.Errorf("Invalid port '%s'", c.Port)
	}

	switch strings.ToLower(c.Logging) {
	case "info", "debug", "trace":
	default:
		return errors.Errorf("Unknown logging level '%s'", c.Logging)
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("Certificate and key file must be given together")
	}

	if c.MaxQueryLogLength <= 0 {
		return errors.Errorf("Maximum query log length must be positive but was %d", c.MaxQueryLogLength)
	}

	return nil
}

// UseTls is true when a certificate and key file are configured.
func (c *Config) UseTls() bool {
	return c.CertFile != "" && c.KeyFile != ""
}
