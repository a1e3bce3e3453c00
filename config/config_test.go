package config

import (
	"docql/util"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	util.AssertNil(t, err)
	return path
}

func TestConfig_loadToml(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "docql.toml", `
port = "9000"
cert = "server.crt"
key = "server.key"
logging = "debug"
`)

	// Act
	config, err := Load(path)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, &Config{
		Port:              "9000",
		CertFile:          "server.crt",
		KeyFile:           "server.key",
		Logging:           "debug",
		MaxQueryLogLength: DefaultMaxQueryLogLength,
	}, config)
	util.AssertTrue(t, config.UseTls())
}

func TestConfig_loadYaml(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "docql.yml", `
port: "9001"
max-query-log-length: 200
`)

	// Act
	config, err := Load(path)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, "9001", config.Port)
	util.AssertEqual(t, DefaultLogging, config.Logging)
	util.AssertEqual(t, 200, config.MaxQueryLogLength)
	util.AssertFalse(t, config.UseTls())
}

func TestConfig_loadEmptyYamlKeepsDefaults(t *testing.T) {
	// Arrange
	path := writeConfigFile(t, "docql.yaml", "")

	// Act
	config, err := Load(path)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, Default(), config)
}

func TestConfig_unknownKeys(t *testing.T) {
	// Act
	_, tomlErr := Parse([]byte(`prot = "9000"`), FormatTOML)
	_, yamlErr := Parse([]byte(`prot: "9000"`), FormatYAML)

	// Assert
	util.AssertError(t, "Unknown config key 'prot'", tomlErr)
	util.AssertNotNil(t, yamlErr)
}

func TestConfig_loadMissingFile(t *testing.T) {
	// Act
	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	// Assert
	util.AssertNil(t, config)
	util.AssertNotNil(t, err)

	_, err = Load(" ")
	util.AssertError(t, "Config file path must not be empty", err)
}

func TestConfig_detectFormat(t *testing.T) {
	util.AssertEqual(t, FormatYAML, detectFormat("a/b/docql.yaml"))
	util.AssertEqual(t, FormatYAML, detectFormat("docql.YML"))
	util.AssertEqual(t, FormatTOML, detectFormat("docql.toml"))
	util.AssertEqual(t, FormatTOML, detectFormat("docql"))
}

func TestConfig_validate(t *testing.T) {
	// Arrange
	invalidPort := Default()
	invalidPort.Port = "http"

	invalidLogging := Default()
	invalidLogging.Logging = "verbose"

	certWithoutKey := Default()
	certWithoutKey.CertFile = "server.crt"

	invalidLogLength := Default()
	invalidLogLength.MaxQueryLogLength = 0

	// Act & Assert
	util.AssertNil(t, Default().Validate())
	util.AssertError(t, "Invalid port 'http'", invalidPort.Validate())
	util.AssertError(t, "Unknown logging level 'verbose'", invalidLogging.Validate())
	util.AssertError(t, "Certificate and key file must be given together", certWithoutKey.Validate())
	util.AssertError(t, "Maximum query log length must be positive but was 0", invalidLogLength.Validate())
}

func TestConfig_applyOverrides(t *testing.T) {
	// Arrange
	config := Default()
	config.CertFile = "server.crt"
	config.KeyFile = "server.key"

	// Act
	config.ApplyOverrides(Config{Port: "443", Logging: "trace"})

	// Assert
	util.AssertEqual(t, &Config{
		Port:              "443",
		CertFile:          "server.crt",
		KeyFile:           "server.key",
		Logging:           "trace",
		MaxQueryLogLength: DefaultMaxQueryLogLength,
	}, config)
}
