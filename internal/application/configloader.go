package application

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Format identifies the encoding of a configuration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// configFile is the on-disk shape. Fields not listed here are ignored.
type configFile struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
}

// ConfigLoader turns configuration file bytes into a ConnectionConfig holding
// a plaintext password.
type ConfigLoader struct {
	cipher driven.SecretCipher
	logger *slog.Logger
}

// NewConfigLoader creates a ConfigLoader that decrypts passwords with cipher.
func NewConfigLoader(cipher driven.SecretCipher, logger *slog.Logger) *ConfigLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigLoader{cipher: cipher, logger: logger}
}

// Load decodes raw and decrypts its password. A nil raw returns
// driven.ErrConfigAbsent; a decode failure or an input with no document
// returns an error wrapping driven.ErrConfigMalformed. A password that does not decrypt is kept as-is
// and a warning is logged.
func (l *ConfigLoader) Load(raw []byte, format Format) (*model.ConnectionConfig, error) {
	if raw == nil {
		return nil, driven.ErrConfigAbsent
	}

	var f *configFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &f)
	default:
		err = json.Unmarshal(raw, &f)
	}
	if err != nil {
		l.logger.Error("config decode failed", "format", format, "error", err)
		return nil, fmt.Errorf("%w: %w", driven.ErrConfigMalformed, err)
	}
	// JSON null and a YAML stream with no document decode cleanly to nothing.
	if f == nil {
		l.logger.Error("config decode failed", "format", format, "error", "no document")
		return nil, fmt.Errorf("%w: no document", driven.ErrConfigMalformed)
	}

	cfg := &model.ConnectionConfig{
		Host:     f.Host,
		Port:     f.Port,
		User:     f.User,
		Password: f.Password,
		Database: f.Database,
	}

	if cfg.Password != "" {
		plain, ok := l.cipher.Decrypt(cfg.Password)
		if ok {
			l.logger.Info("credential decrypted", "user", cfg.User)
		} else {
			// Either the value was never encrypted or it is corrupt; the two
			// cannot be told apart, so surface it for operators.
			l.logger.Warn("credential treated as plaintext", "user", cfg.User)
		}
		cfg.Password = plain
	}

	l.logger.Info("config loaded", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)
	return cfg, nil
}

// LoadFile reads path and loads it in the format implied by its extension.
// A missing or unreadable file returns an error wrapping driven.ErrConfigAbsent.
func (l *ConfigLoader) LoadFile(path string) (*model.ConnectionConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Error("config file not found", "path", path)
		} else {
			l.logger.Error("config file unreadable", "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", driven.ErrConfigAbsent, err)
	}
	return l.Load(raw, FormatFromPath(path))
}
