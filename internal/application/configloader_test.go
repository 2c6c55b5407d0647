package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dbsession/internal/adapter/driven/secret"
	"github.com/ericfisherdev/dbsession/internal/application"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

func legacyCipher() *secret.LegacyCBC {
	return secret.NewLegacyCBC(secret.NewStaticKey(secret.LegacyKeyString))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigLoader_LoadDecryptsKnownGoodValue(t *testing.T) {
	c := legacyCipher()
	enc, err := c.Encrypt("hunter2")
	require.NoError(t, err)

	raw := []byte(`{"host":"db.internal","port":3306,"user":"luna","password":"` + enc + `","database":"world"}`)
	loader := application.NewConfigLoader(c, discardLogger())

	cfg, err := loader.Load(raw, application.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "luna", cfg.User)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "world", cfg.Database)
}

func TestConfigLoader_LoadKeepsPlaintextPassword(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	cfg, err := loader.Load([]byte(`{"host":"h","port":1,"user":"u","password":"abc","database":"d"}`), application.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Password)
}

func TestConfigLoader_LoadSkipsEmptyPassword(t *testing.T) {
	mc := &mockCipher{}
	loader := application.NewConfigLoader(mc, discardLogger())

	cfg, err := loader.Load([]byte(`{"host":"h","port":1,"user":"u","database":"d"}`), application.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, "", cfg.Password)
	assert.Zero(t, mc.calls, "empty password must not reach the cipher")
}

func TestConfigLoader_LoadIgnoresUnknownFields(t *testing.T) {
	mc := &mockCipher{plain: map[string]string{"sealed": "open"}}
	loader := application.NewConfigLoader(mc, discardLogger())

	cfg, err := loader.Load([]byte(`{"host":"h","port":5,"user":"u","password":"sealed","database":"d","charset":"latin1"}`), application.FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, "open", cfg.Password)
	assert.Equal(t, 5, cfg.Port)
}

func TestConfigLoader_LoadYAML(t *testing.T) {
	enc, err := legacyCipher().Encrypt("hunter2")
	require.NoError(t, err)
	raw := []byte("host: db.internal\nport: 3307\nuser: luna\npassword: \"" + enc + "\"\ndatabase: world\n")
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	cfg, err := loader.Load(raw, application.FormatYAML)

	require.NoError(t, err)
	assert.Equal(t, 3307, cfg.Port)
	assert.Equal(t, "hunter2", cfg.Password)
}

func TestConfigLoader_LoadAbsent(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	cfg, err := loader.Load(nil, application.FormatJSON)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, driven.ErrConfigAbsent)
}

func TestConfigLoader_LoadMalformed(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	for _, raw := range []string{`{"host":`, `{"port":"not-a-number"}`, ``} {
		cfg, err := loader.Load([]byte(raw), application.FormatJSON)
		assert.Nil(t, cfg, "input %q", raw)
		assert.ErrorIs(t, err, driven.ErrConfigMalformed, "input %q", raw)
	}

	cfg, err := loader.Load([]byte("host: [unterminated"), application.FormatYAML)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, driven.ErrConfigMalformed)
}

func TestConfigLoader_LoadEmptyDocument(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	tests := []struct {
		name   string
		raw    string
		format application.Format
	}{
		{name: "json null", raw: "null", format: application.FormatJSON},
		{name: "json null with whitespace", raw: " null\n", format: application.FormatJSON},
		{name: "empty yaml", raw: "", format: application.FormatYAML},
		{name: "yaml comment only", raw: "# nothing here\n", format: application.FormatYAML},
		{name: "yaml null", raw: "~", format: application.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loader.Load([]byte(tt.raw), tt.format)

			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, driven.ErrConfigMalformed)
		})
	}
}

func TestConfigLoader_LoadFileEmptyYAML(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())
	path := writeFile(t, "dbconfig.yaml", "")

	cfg, err := loader.LoadFile(path)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, driven.ErrConfigMalformed)
}

func TestConfigLoader_LoadFileMissing(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	cfg, err := loader.LoadFile(filepath.Join(t.TempDir(), "dbconfig.json"))

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, driven.ErrConfigAbsent)
}

func TestConfigLoader_LoadFilePicksFormatByExtension(t *testing.T) {
	loader := application.NewConfigLoader(legacyCipher(), discardLogger())

	jsonPath := writeFile(t, "dbconfig.json", `{"host":"j","port":1,"user":"u","database":"d"}`)
	yamlPath := writeFile(t, "dbconfig.yml", "host: y\nport: 2\nuser: u\ndatabase: d\n")

	cfg, err := loader.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", cfg.Host)

	cfg, err = loader.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "y", cfg.Host)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, application.FormatYAML, application.FormatFromPath("conf/db.YAML"))
	assert.Equal(t, application.FormatYAML, application.FormatFromPath("db.yml"))
	assert.Equal(t, application.FormatJSON, application.FormatFromPath("dbconfig.json"))
	assert.Equal(t, application.FormatJSON, application.FormatFromPath("dbconfig"))
}
