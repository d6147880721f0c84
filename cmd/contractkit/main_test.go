package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/contractkit/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	for _, want := range []string{"contractkit version:", "Git commit:", "Build date:", "Go version:"} {
		assert.Contains(t, out, want)
	}
}

func TestPrimitivesCommand_JSON(t *testing.T) {
	chdir(t, t.TempDir())
	out, err := run(t, "primitives", "-o", "json")
	require.NoError(t, err)

	var rows []primitiveRow
	require.NoError(t, j.Unmarshal([]byte(out), &rows))
	byName := map[string]primitiveRow{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	require.Contains(t, byName, "guid")
	assert.Equal(t, "uuid.UUID", byName["guid"].GoType)
	assert.Equal(t, "uuid", byName["guid"].Schema.Format)
	assert.Equal(t, "integer", byName["int"].Schema.Type)
}

func TestPrimitivesCommand_YAMLAndText(t *testing.T) {
	chdir(t, t.TempDir())
	out, err := run(t, "primitives", "--output", "yaml")
	require.NoError(t, err)
	var rows []primitiveRow
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	assert.NotEmpty(t, rows)

	out, err = run(t, "primitives")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "NAME"))
	assert.Contains(t, out, "string (date-time)")

	_, err = run(t, "primitives", "-o", "xml")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "contractkit.yaml"),
		[]byte("name_policy: snake\nemit_default_value: false\n"), 0o644))
	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "snake", cfg.NamePolicy)
	assert.False(t, cfg.EmitDefaultValue)

	t.Setenv("CONTRACTKIT_NAME_POLICY", "camel")
	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "camel", cfg.NamePolicy)

	t.Setenv("CONTRACTKIT_NAME_POLICY", "kebab")
	_, err = loadConfig("")
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_member_access: true\n"), 0o644))

	out, err := run(t, "--config", path, "config")
	require.NoError(t, err)
	var cfg catalog.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.AllowMemberAccess)
	assert.Equal(t, "declared", cfg.NamePolicy)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
