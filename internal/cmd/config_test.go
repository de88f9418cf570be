package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestTemplateForJSON(t *testing.T) {
	root, err := templateFor("generate", "json")
	require.NoError(t, err)

	assert.Equal(t, "lapack.h", root["header"])
	assert.Equal(t, "lapack_bindgen.h", root["intermediate_header"])
	assert.Equal(t, "../src/ffi", root["dest"])
	assert.Equal(t, "^.*_$", root["allowlist"])
	assert.Equal(t, true, root["use_core"])
	assert.Equal(t, false, root["skip_format"])
	assert.Equal(t, "ilp64", root["feature"])
	assert.Equal(t, []string{}, root["bindgen_arg"])

	logSection, ok := root["log"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "info", logSection["level"])
	assert.Contains(t, logSection, "tool_file")
}

func TestTemplateForYAMLNestsCommandFlags(t *testing.T) {
	root, err := templateFor("check", "yaml")
	require.NoError(t, err)

	assert.Equal(t, "info", root["log.level"])
	assert.Contains(t, root, "log.tool-file")
	assert.NotContains(t, root, "int-width")

	section, ok := root["check"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "auto", section["int-width"])
	assert.Equal(t, false, section["no-color"])
	assert.Equal(t, "__Bindgen", section["prefix"])
}

func TestTemplateForTOMLIsFlat(t *testing.T) {
	root, err := templateFor("watch", "toml")
	require.NoError(t, err)

	assert.Equal(t, "500ms", root["debounce"])
	assert.Equal(t, "auto", root["int-width"])
	assert.Equal(t, "info", root["log.level"])
	for key, val := range root {
		_, nested := val.(map[string]any)
		assert.False(t, nested, key)
	}

	_, err = templateFor("server", "toml")
	assert.Error(t, err)
	_, err = templateFor("generate", "ini")
	assert.Error(t, err)
}

func TestConfigInitWritesFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "lapackbind.json")
	require.NoError(t, (&ConfigInit{Command: "generate", Format: "json", Output: jsonPath}).Run())
	var fromJSON map[string]any
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, "lapack.rs", fromJSON["output"])

	yamlPath := filepath.Join(dir, "nested", "lapackbind.yml")
	require.NoError(t, (&ConfigInit{Command: "check", Format: "yml", Output: yamlPath}).Run())
	var fromYAML map[string]any
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "info", fromYAML["log.level"])
	require.IsType(t, map[string]any{}, fromYAML["check"])

	tomlPath := filepath.Join(dir, "lapackbind.toml")
	require.NoError(t, (&ConfigInit{Command: "generate", Format: "toml", Output: tomlPath}).Run())
	data, err = os.ReadFile(tomlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `int-width = "auto"`)
	assert.Contains(t, string(data), `"log.level" = "info"`)

	err = (&ConfigInit{Command: "generate", Format: "toml", Output: tomlPath}).Run()
	assert.Error(t, err, "existing file must not be overwritten without --force")
	assert.NoError(t, (&ConfigInit{Command: "generate", Format: "toml", Output: tomlPath, Force: true}).Run())

	assert.Error(t, (&ConfigInit{Command: "generate", Format: "ini", Output: filepath.Join(dir, "x.ini")}).Run())
}

func TestGetVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3-dirty"
	v, err := GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-dirty", v)

	Version = "nightly"
	_, err = GetVersion()
	assert.Error(t, err)
}
