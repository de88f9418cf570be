package configpaths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCandidatePathsRoutesUserPath(t *testing.T) {
	tests := []struct {
		path string
		json bool
		yaml bool
		toml bool
	}{
		{path: "custom.yml", yaml: true},
		{path: "custom.yaml", yaml: true},
		{path: "custom.toml", toml: true},
		{path: "custom.json", json: true},
		{path: "custom.conf", json: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			j, y, tm := ConfigCandidatePaths(tt.path)
			assert.Equal(t, tt.json, len(j) > 0 && j[0] == tt.path)
			assert.Equal(t, tt.yaml, len(y) > 0 && y[0] == tt.path)
			assert.Equal(t, tt.toml, len(tm) > 0 && tm[0] == tt.path)
		})
	}
}

func TestConfigCandidatePathsUsesXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME is not consulted on windows")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "lapackbind"), dir)

	_, _, tomlPaths := ConfigCandidatePaths("")
	assert.Contains(t, tomlPaths, filepath.Join(xdg, "lapackbind", "lapackbind.toml"))
}
