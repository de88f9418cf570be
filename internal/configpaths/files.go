package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName  = "lapackbind"
	baseName = "lapackbind"
)

// DefaultConfigDir returns the per-user configuration directory for lapackbind.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appName), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate config files per format, most specific first:
// the user supplied path, the working directory, then the user config directory.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	addDir := func(dir string) {
		jsonPaths = append(jsonPaths, filepath.Join(dir, baseName+".json"))
		yamlPaths = append(yamlPaths, filepath.Join(dir, baseName+".yaml"), filepath.Join(dir, baseName+".yml"))
		tomlPaths = append(tomlPaths, filepath.Join(dir, baseName+".toml"))
	}

	if wd, err := os.Getwd(); err == nil {
		addDir(wd)
	}
	if dir, err := DefaultConfigDir(); err == nil {
		addDir(dir)
	}
	return
}
