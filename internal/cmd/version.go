package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set at build time: -ldflags "-X github.com/Alia5/lapackbind/internal/cmd.Version=x.y.z"
var Version = ""

// GetVersion returns the ldflags version, the module version recorded by
// `go install`, or "0.0.1-dev".
func GetVersion() (string, error) {
	v := Version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if v == "" {
		return "0.0.1-dev", nil
	}

	v = strings.TrimPrefix(v, "v")
	base := strings.SplitN(v, "-", 2)[0]
	if !strings.Contains(base, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", v)
	}
	return v, nil
}

type VersionCmd struct{}

func (VersionCmd) Run() error {
	v, err := GetVersion()
	if err != nil {
		return err
	}
	fmt.Println("lapackbind", v)
	return nil
}
