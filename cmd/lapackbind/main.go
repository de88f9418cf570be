package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/Alia5/lapackbind/internal/configpaths"
	"github.com/Alia5/lapackbind/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/joho/godotenv"
)

func main() {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
		os.Exit(2)
	}

	var cli CLI
	ctx := newParser(&cli, findUserConfig(os.Args[1:]), os.Args[1:])

	logger, toolLog, closers, err := log.Setup(cli.Log, os.Stdout, os.Stderr)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)
	ctx.BindTo(toolLog, (*log.ToolLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func newParser(cli *CLI, userCfg string, args []string) *kong.Context {
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)
	parser := kong.Must(cli,
		kong.Name("lapackbind"),
		kong.Description("Generate feature-gated Rust FFI bindings from lapack.h"),
		kong.UsageOnError(),
		// Config files fill defaults; flags and env vars override them.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)
	return ctx
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("LAPACKBIND_CONFIG")
}
