package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Alia5/lapackbind/internal/configpaths"
	"github.com/Alia5/lapackbind/internal/log"

	"github.com/alecthomas/kong"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"generate,check,watch" default:"generate"`
	Format  string `help:"Output format" enum:"json,yaml,yml,toml" default:"toml"`
	Output  string `help:"Destination file path (defaults to lapackbind.<format> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run renders the command's flags and defaults, plus the logging flags, in
// the layout the matching kong configuration loader reads back.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	root, err := templateFor(c.Command, format)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = "lapackbind." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	data, err := marshalConfig(root, format)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// templateGrammar mirrors the commands a template can be generated for, so
// flag names come from kong itself.
type templateGrammar struct {
	Log      log.Config `embed:"" prefix:"log."`
	Generate Generate   `cmd:""`
	Check    Check      `cmd:""`
	Watch    Watch      `cmd:""`
}

// templateFor lays out the command's flags the way the format's loader
// resolves them:
//
//	json  snake_case keys, nested on "." (kong.JSON)
//	yaml  command flags nested under the command, root flags as named (kong-yaml)
//	toml  every flag at the top level as named (kong-toml rejects other keys)
func templateFor(command, format string) (map[string]any, error) {
	if command == "" {
		command = "generate"
	}
	k, err := kong.New(&templateGrammar{}, kong.Name("lapackbind"), kong.NoDefaultHelp())
	if err != nil {
		return nil, fmt.Errorf("build flag model: %w", err)
	}
	var node *kong.Node
	for _, child := range k.Model.Children {
		if child.Type == kong.CommandNode && child.Name == command {
			node = child
		}
	}
	if node == nil {
		return nil, fmt.Errorf("unknown command %q; expected generate, check or watch", command)
	}

	root := map[string]any{}
	add := func(f *kong.Flag, section string) error {
		val := defaultValueForField(f.Target.Type(), f.Default)
		if val == nil {
			return nil
		}
		var path []string
		switch format {
		case "json":
			path = strings.Split(strings.ReplaceAll(f.Name, "-", "_"), ".")
		case "yaml":
			if section != "" {
				path = append(path, section)
			}
			path = append(path, f.Name)
		case "toml":
			path = []string{f.Name}
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}
		return setPath(root, path, val)
	}
	for _, f := range k.Model.Flags {
		if err := add(f, ""); err != nil {
			return nil, err
		}
	}
	for _, f := range node.Flags {
		if err := add(f, node.Name); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func setPath(root map[string]any, path []string, val any) error {
	m := root
	for _, key := range path[:len(path)-1] {
		next, ok := m[key]
		if !ok {
			child := map[string]any{}
			m[key] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q is both a value and a section", strings.Join(path, "."))
		}
		m = child
	}
	m[path[len(path)-1]] = val
	return nil
}

func marshalConfig(root map[string]any, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(root, "", "  ")
	case "yaml":
		return yaml.Marshal(root)
	case "toml":
		return toml.Marshal(root)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(time.Duration(0)) {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Slice:
		if t.Elem().Kind() != reflect.String {
			return nil
		}
		if def == "" {
			return []string{}
		}
		return strings.Split(def, ",")
	default:
		return nil
	}
}
