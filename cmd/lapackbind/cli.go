package main

import (
	"github.com/Alia5/lapackbind/internal/cmd"
	"github.com/Alia5/lapackbind/internal/log"
)

// CLI is the root command line.
type CLI struct {
	Config string     `help:"Configuration file (json, yaml or toml)" env:"LAPACKBIND_CONFIG"`
	Log    log.Config `embed:"" prefix:"log."`

	Generate    cmd.Generate      `cmd:"" default:"withargs" help:"Generate lapack.rs from lapack.h and place it in the crate"`
	Preprocess  cmd.Preprocess    `cmd:"" help:"Only rewrite the header into the form handed to bindgen"`
	Postprocess cmd.Postprocess   `cmd:"" help:"Only apply the binding rewrites to an existing bindgen output"`
	Check       cmd.Check         `cmd:"" help:"Fail if the placed module differs from a fresh generation"`
	Watch       cmd.Watch         `cmd:"" help:"Regenerate whenever the header changes"`
	ConfigCmd   cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Version     cmd.VersionCmd    `cmd:"" help:"Print the version"`
}
