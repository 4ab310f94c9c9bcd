package cmd

import (
	"github.com/achilleasa/luxport/config"
	"github.com/achilleasa/luxport/log"
	"github.com/urfave/cli"
)

var logger = log.New("luxport")

// setupLogging applies the configured levels; the -v/-vv flags take
// precedence over the global level but not over module overrides.
func setupLogging(ctx *cli.Context, cfg config.Config) {
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	for module, name := range cfg.Log.Modules {
		if level, err := log.ParseLevel(name); err == nil {
			log.SetModuleLevel(module, level)
		}
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
