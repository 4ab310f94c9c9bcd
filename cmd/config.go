package cmd

import (
	"os"

	"github.com/achilleasa/luxport/config"
	"github.com/urfave/cli"
)

// ExportFlags are the flags shared by all commands that export a scene.
var ExportFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output dir; overrides output.dir",
	},
	cli.StringFlag{
		Name:  "basename",
		Usage: "base name of the generated files; defaults to the scene name",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width; overrides render.width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height; overrides render.height",
	},
	cli.Float64Flag{
		Name:  "scale",
		Usage: "world scale; overrides scene.world_scale",
	},
}

// loadConfig reads the file passed via the global --config flag (or the
// defaults) and applies the command line overrides.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if dir := ctx.String("out"); dir != "" {
		cfg.Output.Dir = dir
	}
	if base := ctx.String("basename"); base != "" {
		cfg.Output.BaseName = base
	}
	if ctx.Bool("bundle") {
		cfg.Output.Bundle = true
	}
	if w := ctx.Int("width"); w > 0 {
		cfg.Render.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		cfg.Render.Height = h
	}
	if scale := ctx.Float64("scale"); scale > 0 {
		cfg.Scene.WorldScale = float32(scale)
	}

	setupLogging(ctx, cfg)
	return cfg, cfg.Validate()
}

// ShowConfig prints the effective configuration as TOML.
func ShowConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Encode(os.Stdout)
}
