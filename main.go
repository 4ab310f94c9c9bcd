package main

import (
	"os"

	"github.com/achilleasa/luxport/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "luxport"
	app.Usage = "export scenes to LuxRender"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a TOML file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "export a scene to LuxRender scene files",
			Description: `
Read a scene from a yaml, wavefront obj or glTF file and write it out as a
LuxRender scene (.lxs), material (.lxm) and geometry (.lxo) file triple plus
a .scn file with the property based light definitions.

When --bundle is set the generated files are also packed into a zip archive.`,
			ArgsUsage: "scene_file",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "bundle, b",
					Usage: "pack the generated files into a zip archive",
				},
			}, cmd.ExportFlags...),
			Action: cmd.ExportScene,
		},
		{
			Name:  "watch",
			Usage: "re-export a scene every time it changes",
			Description: `
Export the scene and keep watching the scene file. Every change triggers an
incremental export pass; objects that did not change since the previous pass
are skipped and lights that disappeared are removed from the .scn file.`,
			ArgsUsage: "scene_file",
			Flags:     cmd.ExportFlags,
			Action:    cmd.WatchScene,
		},
		{
			Name:      "inspect",
			Usage:     "export a scene in memory and print statistics",
			ArgsUsage: "scene_file",
			Flags:     cmd.ExportFlags,
			Action:    cmd.InspectScene,
		},
		{
			Name:      "materials",
			Usage:     "convert the scene materials and print their properties",
			ArgsUsage: "scene_file",
			Action:    cmd.ConvertMaterials,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration",
			Flags:  cmd.ExportFlags,
			Action: cmd.ShowConfig,
		},
	}

	app.Run(os.Args)
}
