package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/bundle"
	"github.com/achilleasa/luxport/config"
	"github.com/achilleasa/luxport/export"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/props"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ExportScene exports a scene to LuxRender scene files.
func ExportScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	scenePath, err := sceneArg(ctx)
	if err != nil {
		return err
	}

	doc, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	dir, err := cfg.OutputDir()
	if err != nil {
		return err
	}
	base := baseName(cfg, doc)
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	mode, err := api.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}
	apiCtx, err := api.Open(mode, dir, base, nil)
	if err != nil {
		return err
	}

	luxScene := props.NewScene()
	session := export.NewSession(cfg, apiCtx, luxScene).WithAssetDir(filepath.Dir(scenePath))
	stats, err := session.Export(doc)
	if fc, isFile := apiCtx.(*api.FileContext); isFile {
		if closeErr := fc.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return err
	}

	scnPath := filepath.Join(dir, base+".scn")
	if err = luxScene.Save(scnPath); err != nil {
		return err
	}

	displayStats(doc.Name(), stats)

	fc, isFile := apiCtx.(*api.FileContext)
	if !isFile || !cfg.Output.Bundle {
		return nil
	}
	return bundle.Write(filepath.Join(dir, base+".zip"), append(fc.Paths(), scnPath)...)
}

func baseName(cfg config.Config, doc *host.Document) string {
	if cfg.Output.BaseName != "" {
		return cfg.Output.BaseName
	}
	return doc.Name()
}

func displayStats(sceneName string, stats *export.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Export", "Value"})
	for _, row := range stats.Rows() {
		table.Append(row)
	}

	table.Render()
	logger.Noticef("export statistics for %q\n%s", sceneName, buf.String())
}
