package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/export"
	"github.com/achilleasa/luxport/props"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/exp/maps"
)

// InspectScene exports a scene into memory and reports what would be
// written without touching the output dir.
func InspectScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Output.Mode = string(api.ModeLive)

	scenePath, err := sceneArg(ctx)
	if err != nil {
		return err
	}

	doc, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	rec := api.NewRecorder()
	luxScene := props.NewScene()
	session := export.NewSession(cfg, rec, luxScene).WithAssetDir(filepath.Dir(scenePath))
	if _, err = session.Export(doc); err != nil {
		return err
	}

	counts := rec.Counts()
	directives := maps.Keys(counts)
	sort.Strings(directives)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Directive", "Statements"})
	for _, directive := range directives {
		table.Append([]string{directive, fmt.Sprint(counts[directive])})
	}
	table.SetFooter([]string{"Total", fmt.Sprint(len(rec.Statements))})
	table.Render()

	lights := session.Lights().Sorted()
	if len(lights) != 0 {
		buf.WriteString("\n")
		table = tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeader([]string{"Light", "Type"})
		for _, l := range lights {
			table.Append([]string{l.Name, l.Type})
		}
		table.Render()
	}

	if groups := session.Lightgroups().Names(); len(groups) != 0 {
		fmt.Fprintf(&buf, "\nlightgroups: %v\n", groups)
	}
	if luxScene.Properties().Len() != 0 {
		fmt.Fprintf(&buf, "\nscene properties:\n%s", luxScene.Properties().String())
	}

	logger.Noticef("scene %q\n%s", doc.Name(), buf.String())
	return nil
}
