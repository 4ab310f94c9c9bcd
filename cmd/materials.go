package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/achilleasa/luxport/material"
	"github.com/urfave/cli"
)

// ConvertMaterials converts the materials of a scene and prints the
// resulting property sets. Conversion failures are listed at the end.
func ConvertMaterials(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
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

	mats := doc.Materials()
	conv := material.NewConverter(filepath.Dir(scenePath))
	graphs, errs := conv.ConvertAll(mats)

	var buf bytes.Buffer
	for index, graph := range graphs {
		if graph == nil {
			continue
		}
		fmt.Fprintf(&buf, "# %s\n%s\n", mats[index].Name, graph.Properties().String())
	}
	logger.Noticef("converted %d of %d materials\n%s", len(mats)-len(errs), len(mats), buf.String())

	if len(errs) != 0 {
		for _, err := range errs {
			logger.Error(err.Error())
		}
		return fmt.Errorf("%d materials could not be converted", len(errs))
	}
	return nil
}
