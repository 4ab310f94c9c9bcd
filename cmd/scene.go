package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/host/gltfscene"
	"github.com/achilleasa/luxport/host/wavefront"
	"github.com/achilleasa/luxport/host/yamlscene"
	"github.com/urfave/cli"
)

// loadScene picks a reader based on the scene file extension.
func loadScene(path string) (*host.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlscene.LoadFile(path)
	case ".obj":
		return wavefront.LoadFile(path)
	case ".gltf", ".glb":
		return gltfscene.Load(path)
	}
	return nil, fmt.Errorf("unsupported scene file %q; expected a .yaml, .obj, .gltf or .glb file", path)
}

// sceneArg returns the single scene file argument of a command.
func sceneArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", errors.New("missing scene file argument")
	}
	return ctx.Args().First(), nil
}
