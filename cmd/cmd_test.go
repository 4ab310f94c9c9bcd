package cmd

import (
	"archive/zip"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const testScene = `
materials:
  - name: grey
    diffuse_color: [0.5, 0.5, 0.5]
meshes:
  - name: Tri
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
    faces:
      - verts: [0, 1, 2]
lamps:
  - name: Bulb
    type: POINT
    energy: 5
    color: [1, 1, 1]
objects:
  - name: Triangle
    data: Tri
    materials: [grey]
  - name: Light
    data: Bulb
    location: [0, 0, 3]
`

func newTestContext(t *testing.T, args []string, flags map[string]string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("out", "", "")
	set.String("basename", "", "")
	set.Bool("bundle", false, "")
	for name, value := range flags {
		require.NoError(t, set.Set(name, value))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func writeTestScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScene), 0644))
	return path
}

func TestExportScene(t *testing.T) {
	scenePath := writeTestScene(t)
	outDir := filepath.Join(t.TempDir(), "out")

	ctx := newTestContext(t, []string{scenePath}, map[string]string{"out": outDir, "bundle": "true"})
	require.NoError(t, ExportScene(ctx))

	for _, ext := range []string{".lxs", ".lxm", ".lxo", ".scn", ".zip"} {
		_, err := os.Stat(filepath.Join(outDir, "demo"+ext))
		assert.NoError(t, err, "expected demo%s to be generated", ext)
	}

	lxs, err := os.ReadFile(filepath.Join(outDir, "demo.lxs"))
	require.NoError(t, err)
	assert.Contains(t, string(lxs), "WorldBegin")
	assert.Contains(t, string(lxs), "WorldEnd")

	zr, err := zip.OpenReader(filepath.Join(outDir, "demo.zip"))
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"demo.lxs", "demo.lxm", "demo.lxo", "demo.scn"}, names)
}

func TestExportSceneBaseName(t *testing.T) {
	scenePath := writeTestScene(t)
	outDir := t.TempDir()

	ctx := newTestContext(t, []string{scenePath}, map[string]string{"out": outDir, "basename": "final"})
	require.NoError(t, ExportScene(ctx))

	_, err := os.Stat(filepath.Join(outDir, "final.lxs"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "final.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestCommandErrors(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	assert.EqualError(t, ExportScene(ctx), "missing scene file argument")

	ctx = newTestContext(t, []string{"scene.blend"}, map[string]string{"out": t.TempDir()})
	err := ExportScene(ctx)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unsupported scene file"))
}

func TestInspectAndMaterials(t *testing.T) {
	scenePath := writeTestScene(t)

	assert.NoError(t, InspectScene(newTestContext(t, []string{scenePath}, nil)))
	assert.NoError(t, ConvertMaterials(newTestContext(t, []string{scenePath}, nil)))
}
