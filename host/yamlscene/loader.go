// Package yamlscene reads host scene dumps stored as YAML documents.
package yamlscene

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/types"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const defaultCameraFOV = 0.857556

var logger = log.New("yaml scene")

// LoadFile reads a scene dump from disk. The file name without its
// extension is used as the scene name unless the document defines one.
func LoadFile(path string) (*host.Document, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("yamlscene: %s", err.Error())
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("yamlscene: %s", err.Error())
	}
	defer f.Close()

	base := filepath.Base(expanded)
	return Load(f, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Load decodes a scene dump. Unknown keys are rejected.
func Load(r io.Reader, name string) (*host.Document, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yamlscene: %s", err.Error())
	}

	if doc.Name != "" {
		name = doc.Name
	}

	b := &builder{
		out:       &host.Document{SceneName: name},
		materials: make(map[string]*host.Material),
		data:      make(map[string]host.ObjectData),
		dataDocs:  make(map[string]interface{}),
	}
	if err := b.build(&doc); err != nil {
		return nil, err
	}

	logger.Infof("loaded scene %q: %d objects, %d materials, %d duplis", name, len(b.out.ObjectList), len(b.out.MaterialList), len(b.out.DupliList))
	return b.out, nil
}

type builder struct {
	out       *host.Document
	materials map[string]*host.Material
	data      map[string]host.ObjectData

	// The decoded data blocks; hashed into the revision of the objects
	// that reference them.
	dataDocs map[string]interface{}
}

func (b *builder) build(doc *document) error {
	for i := range doc.Materials {
		mat, err := buildMaterial(&doc.Materials[i])
		if err != nil {
			return err
		}
		if _, exists := b.materials[mat.Name]; exists {
			return fmt.Errorf("yamlscene: material %q already defined", mat.Name)
		}
		b.materials[mat.Name] = mat
		b.out.MaterialList = append(b.out.MaterialList, mat)
	}

	for i := range doc.Meshes {
		md := &doc.Meshes[i]
		mesh, err := buildMesh(md)
		if err != nil {
			return err
		}
		if err = b.addData(md.Name, mesh, md); err != nil {
			return err
		}
	}

	for i := range doc.Lamps {
		ld := &doc.Lamps[i]
		lamp, err := buildLamp(ld)
		if err != nil {
			return err
		}
		if err = b.addData(ld.Name, lamp, ld); err != nil {
			return err
		}
	}

	for i := range doc.Objects {
		obj, err := b.buildObject(&doc.Objects[i])
		if err != nil {
			return err
		}
		if b.out.Object(obj.Name) != nil {
			return fmt.Errorf("yamlscene: object %q already defined", obj.Name)
		}
		b.out.ObjectList = append(b.out.ObjectList, obj)
	}

	for _, dd := range doc.Duplis {
		dupli, err := b.buildDupli(dd)
		if err != nil {
			return err
		}
		b.out.DupliList = append(b.out.DupliList, dupli)
	}

	if doc.Camera != nil {
		cam, err := buildCamera(doc.Camera)
		if err != nil {
			return err
		}
		b.out.ActiveCamera = cam
	}
	return nil
}

func (b *builder) addData(name string, data host.ObjectData, dataDoc interface{}) error {
	if _, exists := b.data[name]; exists {
		return fmt.Errorf("yamlscene: data block %q already defined", name)
	}
	b.data[name] = data
	b.dataDocs[name] = dataDoc
	return nil
}

func (b *builder) buildObject(od *objectDoc) (*host.Object, error) {
	matrix, err := od.transformDoc.matrix()
	if err != nil {
		return nil, fmt.Errorf("yamlscene: object %q: %s", od.Name, err.Error())
	}

	obj := &host.Object{
		Name:   od.Name,
		Matrix: matrix,
		Hidden: od.Hidden,
	}

	if od.Data != "" {
		data, exists := b.data[od.Data]
		if !exists {
			return nil, fmt.Errorf("yamlscene: object %q references unknown data block %q", od.Name, od.Data)
		}
		obj.Data = data
	}

	for _, matName := range od.Materials {
		if matName == "" {
			obj.Materials = append(obj.Materials, nil)
			continue
		}
		mat, exists := b.materials[matName]
		if !exists {
			return nil, fmt.Errorf("yamlscene: object %q references unknown material %q", od.Name, matName)
		}
		obj.Materials = append(obj.Materials, mat)
	}

	if obj.Revision, err = revision(od, b.dataDocs[od.Data]); err != nil {
		return nil, fmt.Errorf("yamlscene: object %q: %s", od.Name, err.Error())
	}
	return obj, nil
}

// revision hashes the re-marshaled object and data block definitions.
func revision(docs ...interface{}) (uint64, error) {
	h := fnv.New64a()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		raw, err := yaml.Marshal(doc)
		if err != nil {
			return 0, err
		}
		h.Write(raw)
	}
	return h.Sum64(), nil
}

func (b *builder) buildDupli(dd dupliDoc) (host.Dupli, error) {
	obj := b.out.Object(dd.Object)
	if obj == nil {
		return host.Dupli{}, fmt.Errorf("yamlscene: dupli references unknown object %q", dd.Object)
	}

	dupli := host.Dupli{Object: obj}
	if dd.Duplicator != "" {
		if dupli.Duplicator = b.out.Object(dd.Duplicator); dupli.Duplicator == nil {
			return host.Dupli{}, fmt.Errorf("yamlscene: dupli of %q references unknown duplicator %q", dd.Object, dd.Duplicator)
		}
	}

	var err error
	if dupli.Matrix, err = dd.transformDoc.matrix(); err != nil {
		return host.Dupli{}, fmt.Errorf("yamlscene: dupli of %q: %s", dd.Object, err.Error())
	}
	return dupli, nil
}

func buildCamera(cd *cameraDoc) (*host.Camera, error) {
	matrix, err := cd.transformDoc.matrix()
	if err != nil {
		return nil, fmt.Errorf("yamlscene: camera %q: %s", cd.Name, err.Error())
	}

	cam := &host.Camera{
		Name:      cd.Name,
		Matrix:    matrix,
		FOV:       cd.FOV,
		ClipStart: cd.ClipStart,
		ClipEnd:   cd.ClipEnd,
		Type:      cd.Type,
	}
	if cam.FOV <= 0 {
		cam.FOV = defaultCameraFOV
	}
	if cam.ClipStart <= 0 {
		cam.ClipStart = 0.1
	}
	if cam.ClipEnd <= cam.ClipStart {
		cam.ClipEnd = 100
	}
	if cam.Type == "" {
		cam.Type = "perspective"
	}
	return cam, nil
}

func (t *transformDoc) matrix() (types.Mat4, error) {
	if len(t.Matrix) != 0 {
		if t.Location != nil || t.Rotation != nil || t.Scale != nil {
			return types.Mat4{}, fmt.Errorf("matrix cannot be combined with location/rotation/scale")
		}
		if len(t.Matrix) != 16 {
			return types.Mat4{}, fmt.Errorf("expected 16 matrix entries; got %d", len(t.Matrix))
		}
		return types.Mat4FromSlice(t.Matrix), nil
	}

	translation := types.Vec3{}
	if t.Location != nil {
		translation = *t.Location
	}
	rotation := types.QuatIdent()
	if t.Rotation != nil {
		rotation = types.QuatFromXYZW(*t.Rotation)
	}
	scale := types.XYZ(1, 1, 1)
	if t.Scale != nil {
		scale = *t.Scale
	}
	return types.TRS(translation, rotation, scale), nil
}
