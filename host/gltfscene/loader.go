// Package gltfscene reads glTF 2.0 assets into host documents.
package gltfscene

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"

	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/types"
	"github.com/qmuntal/gltf"
)

const defaultClipEnd = 1000.0

// Load reads a .gltf or .glb file.
func Load(path string) (*host.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltfscene: could not open %q: %s", path, err.Error())
	}

	base := filepath.Base(path)
	l := &loader{
		logger:   log.New("gltf scene"),
		doc:      doc,
		baseDir:  filepath.Dir(path),
		out:      &host.Document{SceneName: strings.TrimSuffix(base, filepath.Ext(base))},
		meshes:   make(map[int]*host.Mesh),
		objNames: make(map[string]bool),
	}
	if err = l.load(); err != nil {
		return nil, err
	}
	return l.out, nil
}

type loader struct {
	logger  log.Logger
	doc     *gltf.Document
	baseDir string
	out     *host.Document

	materials []*host.Material
	meshes    map[int]*host.Mesh
	objNames  map[string]bool
}

func (l *loader) load() error {
	for index, m := range l.doc.Materials {
		mat := l.material(index, m)
		l.materials = append(l.materials, mat)
		l.out.MaterialList = append(l.out.MaterialList, mat)
	}

	for _, root := range l.roots() {
		if err := l.visit(root, types.Ident4(), 0); err != nil {
			return err
		}
	}

	l.logger.Infof("loaded %q: %d objects, %d meshes, %d materials", l.out.SceneName, len(l.out.ObjectList), len(l.meshes), len(l.materials))
	return nil
}

// roots returns the root nodes of the default scene. Documents without
// scenes use every node that is not a child of another node.
func (l *loader) roots() []int {
	if len(l.doc.Scenes) != 0 {
		sceneIndex := 0
		if l.doc.Scene != nil && int(*l.doc.Scene) < len(l.doc.Scenes) {
			sceneIndex = int(*l.doc.Scene)
		}
		roots := make([]int, len(l.doc.Scenes[sceneIndex].Nodes))
		for pos, nodeIndex := range l.doc.Scenes[sceneIndex].Nodes {
			roots[pos] = int(nodeIndex)
		}
		return roots
	}

	isChild := make(map[int]bool)
	for _, n := range l.doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	roots := make([]int, 0)
	for index := range l.doc.Nodes {
		if !isChild[index] {
			roots = append(roots, index)
		}
	}
	return roots
}

// visit flattens the node hierarchy accumulating world transforms.
func (l *loader) visit(nodeIndex int, parent types.Mat4, depth int) error {
	if nodeIndex < 0 || nodeIndex >= len(l.doc.Nodes) {
		return fmt.Errorf("gltfscene: node index %d out of bounds", nodeIndex)
	}
	if depth > len(l.doc.Nodes) {
		return fmt.Errorf("gltfscene: node hierarchy contains a cycle")
	}

	n := l.doc.Nodes[nodeIndex]
	world := parent.Mul4(localMatrix(n))

	if n.Mesh != nil {
		if err := l.addMeshObject(nodeIndex, n, world); err != nil {
			return err
		}
	}
	if n.Camera != nil && l.out.ActiveCamera == nil {
		l.addCamera(nodeIndex, n, world)
	}

	for _, child := range n.Children {
		if err := l.visit(int(child), world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func localMatrix(n *gltf.Node) types.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != identityMatrix {
		var values [16]float32
		for index, v := range n.Matrix {
			values[index] = float32(v)
		}
		return types.Mat4FromSlice(values[:])
	}

	t, r, s := n.Translation, n.Rotation, n.Scale
	rotation := types.QuatIdent()
	if r != [4]float64{} {
		rotation = types.QuatFromXYZW([4]float32{float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])})
	}
	scale := types.XYZ(1, 1, 1)
	if s != [3]float64{} {
		scale = types.XYZ(float32(s[0]), float32(s[1]), float32(s[2]))
	}
	return types.TRS(types.XYZ(float32(t[0]), float32(t[1]), float32(t[2])), rotation, scale)
}

func (l *loader) objectName(nodeIndex int, name, fallback string) string {
	if name == "" {
		name = fmt.Sprintf("%s_%d", fallback, nodeIndex)
	}
	if l.objNames[name] {
		name = fmt.Sprintf("%s_%d", name, nodeIndex)
	}
	l.objNames[name] = true
	return name
}

func (l *loader) addMeshObject(nodeIndex int, n *gltf.Node, world types.Mat4) error {
	meshIndex := int(*n.Mesh)
	if meshIndex >= len(l.doc.Meshes) {
		return fmt.Errorf("gltfscene: node %d references out of bounds mesh %d", nodeIndex, meshIndex)
	}

	mesh, err := l.mesh(meshIndex)
	if err != nil {
		return err
	}

	obj := &host.Object{
		Name:   l.objectName(nodeIndex, n.Name, "node"),
		Matrix: world,
		Data:   mesh,
	}
	for _, prim := range l.doc.Meshes[meshIndex].Primitives {
		var mat *host.Material
		if prim.Material != nil && int(*prim.Material) < len(l.materials) {
			mat = l.materials[*prim.Material]
		}
		obj.Materials = append(obj.Materials, mat)
	}
	obj.Revision = revision(meshIndex, world, obj.Materials)

	l.out.ObjectList = append(l.out.ObjectList, obj)
	return nil
}

// revision hashes the mesh reference, the transform and the material
// assignment of an object.
func revision(meshIndex int, world types.Mat4, materials []*host.Material) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(meshIndex))
	h.Write(buf)
	for _, v := range world {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		h.Write(buf)
	}
	for _, m := range materials {
		if m != nil {
			h.Write([]byte(m.Name))
		}
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (l *loader) addCamera(nodeIndex int, n *gltf.Node, world types.Mat4) {
	camIndex := int(*n.Camera)
	if camIndex >= len(l.doc.Cameras) {
		l.logger.Warningf("node %d references out of bounds camera %d", nodeIndex, camIndex)
		return
	}

	c := l.doc.Cameras[camIndex]
	if c.Perspective == nil {
		l.logger.Warningf("skipping non-perspective camera %q", c.Name)
		return
	}

	// Host cameras store the horizontal field of view.
	fov := c.Perspective.Yfov
	if c.Perspective.AspectRatio != nil && *c.Perspective.AspectRatio > 0 {
		fov = 2 * math.Atan(math.Tan(fov/2)*(*c.Perspective.AspectRatio))
	}

	clipEnd := float32(defaultClipEnd)
	if c.Perspective.Zfar != nil {
		clipEnd = float32(*c.Perspective.Zfar)
	}

	name := c.Name
	if name == "" {
		name = l.objectName(nodeIndex, n.Name, "camera")
	}
	l.out.ActiveCamera = &host.Camera{
		Name:      name,
		Matrix:    world,
		FOV:       float32(fov),
		ClipStart: float32(c.Perspective.Znear),
		ClipEnd:   clipEnd,
		Type:      "perspective",
	}
}
