// Package wavefront reads wavefront obj/mtl files into host documents.
package wavefront

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/luxport/asset"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/types"
)

const (
	defaultCameraFOV  = 45.0
	defaultClipStart  = 0.1
	defaultClipEnd    = 1000.0
	defaultObjectName = "default"
)

type vertexKey struct {
	vertex int
	normal int
}

// objectBuilder accumulates the faces of an o/g block.
type objectBuilder struct {
	obj  *host.Object
	mesh *host.Mesh

	// Maps a (vertex, normal) pair to an index in the mesh vertex list.
	vertexIndex map[vertexKey]int

	// Maps a material to its slot index; nil is used by faces without a
	// material.
	slotIndex map[*mtlMaterial]int
}

func newObjectBuilder(name string) *objectBuilder {
	mesh := &host.Mesh{Name: name}
	return &objectBuilder{
		obj: &host.Object{
			Name:   name,
			Matrix: types.Ident4(),
			Data:   mesh,
		},
		mesh:        mesh,
		vertexIndex: make(map[vertexKey]int),
		slotIndex:   make(map[*mtlMaterial]int),
	}
}

func (b *objectBuilder) slot(mat *mtlMaterial) int {
	if index, exists := b.slotIndex[mat]; exists {
		return index
	}

	var hostMat *host.Material
	if mat != nil {
		hostMat = mat.hostMaterial()
	}
	b.obj.Materials = append(b.obj.Materials, hostMat)
	b.slotIndex[mat] = len(b.obj.Materials) - 1
	return len(b.obj.Materials) - 1
}

type cameraDef struct {
	defined bool
	fov     float32
	eye     types.Vec3
	look    types.Vec3
	up      types.Vec3
}

type sceneReader struct {
	logger log.Logger

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *mtlMaterial

	// Parsed wavefront materials.
	materials []*mtlMaterial

	objects   []*objectBuilder
	curObject *objectBuilder
	duplis    []host.Dupli
	camera    cameraDef

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

func newSceneReader() *sceneReader {
	return &sceneReader{
		logger:         log.New("wavefront"),
		matNameToIndex: make(map[string]int),
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		uvList:         make([]types.Vec2, 0),
		errStack:       make([]string, 0),
		camera:         cameraDef{fov: defaultCameraFOV, up: types.XYZ(0, 1, 0), look: types.XYZ(0, 0, -1)},
	}
}

// LoadFile reads a wavefront scene from a local path or URL.
func LoadFile(path string) (*host.Document, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, fmt.Errorf("wavefront: %s", err.Error())
	}
	defer res.Close()

	return Load(res)
}

// Load reads a wavefront scene from res. Includes (call, mtllib) are
// resolved relative to res.
func Load(res *asset.Resource) (*host.Document, error) {
	r := newSceneReader()
	r.logger.Noticef(`parsing scene from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	doc := r.document(sceneName(res.Path()))
	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return doc, nil
}

func sceneName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// document assembles the parsed objects into a host document.
func (r *sceneReader) document(name string) *host.Document {
	doc := &host.Document{SceneName: name}

	for _, b := range r.objects {
		b.obj.Revision = meshRevision(b.mesh)

		// Instanced meshes are only rendered through their instances.
		b.obj.Hidden = len(r.duplis) != 0
		doc.ObjectList = append(doc.ObjectList, b.obj)
	}
	doc.DupliList = r.duplis

	pruned := 0
	for _, mat := range r.materials {
		if !mat.Used {
			r.logger.Infof("skipping unused material %q", mat.Name)
			pruned++
			continue
		}
		doc.MaterialList = append(doc.MaterialList, mat.hostMaterial())
	}
	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}

	if r.camera.defined {
		doc.ActiveCamera = r.camera.hostCamera()
	}
	return doc
}

// hostCamera builds a camera whose local -Z axis points from eye to look.
func (c cameraDef) hostCamera() *host.Camera {
	back := c.eye.Sub(c.look).Normalize()
	right := c.up.Cross(back).Normalize()
	up := back.Cross(right)

	return &host.Camera{
		Name: "camera",
		Matrix: types.Mat4{
			right[0], right[1], right[2], 0,
			up[0], up[1], up[2], 0,
			back[0], back[1], back[2], 0,
			c.eye[0], c.eye[1], c.eye[2], 1,
		},
		FOV:       types.Radians(c.fov),
		ClipStart: defaultClipStart,
		ClipEnd:   defaultClipEnd,
		Type:      "perspective",
	}
}

// meshRevision hashes the mesh geometry.
func meshRevision(mesh *host.Mesh) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 4)
	writeFloat := func(f float32) {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
		h.Write(buf)
	}
	for _, v := range mesh.Vertices {
		for i := 0; i < 3; i++ {
			writeFloat(v.Co[i])
			writeFloat(v.Normal[i])
		}
	}
	for _, f := range mesh.Faces {
		for _, index := range f.Verts {
			binary.LittleEndian.PutUint32(buf, uint32(index))
			h.Write(buf)
		}
		binary.LittleEndian.PutUint32(buf, uint32(f.MaterialIndex))
		h.Write(buf)
	}
	return h.Sum64()
}

// Generate an error message that also includes any data in the error stack.
func (r *sceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("wavefront: [%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("wavefront: error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return fmt.Errorf("%s", strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *sceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *sceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object scene format.
func (r *sceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedObject()
			r.curObject = newObjectBuilder(lineTokens[1])
			r.objects = append(r.objects, r.curObject)
		case "f":
			// If no object has been defined create a default one
			if r.curObject == nil {
				r.curObject = newObjectBuilder(defaultObjectName)
				r.objects = append(r.objects, r.curObject)
			}

			if err = r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_fov":
			r.camera.fov, err = parseFloat32(lineTokens)
			r.camera.defined = true
		case "camera_eye":
			r.camera.eye, err = parseVec3(lineTokens)
			r.camera.defined = true
		case "camera_look":
			r.camera.look, err = parseVec3(lineTokens)
			r.camera.defined = true
		case "camera_up":
			r.camera.up, err = parseVec3(lineTokens)
			r.camera.defined = true
		case "instance":
			var dupli host.Dupli
			if dupli, err = r.parseInstance(lineTokens); err == nil {
				r.duplis = append(r.duplis, dupli)
			}
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedObject()
	return nil
}

// Drop the last parsed object if it contains no faces.
func (r *sceneReader) verifyLastParsedObject() {
	last := len(r.objects) - 1
	if last >= 0 && len(r.objects[last].mesh.Faces) == 0 {
		r.logger.Warningf(`dropping object "%s" as it contains no polygons`, r.objects[last].obj.Name)
		r.objects = r.objects[:last]
		r.curObject = nil
	}
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ yaw pitch roll sX sY sZ
// where:
// - tX, tY, tZ       : translation vector
// - yaw, pitch, roll : rotation angles in degrees
// - sX, sY, sZ	      : scale
func (r *sceneReader) parseInstance(lineTokens []string) (host.Dupli, error) {
	if len(lineTokens) != 11 {
		return host.Dupli{}, fmt.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ yaw pitch roll sX sY sZ; got %d`, len(lineTokens)-1)
	}

	// Find object by name
	var target *host.Object
	for _, b := range r.objects {
		if b.obj.Name == lineTokens[1] {
			target = b.obj
			break
		}
	}
	if target == nil {
		return host.Dupli{}, fmt.Errorf(`unknown mesh with name "%s"`, lineTokens[1])
	}

	var args [9]float32
	for index := range args {
		v, err := strconv.ParseFloat(lineTokens[index+2], 32)
		if err != nil {
			return host.Dupli{}, err
		}
		args[index] = float32(v)
	}
	translation := types.XYZ(args[0], args[1], args[2])
	scale := types.XYZ(args[6], args[7], args[8])

	// Generate final matrix: M = T * R * S
	yawQuat := types.QuatFromAxisAngle(types.XYZ(1, 0, 0), types.Radians(args[3]))
	pitchQuat := types.QuatFromAxisAngle(types.XYZ(0, 1, 0), types.Radians(args[4]))
	rollQuat := types.QuatFromAxisAngle(types.XYZ(0, 0, 1), types.Radians(args[5]))
	rotation := rollQuat.Mul(pitchQuat.Mul(yawQuat))

	return host.Dupli{
		Object: target,
		Matrix: types.TRS(translation, rotation, scale),
	}, nil
}

// Parse face definition. Each face definition consists of at least 3
// arguments, one for each vertex. Each one of the vertex arguments is
// comprised of 1, 2 or 3 args separated by a slash character. The following
// formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
func (r *sceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	b := r.curObject
	face := host.Face{
		Verts: make([]int, 0, len(lineTokens)-1),
	}
	uvs := make([]types.Vec2, 0, len(lineTokens)-1)
	expIndices := 0
	hasUV := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		key := vertexKey{normal: -1}
		var err error
		key.vertex, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}

		var uv types.Vec2
		if expIndices > 1 && vTokens[1] != "" {
			uvIndex, err := selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uv = r.uvList[uvIndex]
			hasUV = true
		}
		uvs = append(uvs, uv)

		if expIndices > 2 && vTokens[2] != "" {
			key.normal, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			face.Smooth = true
		}

		index, exists := b.vertexIndex[key]
		if !exists {
			vertex := host.Vertex{Co: r.vertexList[key.vertex]}
			if key.normal >= 0 {
				vertex.Normal = r.normalList[key.normal]
			}
			b.mesh.Vertices = append(b.mesh.Vertices, vertex)
			index = len(b.mesh.Vertices) - 1
			b.vertexIndex[key] = index
		}
		face.Verts = append(face.Verts, index)
	}

	// Flat faces get their normal from the vertices; vertices without a
	// normal inherit it.
	if !face.Smooth {
		face.Normal = face.FlatNormal(b.mesh.Vertices)
		for _, index := range face.Verts {
			if b.mesh.Vertices[index].Normal == (types.Vec3{}) {
				b.mesh.Vertices[index].Normal = face.Normal
			}
		}
	}

	if hasUV {
		face.UVs = uvs
		b.mesh.HasUV = true
	}

	if r.curMaterial != nil {
		r.curMaterial.Used = true
	}
	face.MaterialIndex = b.slot(r.curMaterial)

	b.mesh.Faces = append(b.mesh.Faces, face)
	return nil
}

// Parse a wavefront material library.
func (r *sceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *mtlMaterial
	var matName string

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = &mtlMaterial{
				Name:  matName,
				relTo: res,
			}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
				curMaterial.host = nil
			case "Kd", "Ks", "Ke", "Tf":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				case "Tf":
					target = &curMaterial.Tf
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat32(lineTokens)
			case "Ns":
				curMaterial.Ns, err = parseFloat32(lineTokens)
			case "KeScaler":
				curMaterial.KeScaler, err = parseFloat32(lineTokens)
			case "map_Kd":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}
				// Texture options precede the file name.
				curMaterial.KdTex = lineTokens[len(lineTokens)-1]
			default:
				r.logger.Debugf("%s:%d: ignoring unsupported mtl statement %q", res.Path(), lineNum, lineTokens[0])
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
