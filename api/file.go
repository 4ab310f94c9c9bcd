package api

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/achilleasa/luxport/log"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/types"
	"github.com/mitchellh/go-homedir"
)

var fileExtensions = [numStreams]string{
	Main:      ".lxs",
	Materials: ".lxm",
	Geometry:  ".lxo",
}

type fileStream struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// FileContext writes statements to a scene file and the material and
// geometry files it includes.
type FileContext struct {
	logger  log.Logger
	streams [numStreams]*fileStream
	current Stream
	closed  bool
}

// NewFileContext creates the <base>.lxs, <base>.lxm and <base>.lxo files
// inside dir, creating dir if required. A leading ~ in dir is expanded to
// the user's home directory.
func NewFileContext(dir, base string) (*FileContext, error) {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("api: could not expand output dir: %s", err.Error())
	}
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("api: could not create output dir: %s", err.Error())
	}

	fc := &FileContext{logger: log.New("file context")}
	for stream, ext := range fileExtensions {
		path := filepath.Join(dir, base+ext)
		f, err := os.Create(path)
		if err != nil {
			fc.Close()
			return nil, fmt.Errorf("api: could not create %s: %s", path, err.Error())
		}
		fc.streams[stream] = &fileStream{path: path, file: f, w: bufio.NewWriter(f)}
	}

	fc.logger.Infof("writing scene to %s", fc.streams[Main].path)
	return fc, nil
}

// Paths returns the generated file paths in stream order.
func (fc *FileContext) Paths() []string {
	paths := make([]string, 0, numStreams)
	for _, s := range fc.streams {
		if s != nil {
			paths = append(paths, s.path)
		}
	}
	return paths
}

// Close flushes and closes all streams. It is safe to call more than once.
func (fc *FileContext) Close() error {
	if fc.closed {
		return nil
	}
	fc.closed = true

	var firstErr error
	for _, s := range fc.streams {
		if s == nil {
			continue
		}
		if err := s.w.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (fc *FileContext) write(text string) error {
	if fc.closed {
		return ErrClosed
	}
	_, err := fc.streams[fc.current].w.WriteString(text)
	return err
}

func (fc *FileContext) statement(directive string, ps *paramset.ParameterSet, args ...string) error {
	return fc.write(FormatStatement(directive, ps, args...))
}

func (fc *FileContext) Select(stream Stream) error {
	if stream < 0 || stream >= numStreams {
		return ErrUnknownStream
	}
	fc.current = stream
	return nil
}

func (fc *FileContext) Sampler(name string, ps *paramset.ParameterSet) error {
	return fc.statement("Sampler", ps, name)
}

func (fc *FileContext) Accelerator(name string, ps *paramset.ParameterSet) error {
	return fc.statement("Accelerator", ps, name)
}

func (fc *FileContext) SurfaceIntegrator(name string, ps *paramset.ParameterSet) error {
	return fc.statement("SurfaceIntegrator", ps, name)
}

func (fc *FileContext) VolumeIntegrator(name string, ps *paramset.ParameterSet) error {
	return fc.statement("VolumeIntegrator", ps, name)
}

func (fc *FileContext) PixelFilter(name string, ps *paramset.ParameterSet) error {
	return fc.statement("PixelFilter", ps, name)
}

func (fc *FileContext) Camera(name string, ps *paramset.ParameterSet) error {
	return fc.statement("Camera", ps, name)
}

func (fc *FileContext) Film(name string, ps *paramset.ParameterSet) error {
	return fc.statement("Film", ps, name)
}

func (fc *FileContext) LookAt(eye, target, up types.Vec3) error {
	return fc.write(formatLookAt(eye, target, up))
}

// WorldBegin opens the world block in the main stream and includes the
// material and geometry files.
func (fc *FileContext) WorldBegin() error {
	if err := fc.Select(Main); err != nil {
		return err
	}
	if err := fc.write("\nWorldBegin\n\n"); err != nil {
		return err
	}
	for _, stream := range []Stream{Materials, Geometry} {
		if err := fc.statement("Include", nil, filepath.Base(fc.streams[stream].path)); err != nil {
			return err
		}
	}
	return fc.write("\n")
}

// WorldEnd closes the world block and all streams. The files are read back
// by the renderer so nothing is forwarded to a live binding.
func (fc *FileContext) WorldEnd() error {
	if err := fc.Select(Main); err != nil {
		return err
	}
	if err := fc.write("WorldEnd\n"); err != nil {
		return err
	}
	return fc.Close()
}

func (fc *FileContext) AttributeBegin() error {
	return fc.write("AttributeBegin\n")
}

func (fc *FileContext) AttributeEnd() error {
	return fc.write("AttributeEnd\n\n")
}

func (fc *FileContext) Transform(m types.Mat4) error {
	return fc.write(formatTransform(m))
}

func (fc *FileContext) ObjectBegin(name string) error {
	return fc.statement("ObjectBegin", nil, name)
}

func (fc *FileContext) ObjectEnd() error {
	return fc.write("ObjectEnd\n\n")
}

func (fc *FileContext) ObjectInstance(name string) error {
	return fc.statement("ObjectInstance", nil, name)
}

func (fc *FileContext) LightGroup(name string, ps *paramset.ParameterSet) error {
	return fc.statement("LightGroup", ps, name)
}

func (fc *FileContext) LightSource(name string, ps *paramset.ParameterSet) error {
	return fc.statement("LightSource", ps, name)
}

func (fc *FileContext) AreaLightSource(name string, ps *paramset.ParameterSet) error {
	return fc.statement("AreaLightSource", ps, name)
}

func (fc *FileContext) Shape(name string, ps *paramset.ParameterSet) error {
	return fc.statement("Shape", ps, name)
}

func (fc *FileContext) Texture(name, variant, texType string, ps *paramset.ParameterSet) error {
	return fc.statement("Texture", ps, name, variant, texType)
}

func (fc *FileContext) MakeNamedMaterial(name string, ps *paramset.ParameterSet) error {
	return fc.statement("MakeNamedMaterial", ps, name)
}

func (fc *FileContext) NamedMaterial(name string) error {
	return fc.statement("NamedMaterial", nil, name)
}
