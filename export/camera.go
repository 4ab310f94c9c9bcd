package export

import (
	"math"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/host"
	"github.com/achilleasa/luxport/paramset"
	"github.com/achilleasa/luxport/props"
	"github.com/achilleasa/luxport/types"
)

// exportSettings writes the camera, film and render settings that precede
// the world block.
func (s *Session) exportSettings(hs host.Scene) error {
	if err := s.ctx.Select(api.Main); err != nil {
		return err
	}

	if cam := hs.Camera(); cam != nil {
		if err := s.exportCamera(cam); err != nil {
			return err
		}
	} else {
		s.logger.Warningf("scene %q has no camera; using the renderer default view", hs.Name())
	}

	render := s.cfg.Render
	film := paramset.New().
		AddInteger("xresolution", render.Width).
		AddInteger("yresolution", render.Height).
		AddString("filename", s.outputName(hs)).
		AddBool("write_png", true).
		AddInteger("displayinterval", 10)
	if render.HaltSPP > 0 {
		film.AddInteger("haltspp", render.HaltSPP)
	}

	steps := []func() error{
		func() error { return s.ctx.Film("fleximage", film) },
		func() error { return s.ctx.Sampler(render.Sampler, samplerParams(render.Sampler)) },
		func() error {
			return s.ctx.SurfaceIntegrator(render.Integrator, integratorParams(render.Integrator, render.MaxDepth))
		},
		func() error { return s.ctx.VolumeIntegrator("multi", nil) },
		func() error { return s.ctx.PixelFilter(render.Filter, filterParams(render.Filter, render.FilterWidth)) },
		func() error { return s.ctx.Accelerator(render.Accelerator, nil) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) outputName(hs host.Scene) string {
	if s.cfg.Output.BaseName != "" {
		return s.cfg.Output.BaseName
	}
	return hs.Name()
}

// exportCamera derives the view from the camera matrix: the eye sits at the
// translation and looks down the negative Z axis with Y up.
func (s *Session) exportCamera(cam *host.Camera) error {
	world := s.worldMatrix(cam.Matrix)
	eye := world.Translation()
	forward := world.Col(2).Vec3().Normalize()
	up := world.Col(1).Vec3().Normalize()
	if err := s.ctx.LookAt(eye, eye.Sub(forward), up); err != nil {
		return err
	}

	width, height := float32(s.cfg.Render.Width), float32(s.cfg.Render.Height)
	aspect := width / height

	// The host fov spans the larger image side; the renderer expects the
	// shorter one.
	fov := cam.FOV
	if aspect > 1 {
		fov = 2 * float32(math.Atan(math.Tan(float64(cam.FOV)/2)/float64(aspect)))
	} else if aspect < 1 {
		fov = 2 * float32(math.Atan(math.Tan(float64(cam.FOV)/2)*float64(aspect)))
	}

	screen := []float32{-aspect, aspect, -1, 1}
	if aspect < 1 {
		screen = []float32{-1, 1, -1 / aspect, 1 / aspect}
	}

	scale := s.worldScale()
	ps := paramset.New().
		AddFloat("fov", types.Degrees(fov)).
		AddFloats("screenwindow", screen).
		AddFloat("hither", cam.ClipStart*scale).
		AddFloat("yon", cam.ClipEnd*scale)

	camType := cam.Type
	if camType == "" {
		camType = "perspective"
	}
	if err := s.ctx.Camera(camType, ps); err != nil {
		return err
	}

	return s.scene.Parse(props.New(
		props.NewProperty(props.CameraKey("type"), camType),
		props.NewProperty(props.CameraKey("lookat.orig"), eye),
		props.NewProperty(props.CameraKey("lookat.target"), eye.Sub(forward)),
		props.NewProperty(props.CameraKey("up"), up),
		props.NewProperty(props.CameraKey("fieldofview"), types.Degrees(fov)),
		props.NewProperty(props.CameraKey("screenwindow"), screen),
		props.NewProperty(props.CameraKey("cliphither"), cam.ClipStart*scale),
		props.NewProperty(props.CameraKey("clipyon"), cam.ClipEnd*scale),
	))
}

func samplerParams(name string) *paramset.ParameterSet {
	switch name {
	case "metropolis":
		return paramset.New().
			AddFloat("largemutationprob", 0.4).
			AddBool("noiseaware", true)
	case "lowdiscrepancy", "random":
		return paramset.New().
			AddString("pixelsampler", "lowdiscrepancy").
			AddInteger("pixelsamples", 4)
	}
	return paramset.New()
}

func integratorParams(name string, maxDepth int) *paramset.ParameterSet {
	if name == "bidirectional" {
		return paramset.New().
			AddInteger("eyedepth", maxDepth).
			AddInteger("lightdepth", maxDepth).
			AddString("lightstrategy", "auto")
	}
	return paramset.New().AddInteger("maxdepth", maxDepth)
}

func filterParams(name string, width float32) *paramset.ParameterSet {
	ps := paramset.New().
		AddFloat("xwidth", width).
		AddFloat("ywidth", width)
	if name == "mitchell" {
		ps.AddFloat("B", 1.0/3.0).AddFloat("C", 1.0/3.0)
	}
	return ps
}
