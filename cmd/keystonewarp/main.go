// Command keystonewarp applies a keystone correction to an image or
// animated GIF offline: load media, position the destination quad from a
// calibration file or a YAML render spec, render, and write the result.
package main

import (
	"flag"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/keystone"
)

func main() {
	var (
		input       = flag.String("input", "", "input media (png/jpeg/gif/webp/bmp/tiff)")
		calibration = flag.String("calibration", "", "calibration JSON file")
		saveCal     = flag.String("save-calibration", "", "write the effective corners to a calibration JSON file")
		specPath    = flag.String("spec", "", "YAML render spec")
		output      = flag.String("output", "out.png", "output file (png/jpg/gif)")
		width       = flag.Int("width", 0, "output width (default: media width)")
		height      = flag.Int("height", 0, "output height (default: media height)")
		resolution  = flag.Int("resolution", 0, "mesh resolution override (1-128)")
		preview     = flag.Bool("preview", false, "print the result to the terminal")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		keystone.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	media, err := keystone.LoadMedia(*input)
	if err != nil {
		log.Fatalf("Failed to load media: %v", err)
	}

	scene := keystone.NewScene()
	defer func() {
		_ = scene.Close()
	}()
	scene.SetSource(media)

	var opts []keystone.RendererOption
	if *specPath != "" {
		spec, err := loadSpec(*specPath)
		if err != nil {
			log.Fatalf("Failed to load render spec: %v", err)
		}
		opts, err = spec.apply(scene)
		if err != nil {
			log.Fatalf("Failed to apply render spec: %v", err)
		}
	}
	if *calibration != "" {
		cal, err := keystone.LoadCalibrationFile(*calibration)
		if err != nil {
			log.Fatalf("Failed to load calibration: %v", err)
		}
		if err := cal.Apply(scene); err != nil {
			log.Fatalf("Failed to apply calibration: %v", err)
		}
	}
	if *resolution > 0 {
		scene.Resolution = *resolution
	}

	mw, mh := media.Size()
	w, h := *width, *height
	if w <= 0 {
		w = mw
	}
	if h <= 0 {
		h = mh
	}

	renderer := keystone.NewRenderer(opts...)
	out := keystone.NewPixmap(w, h)

	switch {
	case strings.EqualFold(filepath.Ext(*output), ".gif"):
		if err := renderGIF(renderer, scene, media, out, *output); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	default:
		renderer.Render(scene, out)
		if err := saveStill(out, *output); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
	}

	if *saveCal != "" {
		if err := keystone.SaveCalibrationFile(*saveCal, scene); err != nil {
			log.Fatalf("Failed to save calibration: %v", err)
		}
	}

	if *preview {
		renderer.Render(scene, out)
		printPreview(out)
	}

	log.Printf("Saved %s (%dx%d)\n", *output, w, h)
}

// saveStill writes a single rendered frame, choosing the encoder by file
// extension.
func saveStill(out *keystone.Pixmap, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		return jpeg.Encode(f, out.ToImage(), &jpeg.Options{Quality: 92})
	default:
		return out.SavePNG(path)
	}
}

// renderGIF re-renders the scene once per decoded input frame and encodes
// the warped animation. Static inputs produce a single-frame GIF. The scene
// is left pinned to the last frame, so a later preview render shows it.
func renderGIF(renderer *keystone.Renderer, scene *keystone.Scene, media keystone.Media, out *keystone.Pixmap, path string) error {
	loop, ok := media.(*keystone.FrameLoop)
	if !ok {
		renderer.Render(scene, out)
		return encodeGIF(path, []*keystone.Pixmap{out}, []int{0})
	}

	// Snapshot the decoded frames and delays up front: the first SetSource
	// below closes the loop (the scene owns its source), but the frame
	// pixmaps themselves stay valid.
	n := loop.FrameCount()
	srcFrames := make([]*keystone.Pixmap, n)
	delays := make([]int, n)
	for i := 0; i < n; i++ {
		srcFrames[i] = loop.FrameAt(i)
		delays[i] = int(loop.DelayAt(i).Milliseconds() / 10)
	}

	bar := progressbar.Default(int64(n), "rendering frames")
	frames := make([]*keystone.Pixmap, 0, n)
	for i := 0; i < n; i++ {
		// Pin the scene's source to one decoded frame so the render is
		// deterministic instead of following the wall clock.
		scene.SetSource(keystone.NewStaticPixmap(srcFrames[i]))

		frame := keystone.NewPixmap(out.Width(), out.Height())
		renderer.Render(scene, frame)
		frames = append(frames, frame)
		_ = bar.Add(1)
	}
	return encodeGIF(path, frames, delays)
}

// encodeGIF quantizes rendered frames and writes an animated GIF.
// Delays are in centiseconds, matching the GIF wire format.
func encodeGIF(path string, frames []*keystone.Pixmap, delays []int) error {
	g := &gif.GIF{LoopCount: 0}
	for i, frame := range frames {
		img := frame.ToImage()
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		g.Image = append(g.Image, pal)
		g.Delay = append(g.Delay, delays[i])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return gif.EncodeAll(f, g)
}
