package keystone

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	// Registered raster decode formats. PNG, JPEG and GIF come from the
	// standard library; WebP, BMP and TIFF from golang.org/x/image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedMedia indicates media that could not be decoded. Nothing is
// attached in that case; a previously attached source stays in place.
var ErrUnsupportedMedia = errors.New("keystone: unsupported media")

// Media is a source of pixels attached to the output surface or to a
// shape. Exactly two variants exist: StaticImage (fixed pixels) and
// FrameLoop (pixels change over time, requiring periodic re-render).
//
// The attachment owns its Media: replacing or detaching one must Close the
// previous instance before the reference is dropped.
type Media interface {
	// Size returns the pixel dimensions, fixed for the media's lifetime.
	Size() (w, h int)

	// Frame returns the current frame. The returned pixmap is owned by
	// the Media and must not be retained across calls. Returns nil after
	// Close.
	Frame() *Pixmap

	// Live reports whether the frame content changes over time.
	Live() bool

	// Close releases decode resources. Idempotent.
	Close() error
}

// StaticImage is a Media with fixed pixel content.
type StaticImage struct {
	pix *Pixmap
}

// NewStaticImage creates a static media source from a decoded image.
func NewStaticImage(img image.Image) *StaticImage {
	return &StaticImage{pix: FromImage(img)}
}

// NewStaticPixmap creates a static media source that shares the given
// pixmap.
func NewStaticPixmap(pix *Pixmap) *StaticImage {
	return &StaticImage{pix: pix}
}

// Size returns the pixel dimensions.
func (s *StaticImage) Size() (int, int) {
	if s.pix == nil {
		return 0, 0
	}
	return s.pix.Width(), s.pix.Height()
}

// Frame returns the fixed pixel content.
func (s *StaticImage) Frame() *Pixmap { return s.pix }

// Live reports false: static content never requires re-render.
func (s *StaticImage) Live() bool { return false }

// Close releases the pixel buffer. Idempotent.
func (s *StaticImage) Close() error {
	s.pix = nil
	return nil
}

// FrameLoop is a Media backed by a pre-decoded animation (an animated
// GIF). Frames loop forever; Frame selects by wall clock against the
// per-frame delays, so renders at any cadence stay in sync with the
// animation timeline. Size is fixed at decode time.
type FrameLoop struct {
	frames []*Pixmap
	delays []time.Duration
	total  time.Duration
	width  int
	height int

	start time.Time
	now   func() time.Time // stubbed in tests
}

// minFrameDelay substitutes for the zero and one-centisecond delays many
// GIF encoders emit, mirroring how browsers play such files.
const minFrameDelay = 100 * time.Millisecond

// NewFrameLoop creates a looping frame source from a decoded GIF.
// Frames are coalesced onto a shared canvas so that partial-frame GIFs
// render correctly.
func NewFrameLoop(g *gif.GIF) (*FrameLoop, error) {
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: animation has no frames", ErrUnsupportedMedia)
	}

	// Logical screen size; fall back to the first frame's bounds when the
	// header omits it.
	w, h := g.Config.Width, g.Config.Height
	if w <= 0 || h <= 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	fl := &FrameLoop{
		frames: make([]*Pixmap, 0, len(g.Image)),
		delays: make([]time.Duration, 0, len(g.Image)),
		width:  w,
		height: h,
		now:    time.Now,
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		fl.frames = append(fl.frames, FromImage(canvas))

		delay := time.Duration(0)
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		if delay < minFrameDelay {
			delay = minFrameDelay
		}
		fl.delays = append(fl.delays, delay)
		fl.total += delay

		// DisposalBackground clears the frame rect before the next frame.
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}

	fl.start = fl.now()
	return fl, nil
}

// Size returns the logical screen dimensions of the animation.
func (f *FrameLoop) Size() (int, int) { return f.width, f.height }

// Frame returns the frame the animation timeline is currently on.
func (f *FrameLoop) Frame() *Pixmap {
	if len(f.frames) == 0 {
		return nil
	}
	elapsed := f.now().Sub(f.start) % f.total
	for i, d := range f.delays {
		if elapsed < d {
			return f.frames[i]
		}
		elapsed -= d
	}
	return f.frames[len(f.frames)-1]
}

// Live reports true: animated content requires continuous re-render.
func (f *FrameLoop) Live() bool { return true }

// FrameCount returns the number of decoded frames.
func (f *FrameLoop) FrameCount() int { return len(f.frames) }

// FrameAt returns frame i directly, bypassing the animation clock. Used
// for offline per-frame processing.
func (f *FrameLoop) FrameAt(i int) *Pixmap {
	if i < 0 || i >= len(f.frames) {
		return nil
	}
	return f.frames[i]
}

// DelayAt returns the display duration of frame i.
func (f *FrameLoop) DelayAt(i int) time.Duration {
	if i < 0 || i >= len(f.delays) {
		return 0
	}
	return f.delays[i]
}

// Close releases all decoded frames. Idempotent.
func (f *FrameLoop) Close() error {
	f.frames = nil
	f.delays = nil
	f.total = 0
	return nil
}

// LoadMedia decodes the media file at path and returns the matching
// variant: a FrameLoop for multi-frame GIFs, a StaticImage for everything
// else. Supported formats: PNG, JPEG, GIF, WebP, BMP, TIFF.
func LoadMedia(path string) (Media, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("keystone: reading media %q: %w", path, err)
	}
	return DecodeMedia(bytes.NewReader(data))
}

// DecodeMedia decodes media from r and returns the matching variant.
// Returns an error wrapping ErrUnsupportedMedia when no registered format
// can decode the stream.
func DecodeMedia(r io.Reader) (Media, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keystone: reading media: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
		}
		if len(g.Image) > 1 {
			return NewFrameLoop(g)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
	}
	return NewStaticImage(img), nil
}
