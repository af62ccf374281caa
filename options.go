package keystone

// DefaultWorkingSizeCap bounds the long edge of the working copy the
// renderer samples from. Sources larger than this are downscaled before
// warping; smaller sources are never upscaled.
const DefaultWorkingSizeCap = 1024

// rendererOptions holds the configurable renderer behavior.
type rendererOptions struct {
	workingCap   int
	interp       InterpolationMode
	outline      bool
	outlineColor RGBA
	outlineWidth float64
}

// defaultOptions returns the default renderer configuration.
func defaultOptions() rendererOptions {
	return rendererOptions{
		workingCap:   DefaultWorkingSizeCap,
		interp:       InterpBilinear,
		outline:      true,
		outlineColor: White,
		outlineWidth: 2,
	}
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

// WithWorkingSizeCap sets the maximum long-edge size of the working copy.
// Values below 1 are ignored.
func WithWorkingSizeCap(n int) RendererOption {
	return func(o *rendererOptions) {
		if n >= 1 {
			o.workingCap = n
		}
	}
}

// WithInterpolation sets the source sampling mode.
func WithInterpolation(m InterpolationMode) RendererOption {
	return func(o *rendererOptions) {
		o.interp = m
	}
}

// WithOutline enables quad outline stroking with the given color and
// width.
func WithOutline(c RGBA, width float64) RendererOption {
	return func(o *rendererOptions) {
		o.outline = true
		o.outlineColor = c
		o.outlineWidth = width
	}
}

// WithoutOutline disables quad outline stroking.
func WithoutOutline() RendererOption {
	return func(o *rendererOptions) {
		o.outline = false
	}
}
