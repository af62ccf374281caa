package keystone

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Renderer redraws a scene into an output pixmap. It is stateless across
// frames: every render recomputes the mesh and the per-cell transforms
// from the scene's current geometry, because geometry may change every
// frame during a drag. Construct once, render every frame.
type Renderer struct {
	opts rendererOptions
}

// NewRenderer creates a renderer. Options override the defaults
// (bilinear sampling, 1024 working-size cap, white 2px quad outline).
func NewRenderer(opts ...RendererOption) *Renderer {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Renderer{opts: options}
}

// Render redraws the whole scene into dst: first the full-surface grid
// warp driven by the scene quad, then its outline, then each shape-local
// warp in append order. The surface is cleared first, so a scene with no
// media produces a blank (transparent) surface rather than an error;
// Render never fails.
func (r *Renderer) Render(scene *Scene, dst *Pixmap) {
	dst.Clear(Transparent)
	if scene == nil || dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	dw := float64(dst.Width())
	dh := float64(dst.Height())

	if src := scene.Source(); src != nil {
		if frame := src.Frame(); frame != nil {
			working := r.workingCopy(frame)
			quadPx := scene.Quad.Scale(dw, dh)
			r.warpGrid(dst, working, quadPx, scene.Resolution, 0, 0)
			if r.opts.outline {
				r.strokeQuad(dst, quadPx)
			}
		}
	}

	for _, sh := range scene.Shapes() {
		r.renderShape(dst, sh, scene.Resolution, dw, dh)
	}
}

// workingCopy downscales a frame so its long edge does not exceed the
// configured cap. Frames already within the cap are returned as-is; the
// working copy never upscales.
func (r *Renderer) workingCopy(frame *Pixmap) *Pixmap {
	w, h := frame.Width(), frame.Height()
	long := w
	if h > long {
		long = h
	}
	if long <= r.opts.workingCap || long == 0 {
		return frame
	}

	scale := float64(r.opts.workingCap) / float64(long)
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	// Scale straight into the working pixmap's buffer; both wrappers share
	// the pixmaps' storage, so no intermediate frame copies are made.
	out := NewPixmap(nw, nh)
	dstImg := &image.RGBA{Pix: out.Data(), Stride: nw * 4, Rect: image.Rect(0, 0, nw, nh)}
	srcImg := &image.RGBA{Pix: frame.Data(), Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	xdraw.ApproxBiLinear.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, xdraw.Src, nil)

	Logger().Debug("downscaled working copy",
		"source_width", w, "source_height", h,
		"working_width", nw, "working_height", nh)
	return out
}

// warpGrid performs the mesh warp: subdivide the source into a grid of
// roughly square cells, map each cell's corners through the quad's
// bilinear interpolation, split the cell along a fixed diagonal into two
// triangles and rasterize each through its own affine solve. The diagonal
// direction is the same for every cell; alternating it buys nothing the
// mesh resolution knob does not already provide.
func (r *Renderer) warpGrid(dst, src *Pixmap, quadPx Quad, resolution, minCols, minRows int) {
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return
	}

	cols, rows := MeshGrid(resolution, w, h)
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}

	Logger().Debug("mesh warp", "cols", cols, "rows", rows, "width", w, "height", h)

	fw, fh := float64(w), float64(h)
	cellW := fw / float64(cols)
	cellH := fh / float64(rows)

	for j := 0; j < rows; j++ {
		y0 := float64(j) * cellH
		y1 := float64(j+1) * cellH
		for i := 0; i < cols; i++ {
			x0 := float64(i) * cellW
			x1 := float64(i+1) * cellW

			s00 := Pt(x0, y0)
			s10 := Pt(x1, y0)
			s01 := Pt(x0, y1)
			s11 := Pt(x1, y1)

			d00 := quadPx.Map(x0/fw, y0/fh)
			d10 := quadPx.Map(x1/fw, y0/fh)
			d01 := quadPx.Map(x0/fw, y1/fh)
			d11 := quadPx.Map(x1/fw, y1/fh)

			r.warpTriangle(dst, src, [3]Point{s00, s10, s01}, [3]Point{d00, d10, d01})
			r.warpTriangle(dst, src, [3]Point{s10, s11, s01}, [3]Point{d10, d11, d01})
		}
	}
}

// warpTriangle solves the affine transform for one triangle correspondence
// and rasterizes it. Degenerate source triangles are skipped entirely
// rather than drawn with an undefined transform; the skip is logged and
// the render carries on.
func (r *Renderer) warpTriangle(dst, src *Pixmap, srcTri, dstTri [3]Point) {
	m, err := SolveTriangle(srcTri, dstTri)
	if err != nil {
		Logger().Warn("skipping degenerate mesh triangle",
			"src0", srcTri[0], "src1", srcTri[1], "src2", srcTri[2])
		return
	}
	rasterizeTriangle(dst, src, dstTri, m, r.opts.interp, nil)
}

// renderShape draws one shape-local warp. Only the rectangle variant needs
// the full mesh pipeline; triangle and circle attachments are clipped
// cover-fit image fills.
func (r *Renderer) renderShape(dst *Pixmap, sh Shape, resolution int, dw, dh float64) {
	media := sh.Media()
	if media == nil {
		return
	}
	frame := media.Frame()
	if frame == nil {
		return
	}

	switch s := sh.(type) {
	case *RectShape:
		// Small shapes still get at least a coarse mesh.
		working := r.workingCopy(frame)
		r.warpGrid(dst, working, s.Quad.Scale(dw, dh), resolution, 4, 2)

	case *TriangleShape:
		tri := [3]Point{
			Pt(s.P0.X*dw, s.P0.Y*dh),
			Pt(s.P1.X*dw, s.P1.Y*dh),
			Pt(s.P2.X*dw, s.P2.Y*dh),
		}
		r.renderTriangleFill(dst, frame, tri)

	case *CircleShape:
		center := Pt(s.Center.X*dw, s.Center.Y*dh)
		radius := s.Radius * math.Min(dw, dh)
		r.renderCircleFill(dst, frame, center, radius)
	}
}

// renderTriangleFill places the source cover-fit into the triangle's
// bounding box and rasterizes it clipped to the triangle. One affine
// placement, no mesh.
func (r *Renderer) renderTriangleFill(dst, src *Pixmap, tri [3]Point) {
	minX := math.Min(tri[0].X, math.Min(tri[1].X, tri[2].X))
	minY := math.Min(tri[0].Y, math.Min(tri[1].Y, tri[2].Y))
	maxX := math.Max(tri[0].X, math.Max(tri[1].X, tri[2].X))
	maxY := math.Max(tri[0].Y, math.Max(tri[1].Y, tri[2].Y))

	m, ok := coverFit(src, minX, minY, maxX-minX, maxY-minY)
	if !ok {
		return
	}
	rasterizeTriangle(dst, src, tri, m, r.opts.interp, nil)
}

// renderCircleFill places the source cover-fit over the circle's bounding
// square and fills it clipped to the circle. The square is rasterized as
// two triangles with a per-pixel radius test as the clip.
func (r *Renderer) renderCircleFill(dst, src *Pixmap, center Point, radius float64) {
	if radius <= 0 {
		return
	}

	x0, y0 := center.X-radius, center.Y-radius
	side := 2 * radius
	m, ok := coverFit(src, x0, y0, side, side)
	if !ok {
		return
	}

	r2 := radius * radius
	clip := func(x, y int) bool {
		dx := float64(x) + 0.5 - center.X
		dy := float64(y) + 0.5 - center.Y
		return dx*dx+dy*dy <= r2
	}

	tl := Pt(x0, y0)
	tr := Pt(x0+side, y0)
	bl := Pt(x0, y0+side)
	br := Pt(x0+side, y0+side)
	rasterizeTriangle(dst, src, [3]Point{tl, tr, bl}, m, r.opts.interp, clip)
	rasterizeTriangle(dst, src, [3]Point{tr, br, bl}, m, r.opts.interp, clip)
}

// coverFit returns the transform placing src over the target rectangle
// with aspect-preserving scale: the source fully covers the target and
// overflow is cropped symmetrically. ok is false for empty targets or
// sources.
func coverFit(src *Pixmap, x, y, w, h float64) (Matrix, bool) {
	sw := float64(src.Width())
	sh := float64(src.Height())
	if w <= 0 || h <= 0 || sw <= 0 || sh <= 0 {
		return Matrix{}, false
	}

	s := math.Max(w/sw, h/sh)
	tx := x + (w-sw*s)/2
	ty := y + (h-sh*s)/2
	return Translate(tx, ty).Multiply(Scale(s, s)), true
}

// strokeQuad strokes the destination quad outline for visual feedback.
// Each edge is drawn as a solid width-wide quad split into two triangles.
func (r *Renderer) strokeQuad(dst *Pixmap, quadPx Quad) {
	corners := quadPx.Corners()
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		r.strokeSegment(dst, a, b)
	}
}

// strokeSegment draws one outline edge as a filled rectangle around the
// segment. Zero-length segments (coincident corners) are skipped.
func (r *Renderer) strokeSegment(dst *Pixmap, a, b Point) {
	dir := b.Sub(a)
	length := dir.Length()
	if length == 0 {
		return
	}

	half := r.opts.outlineWidth / 2
	n := Pt(-dir.Y/length, dir.X/length).Mul(half)

	p0 := a.Add(n)
	p1 := b.Add(n)
	p2 := b.Sub(n)
	p3 := a.Sub(n)
	fillTriangle(dst, [3]Point{p0, p1, p2}, r.opts.outlineColor)
	fillTriangle(dst, [3]Point{p0, p2, p3}, r.opts.outlineColor)
}
