// Package keystone approximates a projective (keystone) correction of an
// image or video frame onto an arbitrary quadrilateral, without computing
// a true homography.
//
// The source is subdivided into a mesh of roughly square cells. Each cell's
// corners are mapped into the destination quad by bilinear edge
// interpolation, the cell is split into two triangles, and each triangle is
// drawn through its own exactly-solved affine transform. The result is
// exact at the quad's corners and edges and converges toward the projective
// mapping as the mesh resolution grows; the deviation in cell interiors is
// the accepted price for staying on cheap affine math.
//
// The package is deliberately scoped to the warp engine. A Scene describes
// what to draw (corner quad, resolution knob, media attachments, secondary
// shapes); the host application owns interaction, scheduling and
// persistence around it:
//
//	scene := keystone.NewScene()
//	media, err := keystone.LoadMedia("projector-input.png")
//	if err != nil {
//	    // media that fails to decode is simply never attached
//	}
//	scene.SetSource(media)
//	scene.Quad.TopLeft = keystone.Pt(0.1, 0.08)
//
//	out := keystone.NewPixmap(1280, 800)
//	r := keystone.NewRenderer()
//	r.Render(scene, out)
//
// For animated media (a FrameLoop), re-render once per display refresh
// while NeedsContinuousRedraw reports true.
//
// Rendering is single-threaded and stateless per frame; all mutation and
// rendering are expected on one control thread.
package keystone
