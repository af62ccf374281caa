package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/keystone"
)

// renderSpec is the YAML description of a render: corner geometry, mesh
// resolution, outline styling and optional secondary shapes with their own
// media. All coordinates are normalized.
type renderSpec struct {
	Corners       []pointSpec  `yaml:"corners"`
	Resolution    int          `yaml:"resolution"`
	Interpolation string       `yaml:"interpolation"`
	Outline       *outlineSpec `yaml:"outline"`
	Shapes        []shapeSpec  `yaml:"shapes"`
}

type pointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type outlineSpec struct {
	Disabled bool    `yaml:"disabled"`
	Color    string  `yaml:"color"`
	Width    float64 `yaml:"width"`
}

type shapeSpec struct {
	Kind   string      `yaml:"kind"` // triangle, rect, circle
	Points []pointSpec `yaml:"points"`
	Center *pointSpec  `yaml:"center"`
	Radius float64     `yaml:"radius"`
	Media  string      `yaml:"media"`
}

// loadSpec parses a YAML render spec file.
func loadSpec(path string) (*renderSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec renderSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &spec, nil
}

// apply configures the scene from the spec and returns the renderer
// options it implies.
func (s *renderSpec) apply(scene *keystone.Scene) ([]keystone.RendererOption, error) {
	if len(s.Corners) > 0 {
		if len(s.Corners) != 4 {
			return nil, fmt.Errorf("spec needs exactly 4 corners, got %d", len(s.Corners))
		}
		scene.Quad = keystone.QuadFromCorners([4]keystone.Point{
			s.Corners[0].point(),
			s.Corners[1].point(),
			s.Corners[2].point(),
			s.Corners[3].point(),
		})
	}
	if s.Resolution > 0 {
		scene.Resolution = s.Resolution
	}

	var opts []keystone.RendererOption
	switch s.Interpolation {
	case "", "bilinear":
	case "nearest":
		opts = append(opts, keystone.WithInterpolation(keystone.InterpNearest))
	default:
		return nil, fmt.Errorf("unknown interpolation %q", s.Interpolation)
	}

	if s.Outline != nil {
		if s.Outline.Disabled {
			opts = append(opts, keystone.WithoutOutline())
		} else {
			color := keystone.White
			if s.Outline.Color != "" {
				color = keystone.Hex(s.Outline.Color)
			}
			width := s.Outline.Width
			if width <= 0 {
				width = 2
			}
			opts = append(opts, keystone.WithOutline(color, width))
		}
	}

	for i := range s.Shapes {
		shape, err := s.Shapes[i].build()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		scene.AddShape(shape)
	}
	scene.Deselect()

	return opts, nil
}

func (p pointSpec) point() keystone.Point {
	return keystone.Pt(p.X, p.Y)
}

// build constructs the shape variant and attaches its media, if any.
func (s *shapeSpec) build() (keystone.Shape, error) {
	var shape keystone.Shape
	switch s.Kind {
	case "triangle":
		if len(s.Points) != 3 {
			return nil, fmt.Errorf("triangle needs 3 points, got %d", len(s.Points))
		}
		shape = keystone.NewTriangleShape(s.Points[0].point(), s.Points[1].point(), s.Points[2].point())
	case "rect":
		if len(s.Points) != 4 {
			return nil, fmt.Errorf("rect needs 4 points, got %d", len(s.Points))
		}
		shape = keystone.NewRectShape(keystone.QuadFromCorners([4]keystone.Point{
			s.Points[0].point(), s.Points[1].point(), s.Points[2].point(), s.Points[3].point(),
		}))
	case "circle":
		if s.Center == nil || s.Radius <= 0 {
			return nil, fmt.Errorf("circle needs a center and a positive radius")
		}
		shape = keystone.NewCircleShape(s.Center.point(), s.Radius)
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}

	if s.Media != "" {
		media, err := keystone.LoadMedia(s.Media)
		if err != nil {
			return nil, err
		}
		shape.SetMedia(media)
	}
	return shape, nil
}
