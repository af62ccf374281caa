package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/keystone"
)

func TestRenderSpecApply(t *testing.T) {
	corners := []pointSpec{{0.1, 0.1}, {0.9, 0.05}, {0.95, 0.9}, {0.05, 0.95}}

	tests := []struct {
		name    string
		spec    renderSpec
		wantErr bool
		check   func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption)
	}{
		{
			name: "empty spec leaves defaults",
			spec: renderSpec{},
			check: func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption) {
				if scene.Quad != keystone.UnitQuad() {
					t.Errorf("quad = %+v, want unit quad", scene.Quad)
				}
				if scene.Resolution != keystone.DefaultResolution {
					t.Errorf("resolution = %d, want default", scene.Resolution)
				}
				if len(opts) != 0 {
					t.Errorf("opts = %d entries, want none", len(opts))
				}
			},
		},
		{
			name: "corners and resolution",
			spec: renderSpec{Corners: corners, Resolution: 24},
			check: func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption) {
				if scene.Quad.TopLeft != keystone.Pt(0.1, 0.1) ||
					scene.Quad.BottomLeft != keystone.Pt(0.05, 0.95) {
					t.Errorf("quad = %+v, want spec corners", scene.Quad)
				}
				if scene.Resolution != 24 {
					t.Errorf("resolution = %d, want 24", scene.Resolution)
				}
			},
		},
		{
			name:    "wrong corner count",
			spec:    renderSpec{Corners: corners[:3]},
			wantErr: true,
		},
		{
			name: "nearest interpolation",
			spec: renderSpec{Interpolation: "nearest"},
			check: func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption) {
				if len(opts) != 1 {
					t.Errorf("opts = %d entries, want 1", len(opts))
				}
			},
		},
		{
			name:    "unknown interpolation",
			spec:    renderSpec{Interpolation: "lanczos"},
			wantErr: true,
		},
		{
			name: "outline styling",
			spec: renderSpec{Outline: &outlineSpec{Color: "#ff0000", Width: 3}},
			check: func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption) {
				if len(opts) != 1 {
					t.Errorf("opts = %d entries, want 1", len(opts))
				}
			},
		},
		{
			name: "shapes added deselected",
			spec: renderSpec{Shapes: []shapeSpec{
				{Kind: "triangle", Points: []pointSpec{{0, 0}, {1, 0}, {0, 1}}},
				{Kind: "circle", Center: &pointSpec{0.5, 0.5}, Radius: 0.2},
				{Kind: "rect", Points: []pointSpec{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
			}},
			check: func(t *testing.T, scene *keystone.Scene, opts []keystone.RendererOption) {
				if got := len(scene.Shapes()); got != 3 {
					t.Fatalf("shapes = %d, want 3", got)
				}
				if scene.Selected() != nil {
					t.Error("spec-loaded shapes left a selection")
				}
			},
		},
		{
			name:    "triangle with wrong point count",
			spec:    renderSpec{Shapes: []shapeSpec{{Kind: "triangle", Points: []pointSpec{{0, 0}}}}},
			wantErr: true,
		},
		{
			name:    "circle without center",
			spec:    renderSpec{Shapes: []shapeSpec{{Kind: "circle", Radius: 0.2}}},
			wantErr: true,
		},
		{
			name:    "unknown shape kind",
			spec:    renderSpec{Shapes: []shapeSpec{{Kind: "pentagon"}}},
			wantErr: true,
		},
		{
			name:    "shape media that does not exist",
			spec:    renderSpec{Shapes: []shapeSpec{{Kind: "circle", Center: &pointSpec{0.5, 0.5}, Radius: 0.2, Media: "no-such-file.png"}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := keystone.NewScene()
			opts, err := tt.spec.apply(scene)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, scene, opts)
			}
		})
	}
}

func TestLoadSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	content := `
corners:
  - {x: 0.1, y: 0.1}
  - {x: 0.9, y: 0.05}
  - {x: 0.95, y: 0.9}
  - {x: 0.05, y: 0.95}
resolution: 12
interpolation: nearest
outline:
  color: "#00ff00"
  width: 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := loadSpec(path)
	if err != nil {
		t.Fatalf("loadSpec() error = %v", err)
	}
	if len(spec.Corners) != 4 || spec.Resolution != 12 || spec.Interpolation != "nearest" {
		t.Errorf("loadSpec() = %+v, want parsed fields", spec)
	}
	if spec.Outline == nil || spec.Outline.Color != "#00ff00" {
		t.Errorf("outline = %+v, want parsed color", spec.Outline)
	}

	if _, err := loadSpec(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loadSpec(missing) error = nil")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte(":\t not yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSpec(bad); err == nil {
		t.Error("loadSpec(malformed) error = nil")
	}
}
