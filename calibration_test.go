package keystone

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCalibrationRoundTrip(t *testing.T) {
	scene := NewScene()
	// Deliberately awkward floats; the JSON round trip must be lossless.
	scene.Quad = QuadFromCorners([4]Point{
		Pt(0.1, 0.2), Pt(0.9000000000000001, 0.05),
		Pt(0.95, 1.0/3.0), Pt(-0.125, 1.25),
	})
	scene.SetSource(NewStaticPixmap(NewPixmap(640, 480)))

	var buf bytes.Buffer
	if err := SaveCalibration(&buf, scene); err != nil {
		t.Fatalf("SaveCalibration() error = %v", err)
	}

	cal, err := LoadCalibration(&buf)
	if err != nil {
		t.Fatalf("LoadCalibration() error = %v", err)
	}
	if cal.SourceWidth != 640 || cal.SourceHeight != 480 {
		t.Errorf("source size = %dx%d, want 640x480", cal.SourceWidth, cal.SourceHeight)
	}

	restored := NewScene()
	if err := cal.Apply(restored); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if restored.Quad != scene.Quad {
		t.Errorf("restored quad = %+v, want %+v", restored.Quad, scene.Quad)
	}
}

func TestCalibrationNoSource(t *testing.T) {
	var buf bytes.Buffer
	if err := SaveCalibration(&buf, NewScene()); err != nil {
		t.Fatalf("SaveCalibration() error = %v", err)
	}
	cal, err := LoadCalibration(&buf)
	if err != nil {
		t.Fatalf("LoadCalibration() error = %v", err)
	}
	if cal.SourceWidth != 0 || cal.SourceHeight != 0 {
		t.Errorf("source size = %dx%d, want 0x0 for detached scene", cal.SourceWidth, cal.SourceHeight)
	}
}

func TestLoadCalibrationRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"three corners", `{"corners":[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}`},
		{"five corners", `{"corners":[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1},{"x":0,"y":1},{"x":0.5,"y":0.5}]}`},
		{"no corners", `{"sourceWidth":100}`},
		{"malformed json", `{"corners":[{`},
		{"not json at all", `hello world`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCalibration(strings.NewReader(tt.json))
			if !errors.Is(err, ErrInvalidCalibration) {
				t.Errorf("LoadCalibration() error = %v, want ErrInvalidCalibration", err)
			}
		})
	}
}

func TestCalibrationApplyLeavesSceneUntouchedOnFailure(t *testing.T) {
	scene := NewScene()
	scene.Quad = QuadFromCorners([4]Point{
		Pt(0.1, 0.1), Pt(0.9, 0.1), Pt(0.9, 0.9), Pt(0.1, 0.9),
	})
	before := scene.Quad

	bad := &Calibration{Corners: []calCorner{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	if err := bad.Apply(scene); !errors.Is(err, ErrInvalidCalibration) {
		t.Fatalf("Apply() error = %v, want ErrInvalidCalibration", err)
	}
	if scene.Quad != before {
		t.Errorf("scene quad mutated by failed Apply: %+v", scene.Quad)
	}
}

func TestCalibrationOutOfRangeCornersAreLegal(t *testing.T) {
	// Corners outside [0,1] describe an extrapolated warp and must load.
	in := `{"corners":[{"x":-0.5,"y":-0.5},{"x":1.5,"y":-0.5},{"x":1.5,"y":1.5},{"x":-0.5,"y":1.5}]}`
	cal, err := LoadCalibration(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadCalibration() error = %v", err)
	}
	if got := cal.Quad().TopLeft; got != Pt(-0.5, -0.5) {
		t.Errorf("TopLeft = %v, want (-0.5,-0.5)", got)
	}
}
