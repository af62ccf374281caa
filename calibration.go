package keystone

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrInvalidCalibration indicates a calibration record that failed
// validation on load. The in-memory geometry is left unchanged; surface
// the error to the user instead.
var ErrInvalidCalibration = errors.New("keystone: invalid calibration")

// Calibration is the persisted corner geometry: exactly four corner
// points in normalized coordinates, the source media's pixel size and a
// creation timestamp. The JSON encoding round-trips the corner floats
// losslessly.
type Calibration struct {
	Corners      []calCorner `json:"corners"`
	SourceWidth  int         `json:"sourceWidth"`
	SourceHeight int         `json:"sourceHeight"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type calCorner struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewCalibration captures the scene's current corner geometry. The source
// size fields record the attached media's dimensions, or zero when no
// media is attached.
func NewCalibration(s *Scene) *Calibration {
	c := &Calibration{CreatedAt: time.Now().UTC()}
	for _, p := range s.Quad.Corners() {
		c.Corners = append(c.Corners, calCorner{X: p.X, Y: p.Y})
	}
	if src := s.Source(); src != nil {
		c.SourceWidth, c.SourceHeight = src.Size()
	}
	return c
}

// Quad returns the calibration's corners as a Quad. Valid only after
// Validate; calling it on an invalid record returns whatever corners are
// present, zero-filled.
func (c *Calibration) Quad() Quad {
	var corners [4]Point
	for i := 0; i < len(c.Corners) && i < 4; i++ {
		corners[i] = Pt(c.Corners[i].X, c.Corners[i].Y)
	}
	return QuadFromCorners(corners)
}

// Validate checks the structural invariant: exactly four corners. Corner
// values outside [0,1] are legal; they render as an extrapolated warp.
func (c *Calibration) Validate() error {
	if len(c.Corners) != 4 {
		return fmt.Errorf("%w: expected 4 corners, got %d", ErrInvalidCalibration, len(c.Corners))
	}
	return nil
}

// Apply sets the scene's quad from the calibration. It validates first
// and leaves the scene untouched on failure.
func (c *Calibration) Apply(s *Scene) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.Quad = c.Quad()
	return nil
}

// SaveCalibration writes the scene's current corner geometry as JSON.
// The write path always emits the current four corners.
func SaveCalibration(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewCalibration(s)); err != nil {
		return fmt.Errorf("keystone: writing calibration: %w", err)
	}
	return nil
}

// LoadCalibration reads and validates a calibration record. Malformed
// JSON and wrong corner counts both return an error wrapping
// ErrInvalidCalibration; nothing is applied to any scene.
func LoadCalibration(r io.Reader) (*Calibration, error) {
	var c Calibration
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCalibrationFile writes the scene's calibration to a file.
func SaveCalibrationFile(path string, s *Scene) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("keystone: creating calibration file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return SaveCalibration(f, s)
}

// LoadCalibrationFile reads and validates a calibration file.
func LoadCalibrationFile(path string) (*Calibration, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("keystone: opening calibration file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadCalibration(f)
}
