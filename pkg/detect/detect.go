// Package detect locates faces in JPEG frames using computer vision.
package detect

// Region is a face bounding box normalized to the frame (0-1 range).
// X and Y are the top-left corner.
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the region.
func (r Region) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Area returns the normalized area of the region.
func (r Region) Area() float64 {
	return r.W * r.H
}

// Face is a single located face: where it is, how confident the
// detector is, and a JPEG crop ready for scoring.
type Face struct {
	Region     Region  `json:"region"`
	Confidence float64 `json:"confidence"`
	Crop       []byte  `json:"-"`
}

// Locator is the interface for face detection backends.
// Locate returns faces in detector order; an empty slice with a nil
// error means the frame contains no usable faces.
type Locator interface {
	Locate(frame []byte) ([]Face, error)
	Close() error
}
