package model

import "image"

// Mark is a single recorded click coordinate in image pixel space.
type Mark struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point returns the mark as an image.Point.
func (m Mark) Point() image.Point {
	return image.Pt(m.X, m.Y)
}
