package ui

import "image"

const (
	minZoom = 0.1
	maxZoom = 8.0
)

// Camera holds the zoom of the diagram viewport.
type Camera struct {
	// Zoom level (screen Dp per layout pixel)
	Zoom float32

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int
}

// NewCamera returns a camera at 100% zoom.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

// UpdateScreenSize updates camera when window is resized
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// ZoomBy multiplies the zoom by factor, clamped to [minZoom, maxZoom].
// factor > 1 zooms in, factor < 1 zooms out
func (c *Camera) ZoomBy(factor float32) {
	c.Zoom = clampZoom(c.Zoom * factor)
}

// Reset returns to 100% zoom.
func (c *Camera) Reset() {
	c.Zoom = 1
}

// Fit picks the zoom at which content fills 90% of the screen, never
// enlarging beyond 100%.
func (c *Camera) Fit(content image.Point) {
	if content.X <= 0 || content.Y <= 0 || c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return
	}
	zoomX := float32(c.ScreenWidth) * 0.9 / float32(content.X)
	zoomY := float32(c.ScreenHeight) * 0.9 / float32(content.Y)

	// Use the smaller zoom to ensure everything fits
	zoom := zoomX
	if zoomY < zoom {
		zoom = zoomY
	}
	if zoom > 1 {
		zoom = 1
	}
	c.Zoom = clampZoom(zoom)
}

func clampZoom(z float32) float32 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}
