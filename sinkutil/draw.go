// Package sinkutil collects small helpers for building SinkAdapter
// implementations that render to an Ebitengine surface.
package sinkutil

import "github.com/hajimehoshi/ebiten/v2"

// Draw projects a Consumer Frame's materialised image into viewport,
// scaling with [ebiten.FilterLinear] to take as much space as possible
// while preserving aspect ratio.
//
// If there's extra space in the viewport, the image is drawn centered;
// black bars are not explicitly drawn, so whatever was already on the
// background of the viewport remains visible.
//
// Common usage inside a SinkAdapter's presentation loop:
//
//	frame := c.RealtimeFrame()
//	sinkutil.Draw(screen, frame.Image())
func Draw(viewport, frameImage *ebiten.Image) {
	geom, filter := CalcProjection(viewport, frameImage)
	var opts ebiten.DrawImageOptions
	opts.GeoM = geom
	opts.Filter = filter
	viewport.DrawImage(frameImage, &opts)
}

// CalcProjection returns the GeoM and recommended ebiten.Filter to
// project a Frame's image into viewport. If you don't need the
// specific parameters, see [Draw] instead.
func CalcProjection(viewport, frameImage *ebiten.Image) (ebiten.GeoM, ebiten.Filter) {
	imageBounds := frameImage.Bounds()
	viewportBounds := viewport.Bounds()
	viewportWidth, viewportHeight := viewportBounds.Dx(), viewportBounds.Dy()
	imageWidth, imageHeight := imageBounds.Dx(), imageBounds.Dy()

	originX, originY := float64(viewportBounds.Min.X), float64(viewportBounds.Min.Y)

	var geom ebiten.GeoM
	var filter ebiten.Filter = ebiten.FilterLinear
	widthRatio := float64(viewportWidth) / float64(imageWidth)
	heightRatio := float64(viewportHeight) / float64(imageHeight)
	scale := widthRatio
	if heightRatio < widthRatio {
		scale = heightRatio
	}
	if scale == 1.0 {
		offsetX := (float64(viewportWidth) - float64(imageWidth)) / 2
		offsetY := (float64(viewportHeight) - float64(imageHeight)) / 2
		geom.Translate(originX+offsetX, originY+offsetY)
	} else {
		scaledWidth := float64(imageWidth) * scale
		scaledHeight := float64(imageHeight) * scale
		geom.Scale(scale, scale)
		geom.Translate(originX+(float64(viewportWidth)-scaledWidth)/2, originY+(float64(viewportHeight)-scaledHeight)/2)
		filter = ebiten.FilterLinear
	}
	return geom, filter
}
