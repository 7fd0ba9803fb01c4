package charts

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// blank returns a uniformly filled w×h image.
func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)
	return img
}

// placeholder renders a blank chart carrying a title and a centred caption. Used when a chart has
// no finite data to plot so the output file still exists.
func placeholder(w, h int, title, caption string) image.Image {
	img := blank(w, h)
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}), Face: face}
	drawCentered(dr, title, w, 30)
	dr.Src = image.NewUniform(color.RGBA{R: 120, G: 120, B: 120, A: 255})
	drawCentered(dr, caption, w, h/2)
	return img
}

func drawCentered(dr *font.Drawer, text string, w, y int) {
	if strings.TrimSpace(text) == "" {
		return
	}
	tw := dr.MeasureString(text).Ceil()
	x := (w - tw) / 2
	if x < 4 {
		x = 4
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}

// drawHint draws a small hint string onto img near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// WritePNG encodes img to path, creating the parent directory when needed.
func WritePNG(path string, img image.Image) error {
	if img == nil {
		return errors.Errorf("write %s: nil image", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create out dir")
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrapf(err, "png encode %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
