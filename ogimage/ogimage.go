// Package ogimage draws the 1200x600 social preview card shown when a post
// is shared.
package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 600

	padding      = 136
	gridStep     = 100
	titleSize    = 54
	lineHeight   = 1.4
	footerSize   = 20
	footerOffset = 40
)

var (
	bgStart   = color.RGBA{0x12, 0x12, 0x12, 0xff}
	bgEnd     = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	gridColor = color.NRGBA{0xff, 0xff, 0xff, 0x0d}
	titleInk  = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}
	footerInk = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	sepInk    = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

// Options is what the card shows.
type Options struct {
	Title string
	Name  string
	URL   string
}

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func newFace(size float64) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws the card for opts and writes it to w as PNG.
func Render(w io.Writer, opts Options) error {
	img, err := Draw(opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw returns the card as an image.
func Draw(opts Options) (*image.RGBA, error) {
	titleFace, err := newFace(titleSize)
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()
	footerFace, err := newFace(footerSize)
	if err != nil {
		return nil, err
	}
	defer footerFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	drawBackground(img)
	drawGrid(img)
	drawTitle(img, titleFace, opts.Title)
	drawFooter(img, footerFace, opts)
	return img, nil
}

func drawBackground(img *image.RGBA) {
	span := float64(Width + Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			t := float64(x+y) / span
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(bgStart.R, bgEnd.R, t),
				G: lerp(bgStart.G, bgEnd.G, t),
				B: lerp(bgStart.B, bgEnd.B, t),
				A: 0xff,
			})
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func drawGrid(img *image.RGBA) {
	src := image.NewUniform(gridColor)
	for x := gridStep; x < Width; x += gridStep {
		draw.Draw(img, image.Rect(x, 0, x+1, Height), src, image.Point{}, draw.Over)
	}
	for y := gridStep; y < Height; y += gridStep {
		draw.Draw(img, image.Rect(0, y, Width, y+1), src, image.Point{}, draw.Over)
	}
}

// titleStep is the baseline distance between wrapped title lines.
var titleStep = int(math.Round(titleSize * lineHeight))

func drawTitle(img *image.RGBA, face font.Face, title string) {
	lines := WrapLines(face, title, fixed.I(Width-2*padding))
	if len(lines) == 0 {
		return
	}
	step := titleStep
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	glyphHeight := (metrics.Ascent + metrics.Descent).Ceil()

	block := step*(len(lines)-1) + glyphHeight
	top := (Height - block) / 2
	d := &font.Drawer{Dst: img, Src: image.NewUniform(titleInk), Face: face}
	for i, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((Width-width)/2, top+ascent+i*step)
		d.DrawString(line)
	}
}

func drawFooter(img *image.RGBA, face font.Face, opts Options) {
	type segment struct {
		text string
		ink  color.Color
	}
	segments := []segment{
		{opts.Name, footerInk},
		{" | ", sepInk},
		{"Blog", footerInk},
		{" | ", sepInk},
		{opts.URL, footerInk},
	}
	d := &font.Drawer{Dst: img, Face: face}
	var total fixed.Int26_6
	for _, s := range segments {
		total += d.MeasureString(s.text)
	}
	d.Dot = fixed.Point26_6{
		X: fixed.I(Width-footerOffset) - total,
		Y: fixed.I(Height - footerOffset),
	}
	for _, s := range segments {
		d.Src = image.NewUniform(s.ink)
		d.DrawString(s.text)
	}
}

// WrapLines breaks text on whitespace so that every line fits within max
// when drawn with face. A single word wider than max gets a line of its own.
func WrapLines(face font.Face, text string, max fixed.Int26_6) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate) <= max {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
