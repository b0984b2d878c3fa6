// Package preview renders the contents of a list store as a list view
// image, for inspecting what a replayed sequence of diffs produced.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/liststore/pkg/liststore"
)

// Options controls the rendered image.
type Options struct {
	// Title is drawn in a header row above the items. Empty means no header.
	Title string
	// Width is the image width in pixels. Defaults to 320.
	Width int
	// RowHeight is the height of each row in pixels. Defaults to 24.
	RowHeight int
}

const (
	defaultWidth     = 320
	defaultRowHeight = 24
	padding          = 8
	ellipsis         = "..."
)

var (
	headerColor  = color.RGBA{R: 0x30, G: 0x3f, B: 0x9f, A: 0xff}
	evenRowColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	oddRowColor  = color.RGBA{R: 0xf1, G: 0xf3, B: 0xf8, A: 0xff}
	textColor    = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	headerText   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.RowHeight <= 0 {
		o.RowHeight = defaultRowHeight
	}
	return o
}

// Render draws one row per item of store, labelled with label.
func Render[T any](store *liststore.ListStore[T], label func(T) string, opts Options) *image.RGBA {
	opts = opts.withDefaults()

	rows := store.Len()
	header := 0
	if opts.Title != "" {
		header = 1
	}
	height := (rows + header) * opts.RowHeight
	if height == 0 {
		height = opts.RowHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(evenRowColor), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	if header == 1 {
		drawRow(img, face, 0, opts, opts.Title, headerColor, headerText)
	}
	for i, item := range store.All2() {
		bg := evenRowColor
		if i%2 == 1 {
			bg = oddRowColor
		}
		drawRow(img, face, (i+header)*opts.RowHeight, opts, label(item), bg, textColor)
	}
	return img
}

func drawRow(img *image.RGBA, face font.Face, top int, opts Options, text string, bg, fg color.Color) {
	rect := image.Rect(0, top, opts.Width, top+opts.RowHeight)
	draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	baseline := top + (opts.RowHeight-textHeight)/2 + metrics.Ascent.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(padding, baseline),
	}
	d.DrawString(fit(face, text, opts.Width-2*padding))
}

// fit shortens text with an ellipsis so it is at most width pixels wide.
func fit(face font.Face, text string, width int) string {
	limit := fixed.I(width)
	if font.MeasureString(face, text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if font.MeasureString(face, candidate) <= limit {
			return candidate
		}
	}
	return ""
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
