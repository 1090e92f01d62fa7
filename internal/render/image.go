package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/heatgrid/internal/palette"
)

// Image is an in-memory Renderer. Each EndFrame snapshots the canvas so a
// sequence of frames can be written as an animated GIF.
type Image struct {
	canvas *image.RGBA
	frames []*image.RGBA
	record bool
	limit  int
	frame  int
}

// NewImage allocates a w x h canvas. With record set, completed frames are
// kept for EncodeGIF.
func NewImage(w, h int, record bool) *Image {
	return &Image{
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
		record: record,
	}
}

// StopAfter makes Running report false once n frames have been completed.
// Zero means unlimited.
func (m *Image) StopAfter(n int) { m.limit = n }

func (m *Image) BeginFrame() {
	draw.Draw(m.canvas, m.canvas.Bounds(), image.NewUniform(palette.DarkGray), image.Point{}, draw.Src)
}

func (m *Image) DrawRect(x, y, w, h int, c palette.RGB) {
	r := image.Rect(x, y, x+w, y+h).Intersect(m.canvas.Bounds())
	draw.Draw(m.canvas, r, image.NewUniform(color.RGBA{c.R, c.G, c.B, 0xff}), image.Point{}, draw.Src)
}

func (m *Image) EndFrame() {
	m.frame++
	if m.record {
		snap := image.NewRGBA(m.canvas.Bounds())
		copy(snap.Pix, m.canvas.Pix)
		m.frames = append(m.frames, snap)
	}
}

func (m *Image) Running() bool {
	return m.limit == 0 || m.frame < m.limit
}

// Canvas returns the current frame.
func (m *Image) Canvas() *image.RGBA { return m.canvas }

// Frames is the number of completed frames.
func (m *Image) Frames() int { return m.frame }

// EncodePNG writes the current frame.
func (m *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.canvas)
}

// EncodeGIF writes every recorded frame, quantised to pal plus the
// background colour. delay is in hundredths of a second.
func (m *Image) EncodeGIF(w io.Writer, pal color.Palette, delay int) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("render: no recorded frames")
	}
	full := append(color.Palette{palette.DarkGray}, pal...)
	if len(full) > 256 {
		full = full[:256]
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		img := image.NewPaletted(frame.Bounds(), full)
		draw.Draw(img, img.Bounds(), frame, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

// PaletteOf samples n colours from a colour map for GIF quantisation.
func PaletteOf(colors ColorMap, n int) color.Palette {
	pal := make(color.Palette, 0, n)
	for i := 0; i < n; i++ {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		pal = append(pal, colors.At(x))
	}
	return pal
}

// Save writes the canvas as PNG, or the recorded frames as GIF, depending on
// the file extension.
func (m *Image) Save(path string, colors ColorMap) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return m.EncodeGIF(file, PaletteOf(colors, 255), 4)
	case ".png":
		return m.EncodePNG(file)
	default:
		return fmt.Errorf("render: unsupported image format %q", filepath.Ext(path))
	}
}
