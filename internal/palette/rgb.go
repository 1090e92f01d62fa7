package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// FromHex unpacks 0xRRGGBB.
func FromHex(hex uint32) RGB {
	return RGB{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex)}
}

// ParseHex accepts "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("palette: %w", err)
	}
	return fromColorful(c), nil
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

func fromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color, fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// u8 floors x into 0..255.
func u8(x float64) uint8 {
	switch {
	case x > 255:
		return 255
	case x < 0 || math.IsNaN(x):
		return 0
	default:
		return uint8(math.Floor(x))
	}
}

func lerpU8(start, end uint8, x float64) uint8 {
	return u8(float64(start)*(1-x) + float64(end)*x)
}

// Lerp interpolates channel-wise between a and b.
func Lerp(a, b RGB, x float64) RGB {
	return RGB{
		R: lerpU8(a.R, b.R, x),
		G: lerpU8(a.G, b.G, x),
		B: lerpU8(a.B, b.B, x),
	}
}
