// Package photostamp burns an evidence caption into camera captures.
package photostamp

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

const (
	MaxWidth    = 1080
	fontSize    = 22.0
	lineSpacing = 1.35
	padding     = 12
)

var ErrNotImage = errors.New("photo is not a jpeg or png image")

var (
	fontOnce sync.Once
	mono     *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		mono, fontErr = freetype.ParseFont(gomono.TTF)
	})
	return mono, fontErr
}

// Stamp decodes r, shrinks it to MaxWidth, draws lines on a dark band along
// the bottom edge and returns the result as JPEG.
func Stamp(r io.Reader, lines []string) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrNotImage
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	dst := fit(src)
	face := truetype.NewFace(f, &truetype.Options{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	lineHeight := int(math.Round(fontSize * lineSpacing))
	b := dst.Bounds()
	band := image.Rect(b.Min.X, b.Max.Y-len(lines)*lineHeight-2*padding, b.Max.X, b.Max.Y)
	draw.Draw(dst, band, image.NewUniform(color.RGBA{0, 0, 0, 170}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{214, 255, 214, 255}),
		Face: face,
	}
	y := band.Min.Y + padding + int(fontSize)
	for _, line := range lines {
		d.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + padding), Y: fixed.I(y)}
		d.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit copies src into an RGBA no wider than MaxWidth.
func fit(src image.Image) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w > MaxWidth {
		h = h * MaxWidth / w
		w = MaxWidth
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}
	return dst
}
