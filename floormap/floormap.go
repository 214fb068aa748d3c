// SPDX-License-Identifier: GPL-2.0-or-later

// Package floormap renders the height an entity would stand at over a
// horizontal area of a world.
package floormap

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"bgsim/bgcheck"
	"bgsim/math/vec"
)

// NoFloor is the color of cells without a floor.
var NoFloor = color.NRGBA{R: 96, G: 0, B: 0, A: 255}

// Config is the area to sample. Floors are probed downward from Max.Y.
// Each cell is Step units wide and Scale pixels in the image.
type Config struct {
	Min, Max vec.Vec3
	Step     float32
	Scale    int
}

// Map holds one height per cell, row major with rows along z.
type Map struct {
	W, H    int
	Heights []float32
	// range of the heights found, equal to MinHeight if none
	Lo, Hi float32
}

func cells(lo, hi, step float32) int {
	if hi < lo || step <= 0 {
		return 0
	}
	return int((hi-lo)/step) + 1
}

// Build samples w over the area of cfg.
func Build(w *bgcheck.World, cfg Config) (*Map, error) {
	m := &Map{
		W:  cells(cfg.Min.X, cfg.Max.X, cfg.Step),
		H:  cells(cfg.Min.Z, cfg.Max.Z, cfg.Step),
		Lo: bgcheck.MinHeight,
		Hi: bgcheck.MinHeight,
	}
	if m.W == 0 || m.H == 0 {
		return nil, errors.Errorf("floormap: empty area %v %v step %v", cfg.Min, cfg.Max, cfg.Step)
	}
	m.Heights = make([]float32, m.W*m.H)
	found := false
	for row := 0; row < m.H; row++ {
		z := cfg.Min.Z + float32(float32(row)*cfg.Step)
		for col := 0; col < m.W; col++ {
			x := cfg.Min.X + float32(float32(col)*cfg.Step)
			h, _ := w.FloorHeight(vec.Vec3{X: x, Y: cfg.Max.Y, Z: z})
			m.Heights[row*m.W+col] = h
			if h == bgcheck.MinHeight {
				continue
			}
			if !found || h < m.Lo {
				m.Lo = h
			}
			if !found || h > m.Hi {
				m.Hi = h
			}
			found = true
		}
	}
	slog.Debug("floormap: built", slog.Int("w", m.W), slog.Int("h", m.H),
		slog.Float64("lo", float64(m.Lo)), slog.Float64("hi", float64(m.Hi)))
	return m, nil
}

func (m *Map) At(col, row int) float32 {
	return m.Heights[row*m.W+col]
}

// Image maps the heights from Lo to Hi onto grays 32 to 255, one pixel
// per cell.
func (m *Map) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	span := m.Hi - m.Lo
	for row := 0; row < m.H; row++ {
		for col := 0; col < m.W; col++ {
			h := m.At(col, row)
			if h == bgcheck.MinHeight {
				img.SetNRGBA(col, row, NoFloor)
				continue
			}
			g := uint8(255)
			if span > 0 {
				g = uint8(32 + (h-m.Lo)/span*223)
			}
			img.SetNRGBA(col, row, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return img
}

// Render returns the image of m with each cell scale pixels wide.
func (m *Map) Render(scale int) *image.NRGBA {
	src := m.Image()
	if scale <= 1 {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, m.W*scale, m.H*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes img in format, one of png, webp or tga.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "webp":
		err = nativewebp.Encode(w, img, nil)
	case "tga":
		err = tga.Encode(w, img)
	default:
		return errors.Errorf("floormap: unknown format %q", format)
	}
	return errors.Wrapf(err, "floormap: %s encode", format)
}

// WriteFile writes img to path in the format named by its extension.
func WriteFile(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "floormap")
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return errors.Wrap(f.Close(), "floormap")
}
