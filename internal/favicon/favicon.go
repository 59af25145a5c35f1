// Package favicon generates the icon files the favicon extension links to
// from a single PNG or JPEG source image.
package favicon

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register decoder
	"image/png"
	"os"
	"path/filepath"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/nfnt/resize"
)

// Asset is one generated file.
type Asset struct {
	Name  string
	Path  string
	Size  int
	Bytes int64
}

type target struct {
	name string
	size int
	ico  bool
}

var targets = []target{
	{name: "favicon.ico", size: 32, ico: true},
	{name: "favicon.png", size: 32},
	{name: "apple-touch-icon.png", size: 180},
}

// Generator writes favicon.ico, favicon.png and apple-touch-icon.png.
type Generator struct {
	Source    string
	OutputDir string
	Logger    logging.Logger
}

// Generate decodes Source once and writes every asset into OutputDir.
// Non-square sources are centered on a transparent square first.
func (g *Generator) Generate(ctx context.Context) ([]Asset, error) {
	logger := g.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	op := logging.StartOperation(logger.WithComponent("favicon"), "generate")

	assets, err := g.generate(ctx)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	op.End(ctx)
	return assets, nil
}

func (g *Generator) generate(ctx context.Context) ([]Asset, error) {
	src, err := decode(g.Source)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, seoerrors.NewIOError(seoerrors.ErrCodeInvalidPath, "failed to create output directory", err).
			WithFile(g.OutputDir)
	}

	square := squareCanvas(src)

	assets := make([]Asset, 0, len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return assets, err
		}

		data, err := encode(square, t)
		if err != nil {
			return assets, err
		}

		path := filepath.Join(g.OutputDir, t.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return assets, seoerrors.WrapIO(err, seoerrors.ErrCodeInvalidPath, "failed to write "+t.name).
				WithFile(path)
		}

		assets = append(assets, Asset{Name: t.name, Path: path, Size: t.size, Bytes: int64(len(data))})
	}

	return assets, nil
}

func decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, seoerrors.NewIOError(seoerrors.ErrCodeFileNotFound, "favicon source not found", err).
				WithFile(path)
		}
		return nil, seoerrors.WrapIO(err, seoerrors.ErrCodeFileNotFound, "failed to open favicon source")
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, seoerrors.NewIOError(seoerrors.ErrCodeImageDecode, "favicon source is not a PNG or JPEG image", err).
			WithFile(path)
	}
	return img, nil
}

// squareCanvas pads img to a square so resizing keeps its aspect ratio.
func squareCanvas(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == b.Dy() {
		return img
	}

	side := b.Dx()
	if b.Dy() > side {
		side = b.Dy()
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, side, side))
	offset := image.Point{X: (side - b.Dx()) / 2, Y: (side - b.Dy()) / 2}
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(b.Size())}, img, b.Min, draw.Src)
	return canvas
}

func encode(img image.Image, t target) ([]byte, error) {
	scaled := resize.Resize(uint(t.size), uint(t.size), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, seoerrors.NewInternalError(seoerrors.ErrCodeInternalError, "failed to encode "+t.name, err)
	}
	if !t.ico {
		return buf.Bytes(), nil
	}
	return wrapICO(buf.Bytes(), t.size)
}

// wrapICO embeds one PNG image in an ICO container.
func wrapICO(pngData []byte, size int) ([]byte, error) {
	if size <= 0 || size > 256 {
		return nil, fmt.Errorf("ico size %d out of range", size)
	}

	const headerLen = 6 + 16
	dim := byte(size)
	if size == 256 {
		dim = 0
	}

	var buf bytes.Buffer
	buf.Grow(headerLen + len(pngData))

	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngData)), headerLen})

	buf.Write(pngData)
	return buf.Bytes(), nil
}
