// Package imaging loads and stores image carriers
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixel-steganography/models"
)

const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatQOI  = "qoi"
)

// ErrUnsupportedFormat is returned for output formats that would not keep
// the low bits of every channel.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// OutputFormats lists the lossless formats a stego image can be written as.
var OutputFormats = []string{FormatPNG, FormatBMP, FormatTIFF, FormatQOI}

type ImageDecoder struct{}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

// DecodeImage decodes any registered image format into a non-premultiplied
// RGBA image anchored at (0,0).
func (d *ImageDecoder) DecodeImage(data []byte) (*image.NRGBA, *models.CarrierMetadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	nrgba := ToNRGBA(img)
	b := nrgba.Bounds()
	metadata := &models.CarrierMetadata{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
	return nrgba, metadata, nil
}

// EncodeImage writes img in one of the lossless OutputFormats.
func (d *ImageDecoder) EncodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch NormalizeFormat(format) {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatQOI:
		// qoi stores premultiplied channels, which rewrites the low bits of
		// any translucent pixel.
		if !isOpaque(img) {
			return nil, fmt.Errorf("%w: qoi cannot store translucent pixels exactly", ErrUnsupportedFormat)
		}
		err = qoi.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xFFFF {
				return false
			}
		}
	}
	return true
}

// NormalizeFormat maps a format name or file extension to one of the
// OutputFormats, or returns it lower-cased if it is not one of them.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "", "png":
		return FormatPNG
	case "tif", "tiff":
		return FormatTIFF
	}
	return f
}

// IsOutputFormat reports whether format can be used for a stego image.
func IsOutputFormat(format string) bool {
	f := NormalizeFormat(format)
	for _, o := range OutputFormats {
		if f == o {
			return true
		}
	}
	return false
}

// ToNRGBA returns src as an *image.NRGBA whose bounds start at (0,0).
// NRGBA images already anchored at the origin are returned as is so that
// partially transparent pixels keep their exact channel values.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Surface exposes an *image.NRGBA to the stego codec.
type Surface struct {
	img *image.NRGBA
}

func NewSurface(img *image.NRGBA) *Surface {
	return &Surface{img: img}
}

// Image returns the backing image.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

func (s *Surface) Width() int {
	return s.img.Bounds().Dx()
}

func (s *Surface) Height() int {
	return s.img.Bounds().Dy()
}

func (s *Surface) Pixel(x, y int) color.NRGBA {
	o := s.img.Bounds().Min
	return s.img.NRGBAAt(o.X+x, o.Y+y)
}

func (s *Surface) SetPixel(x, y int, c color.NRGBA) {
	o := s.img.Bounds().Min
	s.img.SetNRGBA(o.X+x, o.Y+y, c)
}
