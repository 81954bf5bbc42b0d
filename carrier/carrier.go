// Package carrier picks the right collaborator to turn a cover file into a
// stego.Surface and back.
package carrier

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pixel-steganography/audio"
	"pixel-steganography/imaging"
	"pixel-steganography/models"
	"pixel-steganography/stego"
)

const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

var ErrUnsupportedCarrier = errors.New("unsupported carrier")

// Carrier is a decoded cover file.
type Carrier struct {
	Surface  stego.Surface
	Metadata models.CarrierMetadata

	encode func(format string) ([]byte, error)
}

// Load decodes data. WAV and MP3 files are recognised by name; everything
// else is treated as an image whose format is sniffed from the bytes.
func Load(name string, data []byte) (*Carrier, error) {
	switch {
	case IsWAV(name):
		return loadAudio(FormatWAV, data)
	case IsMP3(name):
		return loadAudio(FormatMP3, data)
	}
	return loadImage(data)
}

// IsWAV reports whether name has a .wav extension.
func IsWAV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".wav")
}

// IsMP3 reports whether name has a .mp3 extension.
func IsMP3(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".mp3")
}

// loadAudio decodes a WAV or MP3 file. Both are written back as WAV.
func loadAudio(format string, data []byte) (*Carrier, error) {
	ad := audio.NewAudioDecoder()
	decode := ad.DecodeWAV
	if format == FormatMP3 {
		decode = ad.DecodeMP3
	}
	surface, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedCarrier, err)
	}
	return &Carrier{
		Surface: surface,
		Metadata: models.CarrierMetadata{
			Format: format,
			Width:  surface.Width(),
			Height: surface.Height(),
		},
		encode: func(string) ([]byte, error) {
			return ad.EncodeWAV(surface)
		},
	}, nil
}

func loadImage(data []byte) (*Carrier, error) {
	dec := imaging.NewImageDecoder()
	img, metadata, err := dec.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedCarrier, err)
	}
	return &Carrier{
		Surface:  imaging.NewSurface(img),
		Metadata: *metadata,
		encode: func(format string) ([]byte, error) {
			return dec.EncodeImage(img, format)
		},
	}, nil
}

// OutputFormat resolves the format a stego file is written in. Audio
// carriers are always written as WAV. Images use the requested format, or PNG
// when none is given.
func (c *Carrier) OutputFormat(requested string) (string, error) {
	if c.IsAudio() {
		return FormatWAV, nil
	}
	if requested == "" {
		return imaging.FormatPNG, nil
	}
	if !imaging.IsOutputFormat(requested) {
		return "", fmt.Errorf("%w: %q", imaging.ErrUnsupportedFormat, requested)
	}
	return imaging.NormalizeFormat(requested), nil
}

// IsAudio reports whether the carrier was decoded from WAV or MP3.
func (c *Carrier) IsAudio() bool {
	return c.Metadata.Format == FormatWAV || c.Metadata.Format == FormatMP3
}

// Encode serialises the (possibly modified) surface in format.
func (c *Carrier) Encode(format string) ([]byte, error) {
	return c.encode(format)
}

// Capacity returns how many bytes of a file called fileName fit.
func (c *Carrier) Capacity(fileName string) int {
	return stego.Capacity(c.Surface.Width(), c.Surface.Height(), fileName)
}

// ContentType returns the MIME type for a carrier written in format.
func ContentType(format string) string {
	switch format {
	case FormatWAV:
		return "audio/wav"
	case imaging.FormatBMP:
		return "image/bmp"
	case imaging.FormatTIFF:
		return "image/tiff"
	case imaging.FormatQOI:
		return "image/qoi"
	default:
		return "image/png"
	}
}
