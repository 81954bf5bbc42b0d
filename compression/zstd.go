// Package compression optionally shrinks a payload before it is hidden
package compression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"

	"pixel-steganography/models"
)

// ErrCorrupt is returned when a payload named as compressed does not hold
// a valid zstd stream.
var ErrCorrupt = errors.New("corrupt compressed payload")

// Suffix marks a payload whose data is zstd-compressed.
const Suffix = ".zst"

// Compress zstd-compresses the payload data and appends Suffix to its name,
// so the recovered file is a valid .zst archive even without Decompress.
func Compress(p models.Payload) (models.Payload, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return models.Payload{}, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()

	return models.Payload{
		FileName: p.FileName + Suffix,
		Data:     enc.EncodeAll(p.Data, make([]byte, 0, len(p.Data))),
	}, nil
}

// Decompress reverses Compress. Payloads without Suffix are returned as is.
func Decompress(p models.Payload) (models.Payload, error) {
	if !IsCompressed(p) {
		return p, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return models.Payload{}, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(p.Data, nil)
	if err != nil {
		return models.Payload{}, fmt.Errorf("zstd decode %q: %w: %w", p.FileName, ErrCorrupt, err)
	}
	return models.Payload{
		FileName: strings.TrimSuffix(p.FileName, Suffix),
		Data:     data,
	}, nil
}

// IsCompressed reports whether the payload name carries Suffix.
func IsCompressed(p models.Payload) bool {
	return strings.HasSuffix(p.FileName, Suffix) && len(p.FileName) > len(Suffix)
}
