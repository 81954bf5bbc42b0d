package stego

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"pixel-steganography/models"
)

const (
	// NameLengthSymbols is the width of the file name length field.
	NameLengthSymbols = 2
	// DataLengthSymbols is the width of the file data length field.
	DataLengthSymbols = 6

	// MaxNameSymbols is the longest packed file name the header can describe.
	MaxNameSymbols = 1<<(NameLengthSymbols*SymbolBits) - 1
	// MaxDataSymbols is the longest packed file body the header can describe.
	// It is wider than a 32-bit int, so compare it as a uint64.
	MaxDataSymbols uint64 = 1<<(DataLengthSymbols*SymbolBits) - 1

	headerSymbols = NameLengthSymbols + DataLengthSymbols
)

// Codec writes and reads frames. The zero value is usable and silent; set
// Logger to trace field boundaries.
type Codec struct {
	Logger zerolog.Logger
}

// NewCodec returns a Codec logging through logger.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{Logger: logger}
}

var silent = Codec{Logger: zerolog.Nop()}

// Encode hides payload in surface. See Codec.Encode.
func Encode(surface Surface, payload models.Payload) error {
	return silent.Encode(surface, payload)
}

// Decode recovers the payload hidden in surface. See Codec.Decode.
func Decode(surface Surface) (models.Payload, error) {
	return silent.Decode(surface)
}

// RequiredSymbols returns how many pixels payload occupies once framed.
func RequiredSymbols(payload models.Payload) (int, error) {
	nameSymbols := PackedLen(len(payload.FileName))
	if nameSymbols > MaxNameSymbols {
		return 0, fmt.Errorf("file name packs to %d symbols, limit is %d: %w", nameSymbols, MaxNameSymbols, ErrRange)
	}
	dataSymbols := PackedLen(len(payload.Data))
	if uint64(dataSymbols) > MaxDataSymbols {
		return 0, fmt.Errorf("file data packs to %d symbols, limit is %d: %w", dataSymbols, MaxDataSymbols, ErrRange)
	}
	return headerSymbols + nameSymbols + dataSymbols, nil
}

// Capacity returns how many bytes of file data fit in a width x height
// surface next to a file called fileName.
func Capacity(width, height int, fileName string) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	free := width*height - headerSymbols - PackedLen(len(fileName))
	if free <= 0 {
		return 0
	}
	if f := uint64(free); f > MaxDataSymbols {
		f = MaxDataSymbols
		free = int(f)
	}
	// Largest n with ceil(8n/6) <= free.
	n := free * SymbolBits / 8
	for PackedLen(n+1) <= free {
		n++
	}
	return n
}

// Encode writes payload into surface starting at the origin. The surface is
// changed in place. The full frame size is checked against the surface
// before any pixel is written, so a payload that does not fit fails with
// ErrCapacityExceeded and leaves the surface untouched.
func (c *Codec) Encode(surface Surface, payload models.Payload) error {
	required, err := RequiredSymbols(payload)
	if err != nil {
		return err
	}
	available := surface.Width() * surface.Height()
	if required > available {
		return fmt.Errorf("payload needs %d pixels, carrier has %d: %w", required, available, ErrCapacityExceeded)
	}

	name := PackBytes([]byte(payload.FileName))
	data := PackBytes(payload.Data)

	nameLength, err := PackUint(uint64(len(name)), NameLengthSymbols)
	if err != nil {
		return err
	}
	dataLength, err := PackUint(uint64(len(data)), DataLengthSymbols)
	if err != nil {
		return err
	}

	fields := []struct {
		name    string
		symbols []Symbol
	}{
		{"name_length", nameLength},
		{"name", name},
		{"data_length", dataLength},
		{"data", data},
	}

	cur := Origin
	for _, f := range fields {
		next, err := WriteRun(surface, f.symbols, cur)
		if err != nil {
			return fmt.Errorf("write %s field: %w", f.name, err)
		}
		c.Logger.Debug().
			Str("field", f.name).
			Int("symbols", len(f.symbols)).
			Stringer("from", cur).
			Stringer("to", next).
			Msg("frame field written")
		cur = next
	}
	return nil
}

// Decode reads a frame from surface. Length fields that point past the end
// of the surface, symbol runs no encoder can produce and file names that
// are not valid UTF-8 fail with ErrMalformedFrame.
func (c *Codec) Decode(surface Surface) (models.Payload, error) {
	cur := Origin

	nameLength, cur, err := c.readUint(surface, cur, "name_length", NameLengthSymbols)
	if err != nil {
		return models.Payload{}, err
	}
	nameBytes, cur, err := c.readBytes(surface, cur, "name", nameLength)
	if err != nil {
		return models.Payload{}, err
	}
	if !utf8.Valid(nameBytes) {
		return models.Payload{}, fmt.Errorf("file name is not valid UTF-8: %w", ErrMalformedFrame)
	}

	dataLength, cur, err := c.readUint(surface, cur, "data_length", DataLengthSymbols)
	if err != nil {
		return models.Payload{}, err
	}
	data, _, err := c.readBytes(surface, cur, "data", dataLength)
	if err != nil {
		return models.Payload{}, err
	}

	return models.Payload{FileName: string(nameBytes), Data: data}, nil
}

func (c *Codec) readUint(surface Surface, start Coordinate, field string, width int) (uint64, Coordinate, error) {
	symbols, next, err := c.readField(surface, start, field, width)
	if err != nil {
		return 0, start, err
	}
	v, err := UnpackUint(symbols)
	if err != nil {
		return 0, start, fmt.Errorf("read %s field: %w", field, err)
	}
	return v, next, nil
}

func (c *Codec) readBytes(surface Surface, start Coordinate, field string, length uint64) ([]byte, Coordinate, error) {
	if avail := start.Remaining(surface.Width(), surface.Height()); length > uint64(avail) {
		return nil, start, fmt.Errorf("%s field declares %d symbols, %d pixels left: %w: %w",
			field, length, avail, ErrMalformedFrame, ErrOutOfBounds)
	}
	symbols, next, err := c.readField(surface, start, field, int(length))
	if err != nil {
		return nil, start, err
	}
	b, err := UnpackBytes(symbols)
	if err != nil {
		return nil, start, fmt.Errorf("read %s field: %w: %w", field, ErrMalformedFrame, err)
	}
	return b, next, nil
}

func (c *Codec) readField(surface Surface, start Coordinate, field string, count int) ([]Symbol, Coordinate, error) {
	symbols, next, err := ReadRun(surface, start, count)
	if err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			return nil, start, fmt.Errorf("read %s field: %w: %w", field, ErrMalformedFrame, err)
		}
		return nil, start, fmt.Errorf("read %s field: %w", field, err)
	}
	c.Logger.Debug().
		Str("field", field).
		Int("symbols", count).
		Stringer("from", start).
		Stringer("to", next).
		Msg("frame field read")
	return symbols, next, nil
}
