package stego

import (
	"bytes"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pixel-steganography/models"
)

func TestEncodeDecodeScenarios(t *testing.T) {
	cases := []struct {
		name    string
		payload models.Payload
	}{
		{"ascii name", models.Payload{FileName: "a.txt", Data: []byte{0x41, 0x42, 0x43}}},
		{"empty data", models.Payload{FileName: "empty.bin", Data: []byte{}}},
		{"multibyte name", models.Payload{FileName: "café.txt", Data: []byte("bonjour")}},
		{"cjk name", models.Payload{FileName: "文件.dat", Data: []byte{0, 1, 2, 3, 4}}},
		{"empty name", models.Payload{FileName: "", Data: []byte{9}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGrid(100, 100, gray)
			if err := Encode(g, tc.payload); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(g)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.FileName != tc.payload.FileName {
				t.Fatalf("name = %q want %q", got.FileName, tc.payload.FileName)
			}
			if !bytes.Equal(got.Data, tc.payload.Data) {
				t.Fatalf("data = %v want %v", got.Data, tc.payload.Data)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	g := newGrid(10, 10, gray)
	if err := Encode(g, models.Payload{FileName: "a.txt", Data: []byte{0x41, 0x42, 0x43}}); err != nil {
		t.Fatal(err)
	}
	// "a.txt" packs to 7 symbols, the data to 4.
	header, _, err := ReadRun(g, Origin, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := UnpackUint(header); n != 7 {
		t.Fatalf("name length field = %d", n)
	}
	dataHeader, _, err := ReadRun(g, Coordinate{X: 9, Y: 0}, 6)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := UnpackUint(dataHeader); n != 4 {
		t.Fatalf("data length field = %d", n)
	}
}

func TestEncodeLargeRandomPayload(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, 20000)
	rng.Read(data)

	g := newGrid(200, 150, gray)
	var logs bytes.Buffer
	codec := NewCodec(zerolog.New(&logs).Level(zerolog.DebugLevel))
	if err := codec.Encode(g, models.Payload{FileName: "noise.bin", Data: data}); err != nil {
		t.Fatal(err)
	}
	got, err := codec.Decode(g)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data, data) {
		t.Fatal("data mismatch")
	}
	if !strings.Contains(logs.String(), `"field":"data_length"`) {
		t.Fatalf("expected field debug events, got %s", logs.String())
	}
}

func TestEncodeExactFit(t *testing.T) {
	payload := models.Payload{FileName: "x", Data: []byte{1, 2, 3}}
	required, err := RequiredSymbols(payload)
	if err != nil {
		t.Fatal(err)
	}
	g := newGrid(required, 1, gray)
	if err := Encode(g, payload); err != nil {
		t.Fatalf("exact fit: %v", err)
	}
	got, err := Decode(g)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data, payload.Data) {
		t.Fatal("data mismatch")
	}
}

func TestEncodeCapacityExceededLeavesSurfaceUntouched(t *testing.T) {
	g := newGrid(5, 5, gray)
	before := g.clone()
	err := Encode(g, models.Payload{FileName: "big.bin", Data: make([]byte, 100)})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	for i := range g.px {
		if g.px[i] != before.px[i] {
			t.Fatalf("pixel %d changed after failed encode", i)
		}
	}
}

func TestEncodeRejectsLongName(t *testing.T) {
	name := strings.Repeat("n", 3072)
	err := Encode(newGrid(100, 100, gray), models.Payload{FileName: name})
	if !errors.Is(err, ErrRange) {
		t.Fatalf("err = %v, want ErrRange", err)
	}
	// 3071 bytes pack to exactly 4095 symbols.
	if _, err := RequiredSymbols(models.Payload{FileName: name[:3071]}); err != nil {
		t.Fatalf("longest name rejected: %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Run("name length past end", func(t *testing.T) {
		g := newGrid(4, 4, gray)
		lengthField, _ := PackUint(4000, NameLengthSymbols)
		if _, err := WriteRun(g, lengthField, Origin); err != nil {
			t.Fatal(err)
		}
		_, err := Decode(g)
		if !errors.Is(err, ErrMalformedFrame) || !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("data length past end", func(t *testing.T) {
		g := newGrid(10, 10, gray)
		if err := Encode(g, models.Payload{FileName: "a", Data: []byte{1}}); err != nil {
			t.Fatal(err)
		}
		lengthField, _ := PackUint(1<<30, DataLengthSymbols)
		if _, err := WriteRun(g, lengthField, Coordinate{X: 4, Y: 0}); err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(g); !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("invalid utf8 name", func(t *testing.T) {
		g := newGrid(10, 10, gray)
		name := PackBytes([]byte{0xFF, 0xFE})
		lengthField, _ := PackUint(uint64(len(name)), NameLengthSymbols)
		cur, _ := WriteRun(g, lengthField, Origin)
		cur, _ = WriteRun(g, name, cur)
		zero, _ := PackUint(0, DataLengthSymbols)
		if _, err := WriteRun(g, zero, cur); err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(g); !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("impossible run length", func(t *testing.T) {
		g := newGrid(10, 10, gray)
		lengthField, _ := PackUint(5, NameLengthSymbols)
		if _, err := WriteRun(g, lengthField, Origin); err != nil {
			t.Fatal(err)
		}
		if _, err := Decode(g); !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("tiny surface", func(t *testing.T) {
		if _, err := Decode(newGrid(1, 1, gray)); !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestCapacity(t *testing.T) {
	cases := []struct {
		w, h int
		name string
	}{
		{10, 10, "a.txt"},
		{100, 100, "café.txt"},
		{3, 3, ""},
		{33, 7, "report.pdf"},
	}
	for _, tc := range cases {
		n := Capacity(tc.w, tc.h, tc.name)
		fits := models.Payload{FileName: tc.name, Data: make([]byte, n)}
		if err := Encode(newGrid(tc.w, tc.h, gray), fits); err != nil {
			t.Fatalf("%dx%d: capacity %d does not fit: %v", tc.w, tc.h, n, err)
		}
		over := models.Payload{FileName: tc.name, Data: make([]byte, n+1)}
		if err := Encode(newGrid(tc.w, tc.h, gray), over); !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("%dx%d: capacity+1 err = %v", tc.w, tc.h, err)
		}
	}
	if got := Capacity(2, 2, "a"); got != 0 {
		t.Fatalf("header does not fit, capacity = %d", got)
	}
}

func TestCapacityClampsToDataLengthField(t *testing.T) {
	if MaxDataSymbols != 1<<36-1 {
		t.Fatalf("MaxDataSymbols = %d", MaxDataSymbols)
	}
	if strconv.IntSize < 64 {
		t.Skip("surface larger than the data length field needs a 64-bit int")
	}
	// 2^38 pixels, more than the 6-symbol data length field can address.
	got := Capacity(1<<19, 1<<19, "")
	limit := MaxDataSymbols
	if want := int(limit * SymbolBits / 8); got != want {
		t.Fatalf("capacity = %d want %d", got, want)
	}
	if uint64(PackedLen(got)) > MaxDataSymbols || uint64(PackedLen(got+1)) <= MaxDataSymbols {
		t.Fatalf("capacity %d is not the largest fitting size", got)
	}
}
