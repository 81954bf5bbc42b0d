package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"pixel-steganography/models"
	"pixel-steganography/stego"
)

func makeTestImage(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: alpha,
			})
		}
	}
	return img
}

func TestEncodeDecodeImage_RoundTrip(t *testing.T) {
	payload := models.Payload{FileName: "café.txt", Data: []byte("hidden in plain sight")}
	dec := NewImageDecoder()

	for _, format := range OutputFormats {
		t.Run(format, func(t *testing.T) {
			img := makeTestImage(64, 48, 255)
			if err := stego.Encode(NewSurface(img), payload); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			data, err := dec.EncodeImage(img, format)
			if err != nil {
				t.Fatalf("EncodeImage: %v", err)
			}
			loaded, meta, err := dec.DecodeImage(data)
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			if meta.Width != 64 || meta.Height != 48 {
				t.Fatalf("size = %dx%d", meta.Width, meta.Height)
			}

			got, err := stego.Decode(NewSurface(loaded))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.FileName != payload.FileName || !bytes.Equal(got.Data, payload.Data) {
				t.Fatalf("got %q %q", got.FileName, got.Data)
			}
		})
	}
}

func TestTranslucentPixelsPerFormat(t *testing.T) {
	payload := models.Payload{FileName: "a.txt", Data: []byte("translucent cover, opaque secret")}
	dec := NewImageDecoder()

	for _, format := range OutputFormats {
		t.Run(format, func(t *testing.T) {
			img := makeTestImage(40, 40, 90)
			for i := 3; i < len(img.Pix); i += 4 {
				img.Pix[i] = uint8(1 + (i/4)%254)
			}
			if err := stego.Encode(NewSurface(img), payload); err != nil {
				t.Fatal(err)
			}
			want := img.NRGBAAt(7, 3)

			data, err := dec.EncodeImage(img, format)
			if format == FormatQOI {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("qoi err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			loaded, _, err := dec.DecodeImage(data)
			if err != nil {
				t.Fatal(err)
			}
			got, err := stego.Decode(NewSurface(loaded))
			if err != nil {
				t.Fatal(err)
			}
			if got.FileName != payload.FileName || !bytes.Equal(got.Data, payload.Data) {
				t.Fatalf("got %q %q", got.FileName, got.Data)
			}
			if px := loaded.NRGBAAt(7, 3); px != want {
				t.Fatalf("pixel = %v want %v", px, want)
			}
		})
	}
}

func TestDecodeImageAcceptsLossyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeTestImage(16, 8, 255), nil); err != nil {
		t.Fatal(err)
	}
	img, meta, err := NewImageDecoder().DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if meta.Format != "jpeg" || img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, _, err := NewImageDecoder().DecodeImage([]byte("not an image")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEncodeImageRejectsLossyFormats(t *testing.T) {
	for _, f := range []string{"jpeg", "gif", "webp"} {
		_, err := NewImageDecoder().EncodeImage(makeTestImage(2, 2, 255), f)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: err = %v", f, err)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]string{"": "png", ".PNG": "png", "tif": "tiff", ".qoi": "qoi", "BMP": "bmp", "jpg": "jpg"}
	for in, want := range cases {
		if got := NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q want %q", in, got, want)
		}
	}
	if IsOutputFormat("jpg") || !IsOutputFormat(".tif") {
		t.Fatal("IsOutputFormat")
	}
}

func TestToNRGBARebasesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 7))
	src.Set(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	got := ToNRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if got.NRGBAAt(0, 0) != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("pixel = %v", got.NRGBAAt(0, 0))
	}
}
