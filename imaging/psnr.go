package imaging

import (
	"math"

	"pixel-steganography/stego"
)

// CalculatePSNR compares the red, green and blue channels of two surfaces of
// equal size. It returns 0 for mismatched or empty surfaces and +Inf for
// identical ones.
func CalculatePSNR(original, stegoSurface stego.Surface) float64 {
	w, h := original.Width(), original.Height()
	if w != stegoSurface.Width() || h != stegoSurface.Height() {
		return 0.0
	}
	if w*h == 0 {
		return 0.0
	}

	var mse float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := original.Pixel(x, y)
			b := stegoSurface.Pixel(x, y)
			dr := float64(a.R) - float64(b.R)
			dg := float64(a.G) - float64(b.G)
			db := float64(a.B) - float64(b.B)
			mse += dr*dr + dg*dg + db*db
		}
	}
	mse /= float64(w * h * 3)

	if mse == 0 {
		return math.Inf(1)
	}

	// PSNR = 20 * log10(MAX / sqrt(MSE)), MAX = 255 for 8-bit channels
	maxChannelValue := 255.0
	return 20 * math.Log10(maxChannelValue/math.Sqrt(mse))
}

func ValidatePSNR(psnr float64, threshold float64) bool {
	if math.IsInf(psnr, 1) {
		return true
	}
	return psnr >= threshold
}
