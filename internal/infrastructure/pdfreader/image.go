package pdfreader

import (
	"image"

	"golang.org/x/image/draw"
)

// Scanned tender pages arrive at wildly different resolutions. Recognition
// quality drops sharply below roughly 300 DPI, so small rasters get upscaled
// before OCR, capped to keep sidecar payloads bounded.
const (
	minOCRDimension = 1200
	maxOCRDimension = 2500
)

// prepareForOCR converts a page raster into the form the recognizer performs
// best on: grayscale, despeckled, upscaled when undersized.
func prepareForOCR(img image.Image) image.Image {
	gray := toGray(img)
	gray = medianFilter(gray)
	return upscale(gray)
}

func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// medianFilter applies a 3x3 median over the luminance channel. Border pixels
// pass through unchanged.
func medianFilter(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return src
	}

	dst := image.NewGray(bounds)
	copy(dst.Pix, src.Pix)

	var window [9]uint8
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				row := src.PixOffset(x-1, y+dy)
				window[n] = src.Pix[row]
				window[n+1] = src.Pix[row+1]
				window[n+2] = src.Pix[row+2]
				n += 3
			}
			dst.Pix[dst.PixOffset(x, y)] = median9(window)
		}
	}
	return dst
}

// median9 sorts a fixed 9-element window by insertion, cheap at this size.
func median9(w [9]uint8) uint8 {
	for i := 1; i < len(w); i++ {
		for j := i; j > 0 && w[j-1] > w[j]; j-- {
			w[j-1], w[j] = w[j], w[j-1]
		}
	}
	return w[4]
}

func upscale(src *image.Gray) image.Image {
	bounds := src.Bounds()
	longest := bounds.Dx()
	if bounds.Dy() > longest {
		longest = bounds.Dy()
	}
	if longest == 0 || longest >= minOCRDimension {
		return src
	}

	// Roughly 72 to 300 DPI, clamped to the payload cap.
	factor := 300.0 / 72.0
	if float64(longest)*factor > maxOCRDimension {
		factor = float64(maxOCRDimension) / float64(longest)
	}
	if float64(longest)*factor < minOCRDimension {
		factor = float64(minOCRDimension) / float64(longest)
	}

	dst := image.NewGray(image.Rect(0, 0,
		int(float64(bounds.Dx())*factor),
		int(float64(bounds.Dy())*factor)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}
