// Package render draws slides to bitmaps and performs crop rasterization.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// DecodeDataURL decodes a base64 data URL (or bare base64 image payload)
// into an image.
func DecodeDataURL(src string) (image.Image, error) {
	payload := src
	if strings.HasPrefix(src, "data:") {
		i := strings.Index(src, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data url")
		}
		payload = src[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// EncodeDataURL encodes an image as a PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CropDataURL cuts the fractional sub-rectangle (fx, fy, fw, fh; all in
// [0,1] relative to the image bounds) out of a data-URL image and returns
// the result as a new PNG data URL.
func CropDataURL(src string, fx, fy, fw, fh float64) (string, error) {
	img, err := DecodeDataURL(src)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	sub := image.Rect(
		b.Min.X+int(fx*w),
		b.Min.Y+int(fy*h),
		b.Min.X+int((fx+fw)*w),
		b.Min.Y+int((fy+fh)*h),
	).Intersect(b)
	if sub.Empty() {
		return "", fmt.Errorf("crop rectangle outside image bounds")
	}

	out := image.NewRGBA(image.Rect(0, 0, sub.Dx(), sub.Dy()))
	draw.Draw(out, out.Bounds(), img, sub.Min, draw.Src)
	return EncodeDataURL(out)
}
