// Package codec converts numeric arrays to and from transport encodings.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ailetic/pkg/ndarray"
)

// Image formats accepted by EncodeImage.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// NormalizeImageFormat lower-cases format and maps aliases. Unknown formats fall back to png.
func NormalizeImageFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "jpg", "jpeg":
		return FormatJPEG
	case "tif", "tiff":
		return FormatTIFF
	case FormatGIF, FormatBMP, FormatPNG:
		return f
	default:
		return FormatPNG
	}
}

// ParseImageFormat is NormalizeImageFormat without the fallback: unknown
// formats are an error.
func ParseImageFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "jpg", FormatJPEG, "tif", FormatTIFF, FormatGIF, FormatBMP, FormatPNG:
		return NormalizeImageFormat(f), nil
	default:
		return "", fmt.Errorf("codec: unsupported image format %q", format)
	}
}

// ImageContentType returns the MIME type of a normalized image format.
func ImageContentType(format string) string {
	return "image/" + NormalizeImageFormat(format)
}

// DecodeImage reads an image into an H×W×C array of 0..255 values.
// Gray images yield C=1, opaque colour images C=3 and images with
// transparency C=4 (non-premultiplied).
func DecodeImage(r io.Reader) (*ndarray.Array, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}

	return ImageToArray(img), format, nil
}

// ImageToArray converts img to an H×W×C array.
func ImageToArray(img image.Image) *ndarray.Array {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()

	switch src := img.(type) {
	case *image.Gray:
		arr := ndarray.New(h, w, 1)
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			for x, v := range row {
				arr.Data[y*w+x] = float64(v)
			}
		}
		return arr
	case *image.Gray16:
		arr := ndarray.New(h, w, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				arr.Data[y*w+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return arr
	}

	c := 3
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		c = 4
	}

	arr := ndarray.New(h, w, c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * c
			arr.Data[i] = float64(px.R)
			arr.Data[i+1] = float64(px.G)
			arr.Data[i+2] = float64(px.B)
			if c == 4 {
				arr.Data[i+3] = float64(px.A)
			}
		}
	}
	return arr
}

// ArrayToImage converts an H×W, H×W×1, H×W×3 or H×W×4 array into an image.
// Values are clipped to 0..255 and truncated.
func ArrayToImage(arr *ndarray.Array) (image.Image, error) {
	h, w, c, err := arr.ImageDims()
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, w, h)
	switch c {
	case 1:
		img := image.NewGray(rect)
		for i, v := range arr.Data {
			img.Pix[i] = ndarray.Uint8(v)
		}
		return img, nil
	case 3, 4:
		img := image.NewNRGBA(rect)
		for p := 0; p < h*w; p++ {
			img.Pix[p*4] = ndarray.Uint8(arr.Data[p*c])
			img.Pix[p*4+1] = ndarray.Uint8(arr.Data[p*c+1])
			img.Pix[p*4+2] = ndarray.Uint8(arr.Data[p*c+2])
			if c == 4 {
				img.Pix[p*4+3] = ndarray.Uint8(arr.Data[p*c+3])
			} else {
				img.Pix[p*4+3] = 255
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("codec: unsupported channel count %d", c)
	}
}

// EncodeImage encodes arr in the given raster format.
func EncodeImage(arr *ndarray.Array, format string) ([]byte, error) {
	img, err := ArrayToImage(arr)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch NormalizeImageFormat(format) {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", format)
	}

	return buf.Bytes(), nil
}

// ArrayToBase64Image encodes arr as an image and returns the base64 of the bytes.
func ArrayToBase64Image(arr *ndarray.Array, format string) (string, error) {
	body, err := EncodeImage(arr, format)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(body), nil
}
