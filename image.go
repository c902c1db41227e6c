package freepants

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for an image extension which cannot be encoded.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Formats lists the file extensions a render can be written to.
var Formats = []string{".png", ".jpg", ".jpeg", ".bmp", ".svg"}

// Encode writes the image in the format named by the extension. Formats
// without transparency get the canvas flattened onto white.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, flatten(img, color.White), &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, flatten(img, color.White))
	default:
		return errors.Wrap(ErrUnsupportedFormat, ext)
	}
}

// EncodeFile writes the image to the named file, choosing the format from
// its extension.
func EncodeFile(path string, img image.Image) (err error) {
	ext := filepath.Ext(path)
	if !isValidExtension(ext, Formats) || ext == ".svg" {
		return errors.Wrap(ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create the destination file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, ext)
}

// DataURL returns the image as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Icon scales the image down to fit a size x size square, centred on a
// transparent background.
func Icon(img image.Image, size int) *image.NRGBA {
	fit := imaging.Fit(img, size, size, imaging.Lanczos)
	dst := imaging.New(size, size, color.Transparent)
	return imaging.PasteCenter(dst, fit)
}

// flatten composes the image over a solid background.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	src := imgToNRGBA(img)
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	dst := image.NewNRGBA(srcBounds.Sub(srcBounds.Min))
	draw.Draw(dst, dst.Bounds(), img, srcBounds.Min, draw.Src)
	return dst
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == strings.ToLower(ext) {
			return true
		}
	}
	return false
}
