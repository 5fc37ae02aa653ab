package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/tiff"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

// Format names an output encoding. Its value is the canonical extension.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatSVG  Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF, FormatSVG}

// ParseFormat maps a file extension, with or without the dot, to a format.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "application/octet-stream"
}

// Encode renders the layout in the given format to w. Raster formats are
// exactly Width×Height pixels and fail with ErrCanvasTooLarge above
// MaxPixels.
func Encode(w io.Writer, res layout.Result, format Format, face font.Face) error {
	if format == FormatSVG {
		size := DefaultFontSize
		if face != nil {
			size = face.Metrics().Height.Ceil()
		}
		WriteSVG(w, res, DefaultPalette(), size)
		return nil
	}
	if err := CheckSize(res); err != nil {
		return err
	}
	return EncodeImage(w, Rasterize(res, face), format)
}

// EncodeImage writes an already rasterized image.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		b := img.Bounds()
		pal := image.NewPaletted(b, palette.Plan9)
		xdraw.FloydSteinberg.Draw(pal, b, img, b.Min)
		return gif.Encode(w, pal, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// createFile opens the destination of Save. Tests replace it.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Save writes the view to path, picking the encoder from the extension.
//
// A path without an extension fails with *MissingExtensionError before the
// view is touched. Otherwise the view's cached layout is dropped, a fresh
// layout is computed and encoded; every later failure is a *SaveError.
func Save(view *layout.View, path string) error {
	return SaveFace(view, path, nil)
}

// SaveFace is Save drawing text with face. A nil face uses Go Regular at
// DefaultFontSize.
func SaveFace(view *layout.View, path string, face font.Face) error {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return &MissingExtensionError{Path: path}
	}

	view.Invalidate()
	res := view.Layout()

	format, err := ParseFormat(ext)
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if format != FormatSVG {
		if err := CheckSize(res); err != nil {
			return &SaveError{Path: path, Err: err}
		}
	}

	f, err := createFile(path)
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if face == nil {
		face = MustFace(DefaultFontSize)
		defer face.Close()
	}
	if err := Encode(f, res, format, face); err != nil {
		f.Close()
		os.Remove(path)
		return &SaveError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return &SaveError{Path: path, Err: err}
	}
	return nil
}
