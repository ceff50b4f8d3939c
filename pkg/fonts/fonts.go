// Package fonts provides the label font shared by layout and rendering.
//
// Labels are measured and drawn with Go Regular, which ships with
// golang.org/x/image, so measured widths match the PNG output exactly and
// the SVG output embeds the same face.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name used for the embedded face.
const FontFamily = "Go Regular"

// FallbackFontFamily lists fonts for viewers that ignore the embedded face.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

var (
	source     *text.FontSource
	sourceErr  error
	sourceOnce sync.Once

	ttfBase64     string
	ttfBase64Once sync.Once
)

// Source returns the parsed Go Regular font source. It is parsed once.
func Source() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(goregular.TTF)
	})
	return source, sourceErr
}

// Face returns Go Regular at size pixels.
func Face(size float64) (text.Face, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}

// Measure returns the advance width and line height of s at size pixels.
func Measure(s string, size float64) (w, h float64, err error) {
	face, err := Face(size)
	if err != nil {
		return 0, 0, err
	}
	w, h = text.Measure(s, face)
	return w, h, nil
}

// TTF returns the raw font data.
func TTF() []byte { return goregular.TTF }

// TTFBase64 returns the font data as a base64 string for embedding in SVG.
// The result is cached after first computation.
func TTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}
