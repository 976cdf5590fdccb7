package shape

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// faceSize is the pixel size basicfont.Face7x13 is drawn at.
const faceSize = 13

var textFace font.Face = basicfont.Face7x13

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// textExtent returns the width and height of s at the given font size. The
// fixed-width face is scaled linearly, which is close enough for alignment
// and hit testing; the renderer uses its own fonts.
func textExtent(s string, size float64) (float64, float64) {
	if s == "" || size <= 0 {
		return 0, 0
	}
	scale := size / faceSize
	lineHeight := toFloat(textFace.Metrics().Height)

	lines := strings.Split(s, "\n")
	var width float64
	for _, line := range lines {
		if w := toFloat(font.MeasureString(textFace, line)); w > width {
			width = w
		}
	}
	return width * scale, lineHeight * float64(len(lines)) * scale
}
