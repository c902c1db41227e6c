package freepants

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font
)

// newRegularFace returns the Go Regular face at the given pixel size. The
// parsed font is shared, faces are not safe for concurrent use and belong to
// one canvas.
func newRegularFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// substitute replaces every character of the word found in the table.
func substitute(word string, table map[string]string) string {
	if len(table) == 0 {
		return word
	}
	var sb strings.Builder
	for _, r := range word {
		if rep, ok := table[string(r)]; ok {
			sb.WriteString(rep)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeText escapes the characters reserved by the markup.
func escapeText(s string) string {
	return markupEscaper.Replace(s)
}
