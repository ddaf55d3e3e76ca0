package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/rook-computer/typewriter/internal/assets"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// LoadFace returns a face for the font file at path at sizePt (72 DPI, so
// points equal pixels). An empty path uses the built-in mono font. TrueType
// files go through freetype; other OpenType flavours use x/image's parser.
// If neither can load the font the fixed 7x13 bitmap face is returned.
func LoadFace(path string, sizePt float64, logger Logger) font.Face {
	data := assets.FontTTF
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			logf(logger, true, "font %s unreadable, using built-in: %v", path, err)
		} else {
			data = raw
		}
	}
	face, err := ParseFace(data, sizePt)
	if err != nil {
		logf(logger, true, "%v, using basicfont", err)
		return basicfont.Face7x13
	}
	return face
}

// ParseFace builds a face from raw TrueType or OpenType bytes.
func ParseFace(data []byte, sizePt float64) (font.Face, error) {
	if tt, err := truetype.Parse(data); err == nil {
		return truetype.NewFace(tt, &truetype.Options{Size: sizePt, DPI: 72, Hinting: font.HintingFull}), nil
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font parse: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: sizePt, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

func logf(l Logger, isErr bool, format string, args ...interface{}) {
	if l == nil {
		return
	}
	if isErr {
		l.Errorf("render", format, args...)
		return
	}
	l.Infof("render", format, args...)
}
