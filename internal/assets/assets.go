// Package assets carries the fonts compiled into the binaries.
package assets

import (
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

// FontTTF is the monospaced face used for all editor text.
var FontTTF = gomono.TTF

// TitleFontTTF is used for screen titles.
var TitleFontTTF = gomonobold.TTF
