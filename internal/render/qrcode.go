package render

import (
	"errors"
	"image"

	"github.com/skip2/go-qrcode"
)

// qrcode.Low holds the most text; a full page of 40-column lines fits.
const qrRecovery = qrcode.Low

var errEmptyPayload = errors.New("empty qr payload")

// QRCodeImage encodes payload as a square black-on-white image of sizePx.
func QRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, errEmptyPayload
	}
	code, err := qrcode.New(payload, qrRecovery)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	return code.Image(sizePx), nil
}
