package artifacts

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// Render рисует PNG с QR кодом для payload
func Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrRender)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return png, nil
}

// DataURL рисует QR код и возвращает его как data:image/png;base64 URL
func DataURL(payload string) (string, error) {
	png, err := Render(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
