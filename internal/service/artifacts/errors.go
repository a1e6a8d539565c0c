package artifacts

import "errors"

var (
	// ErrInvalidPayload возвращается при битом check-in payload
	ErrInvalidPayload = errors.New("artifacts: invalid check-in payload")

	// ErrRender возвращается при ошибке генерации QR кода
	ErrRender = errors.New("artifacts: failed to render qr code")
)
