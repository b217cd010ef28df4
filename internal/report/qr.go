package report

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// IMEIToQR creates a QR code PNG encoding the device's IMEI, for pasting into
// field paperwork.
func IMEIToQR(imei string, size int) ([]byte, error) {
	normalized := sanitizeIMEI(imei)
	if normalized == "" {
		return nil, fmt.Errorf("imei is empty")
	}
	if size <= 0 {
		size = 128
	}
	png, err := qrcode.Encode(normalized, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}

func sanitizeIMEI(imei string) string {
	trimmed := strings.TrimSpace(imei)
	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
