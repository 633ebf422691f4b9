package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// QRService renders PNG QR codes that point at pages of the frontend.
type QRService struct {
	baseURL string // e.g. "https://eventos.app/eventos/"
}

func NewQRService(baseURL string) *QRService {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &QRService{
		baseURL: baseURL,
	}
}

// URLFor returns the link encoded for the given path segment.
func (s *QRService) URLFor(code string) string {
	return s.baseURL + code
}

// GenerateQRCode encodes baseURL+code as a PNG; size is clamped to [MinSize, MaxSize].
func (s *QRService) GenerateQRCode(code string, size int) ([]byte, error) {
	switch {
	case size <= 0:
		size = DefaultSize
	case size < MinSize:
		size = MinSize
	case size > MaxSize:
		size = MaxSize
	}

	png, err := qrcode.Encode(s.URLFor(code), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}
