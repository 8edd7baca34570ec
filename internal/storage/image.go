package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// MaxImageBytes é o limite de upload de imagem do shop.
	MaxImageBytes int64 = 10 << 20

	maxImageSide = 1600
	webpQuality  = 82
)

var (
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

// CheckImage valida o tipo declarado, o tipo detectado nos primeiros bytes e o tamanho.
// limit <= 0 usa MaxImageBytes.
func CheckImage(declaredMIME string, size int64, head []byte, limit int64) error {
	if limit <= 0 {
		limit = MaxImageBytes
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(declaredMIME)), "image/") {
		return ErrNotImage
	}
	if size > limit {
		return ErrImageTooLarge
	}
	if len(head) > 0 {
		sniffed := http.DetectContentType(head)
		// o sniffer do net/http não reconhece todo formato de imagem
		if !strings.HasPrefix(sniffed, "image/") && sniffed != "application/octet-stream" {
			return ErrNotImage
		}
	}
	return nil
}

// Normalize decodifica a imagem, limita o maior lado a 1600px e reencoda em webp.
func Normalize(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	b := img.Bounds()
	if b.Dx() > maxImageSide || b.Dy() > maxImageSide {
		img = imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
