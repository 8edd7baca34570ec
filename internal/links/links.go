// Package links monta os links externos de um shop (rotas e WhatsApp).
package links

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

const (
	directionsBase = "https://www.google.com/maps/dir/?api=1&destination="
	whatsappBase   = "https://wa.me/"
)

type Links struct {
	Directions string `json:"directions,omitempty"`
	WhatsApp   string `json:"whatsapp,omitempty"`
}

func For(s barbershop.Shop) Links {
	return Links{
		Directions: Directions(s),
		WhatsApp:   WhatsApp(s),
	}
}

// Directions usa as coordenadas quando as duas existem, senão o endereço.
func Directions(s barbershop.Shop) string {
	lat := strings.TrimSpace(s.Latitude)
	lng := strings.TrimSpace(s.Longitude)
	if lat != "" && lng != "" {
		return directionsBase + url.QueryEscape(lat+","+lng)
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{s.Address, s.Sector, s.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return directionsBase + url.QueryEscape(strings.Join(parts, ", "))
}

// WhatsApp prefere o link salvo; sem ele, monta pelo telefone.
func WhatsApp(s barbershop.Shop) string {
	if link := strings.TrimSpace(s.WhatsApp); link != "" {
		return link
	}
	phone := NormalizePhone(s.Phone)
	if phone == "" {
		return ""
	}
	return whatsappBase + phone
}

// NormalizePhone remove tudo que não é dígito. Número local de 10 dígitos
// que não começa com 1 ganha o prefixo 1.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 && digits[0] != '1' {
		return "1" + digits
	}
	return digits
}

// QRCode gera o PNG do link.
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
