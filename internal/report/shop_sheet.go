// Package report gera a ficha em PDF de um shop.
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/links"
)

type ShopSheet struct {
	Shop     barbershop.Shop
	Barbers  []barbershop.User
	Services []barbershop.Service
	Links    links.Links
}

// Write desenha a ficha: dados, categorias, barbeiros, serviços e os QR codes
// de rota e WhatsApp.
func (s ShopSheet) Write(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(s.Shop.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, line := range s.details() {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	section(pdf, tr, "Barbeiros")
	if len(s.Barbers) == 0 {
		pdf.Cell(0, 7, tr("Nenhum barbeiro vinculado."))
		pdf.Ln(7)
	}
	for _, b := range s.Barbers {
		pdf.Cell(0, 7, tr(fmt.Sprintf("- %s (%s)", b.Name, b.Email)))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	section(pdf, tr, "Serviços")
	for _, svc := range s.Services {
		pdf.Cell(0, 7, tr(fmt.Sprintf("- %s: %.2f / %d min", svc.Name, svc.Price, svc.DurationMin)))
		pdf.Ln(7)
	}

	y := pdf.GetY() + 6
	x := 10.0
	for _, qr := range []struct{ name, label, link string }{
		{"directions", "Como chegar", s.Links.Directions},
		{"whatsapp", "WhatsApp", s.Links.WhatsApp},
	} {
		if qr.link == "" {
			continue
		}
		png, err := links.QRCode(qr.link, 256)
		if err != nil {
			return fmt.Errorf("qr %s: %w", qr.name, err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(qr.name, opts, bytes.NewReader(png))
		pdf.ImageOptions(qr.name, x, y, 40, 40, false, opts, 0, "")
		pdf.SetXY(x, y+41)
		pdf.Cell(40, 6, tr(qr.label))
		x += 50
	}

	return pdf.Output(w)
}

func (s ShopSheet) details() []string {
	var out []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, label+": "+v)
		}
	}

	add("Endereço", strings.Join(nonEmpty(s.Shop.Address, s.Shop.Sector, s.Shop.City), ", "))
	add("Telefone", s.Shop.Phone)
	add("E-mail", s.Shop.Email)
	if s.Shop.Latitude != "" && s.Shop.Longitude != "" {
		add("Coordenadas", s.Shop.Latitude+", "+s.Shop.Longitude)
	}

	labels := make([]string, 0, len(s.Shop.Categories))
	for _, l := range s.Shop.Categories {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	add("Categorias", strings.Join(labels, ", "))
	return out
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
