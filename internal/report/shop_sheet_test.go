package report

import (
	"bytes"
	"testing"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/links"
)

func TestShopSheet_Write(t *testing.T) {
	shop := barbershop.Shop{
		ID:         "10",
		Name:       "Barbería Centro",
		Address:    "Rua A 10",
		City:       "Lima",
		Phone:      "555 123 4567",
		Latitude:   "-12.04",
		Longitude:  "-77.04",
		Categories: map[string]string{"barberia": "Barbería"},
	}
	sheet := ShopSheet{
		Shop:     shop,
		Barbers:  []barbershop.User{{ID: "1", Name: "Ana", Email: "ana@x.com"}},
		Services: []barbershop.Service{{ID: "100", Name: "Corte", Price: 30, DurationMin: 30}},
		Links:    links.For(shop),
	}

	var buf bytes.Buffer
	if err := sheet.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}
