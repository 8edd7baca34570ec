package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

func TestClient_SendsBearerAndDecodesMixedIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/api/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[{"id":1,"role":"Barber","shop_id":"7"},{"id":"2","role":"owner","shop_id":null}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second).WithToken("tok")
	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "1" || users[0].ShopID == nil || *users[0].ShopID != "7" {
		t.Fatalf("unexpected first user %+v", users[0])
	}
	if !users[0].Roles.Has(barbershop.RoleBarber) {
		t.Fatalf("expected barber role")
	}
	if users[1].ShopID != nil {
		t.Fatalf("expected nil shop for second user")
	}
}

func TestClient_PlatformError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error_code":"email_already_exists","message":"Já existe"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.CreateShop(context.Background(), barbershop.ShopPayload{Name: "x"})

	perr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Status != http.StatusConflict || perr.Code != "email_already_exists" {
		t.Fatalf("unexpected error %+v", perr)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("4xx must not be ErrUnavailable")
	}
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).DeleteShop(context.Background(), "3")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_NetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).ListShops(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_CreateShopReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p barbershop.ShopPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name != "Corte" {
			t.Errorf("bad payload %v %+v", err, p)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"shop":{"id":5},"schedule":{"latitude":"1"}}`)
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL, time.Second).CreateShop(context.Background(), barbershop.ShopPayload{Name: "Corte"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"schedule"`) {
		t.Fatalf("expected raw body, got %s", raw)
	}
}

func TestClient_UploadImageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "a.png" || string(body) != "PNGDATA" || header.Header.Get("Content-Type") != "image/png" {
			t.Errorf("unexpected upload %q %q %q", header.Filename, body, header.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"url":"https://cdn/x.webp"}`)
	}))
	defer srv.Close()

	url, err := NewClient(srv.URL, time.Second).UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn/x.webp" {
		t.Fatalf("unexpected url %q", url)
	}
}
