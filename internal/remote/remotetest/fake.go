// Package remotetest traz um remote.API em memória para testes.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
)

// Fake registra as chamadas e devolve os dados configurados.
// Um erro em Errors[metodo] faz a chamada falhar.
type Fake struct {
	mu sync.Mutex

	Shops          []barbershop.Shop
	Users          []barbershop.User
	Services       []barbershop.Service
	BarberServices barbershop.BarberServices

	// resposta crua de CreateShop/UpdateShop; vazio ecoa o shop salvo
	ShopResponse json.RawMessage
	UploadURL    string

	Errors map[string]error
	Calls  []Call

	nextID int
}

type Call struct {
	Method string
	Args   []any
}

func New() *Fake {
	return &Fake{
		BarberServices: barbershop.BarberServices{},
		Errors:         map[string]error{},
		UploadURL:      "https://cdn.example.com/shops/photo.webp",
		nextID:         1000,
	}
}

func (f *Fake) record(method string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Method: method, Args: args})
	return f.Errors[method]
}

// Count conta chamadas de um método.
func (f *Fake) Count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Last devolve a última chamada do método.
func (f *Fake) Last(method string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Method == method {
			return f.Calls[i], true
		}
	}
	return Call{}, false
}

func (f *Fake) newID() barbershop.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return barbershop.ID(strconv.Itoa(f.nextID))
}

func (f *Fake) ListShops(context.Context) ([]barbershop.Shop, error) {
	if err := f.record("ListShops"); err != nil {
		return nil, err
	}
	return append([]barbershop.Shop(nil), f.Shops...), nil
}

func (f *Fake) ListUsers(context.Context) ([]barbershop.User, error) {
	if err := f.record("ListUsers"); err != nil {
		return nil, err
	}
	return append([]barbershop.User(nil), f.Users...), nil
}

func (f *Fake) ListServices(context.Context) ([]barbershop.Service, error) {
	if err := f.record("ListServices"); err != nil {
		return nil, err
	}
	return append([]barbershop.Service(nil), f.Services...), nil
}

func (f *Fake) ListBarberServices(context.Context) (barbershop.BarberServices, error) {
	if err := f.record("ListBarberServices"); err != nil {
		return nil, err
	}
	out := barbershop.BarberServices{}
	for k, v := range f.BarberServices {
		out[k] = append([]barbershop.ID(nil), v...)
	}
	return out, nil
}

func (f *Fake) CreateShop(_ context.Context, p barbershop.ShopPayload) (json.RawMessage, error) {
	if err := f.record("CreateShop", p); err != nil {
		return nil, err
	}
	if len(f.ShopResponse) > 0 {
		return f.ShopResponse, nil
	}
	return echoShop(f.newID(), p)
}

func (f *Fake) UpdateShop(_ context.Context, id barbershop.ID, p barbershop.ShopPayload) (json.RawMessage, error) {
	if err := f.record("UpdateShop", id, p); err != nil {
		return nil, err
	}
	if len(f.ShopResponse) > 0 {
		return f.ShopResponse, nil
	}
	return echoShop(id, p)
}

func (f *Fake) DeleteShop(_ context.Context, id barbershop.ID) error {
	return f.record("DeleteShop", id)
}

func (f *Fake) UploadImage(_ context.Context, filename, contentType string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	if err := f.record("UploadImage", filename, contentType); err != nil {
		return "", err
	}
	return f.UploadURL, nil
}

func (f *Fake) SaveBarberServicesForShop(_ context.Context, shopID barbershop.ID, m barbershop.BarberServices) error {
	return f.record("SaveBarberServicesForShop", shopID, m)
}

func (f *Fake) UpdateUser(_ context.Context, id barbershop.ID, patch barbershop.UserPatch) (barbershop.User, error) {
	if err := f.record("UpdateUser", id, patch); err != nil {
		return barbershop.User{}, err
	}
	u, _ := barbershop.FindUser(f.Users, id)
	if patch.ClearShop {
		u.ShopID = nil
	} else if patch.ShopID != nil {
		u.ShopID = patch.ShopID
	}
	if patch.Roles != nil {
		u.Roles = *patch.Roles
	}
	return u, nil
}

func (f *Fake) CreateService(_ context.Context, p barbershop.ServicePayload) (barbershop.Service, error) {
	if err := f.record("CreateService", p); err != nil {
		return barbershop.Service{}, err
	}
	return barbershop.Service{
		ID:          f.newID(),
		Name:        p.Name,
		Price:       p.Price,
		DurationMin: p.DurationMin,
		Description: p.Description,
		ShopID:      p.ShopID,
		BarberID:    p.BarberID,
	}, nil
}

func (f *Fake) DeleteService(_ context.Context, id barbershop.ID) error {
	return f.record("DeleteService", id)
}

func echoShop(id barbershop.ID, p barbershop.ShopPayload) (json.RawMessage, error) {
	s := barbershop.Shop{
		ID:         id,
		Name:       p.Name,
		Address:    p.Address,
		Sector:     p.Sector,
		City:       p.City,
		Phone:      p.Phone,
		Email:      p.Email,
		WhatsApp:   p.WhatsApp,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Categories: p.Categories,
		PhotoURL:   p.PhotoURL,
	}
	if p.BarberIDs != nil {
		s.BarberIDs = *p.BarberIDs
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("echo shop: %w", err)
	}
	return b, nil
}

var _ remote.API = (*Fake)(nil)
