package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

// API é a plataforma vista pelo console.
type API interface {
	ListShops(ctx context.Context) ([]barbershop.Shop, error)
	ListUsers(ctx context.Context) ([]barbershop.User, error)
	ListServices(ctx context.Context) ([]barbershop.Service, error)
	ListBarberServices(ctx context.Context) (barbershop.BarberServices, error)

	// Create/Update devolvem o corpo cru: o formato da resposta varia e
	// quem chama normaliza.
	CreateShop(ctx context.Context, payload barbershop.ShopPayload) (json.RawMessage, error)
	UpdateShop(ctx context.Context, id barbershop.ID, payload barbershop.ShopPayload) (json.RawMessage, error)
	DeleteShop(ctx context.Context, id barbershop.ID) error

	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	SaveBarberServicesForShop(ctx context.Context, shopID barbershop.ID, mapping barbershop.BarberServices) error

	UpdateUser(ctx context.Context, id barbershop.ID, patch barbershop.UserPatch) (barbershop.User, error)

	CreateService(ctx context.Context, payload barbershop.ServicePayload) (barbershop.Service, error)
	DeleteService(ctx context.Context, id barbershop.ID) error
}

// ErrUnavailable marca falha de rede ou resposta 5xx.
var ErrUnavailable = errors.New("platform unavailable")

// Error é uma resposta não-2xx da plataforma.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("platform %d %s", e.Status, e.Code)
}

// Unwrap faz 5xx casar com ErrUnavailable.
func (e *Error) Unwrap() error {
	if e.Status >= http.StatusInternalServerError {
		return ErrUnavailable
	}
	return nil
}

// AsError extrai o erro da plataforma, se houver.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
