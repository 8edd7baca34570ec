// Package geo obtém coordenadas para o formulário de shop.
package geo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrTimeout             = errors.New("geolocation timed out")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
)

// Message devolve o texto mostrado ao usuário para cada falha.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Permissão de localização negada. Libere o acesso ou informe as coordenadas manualmente."
	case errors.Is(err, ErrTimeout):
		return "A localização demorou demais. Tente novamente ou informe as coordenadas manualmente."
	case errors.Is(err, ErrPositionUnavailable):
		return "Não foi possível determinar a localização. Informe as coordenadas manualmente."
	default:
		return "Erro ao obter a localização."
	}
}

type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaxAge aceita posição em cache até essa idade; zero força nova leitura.
	MaxAge time.Duration
}

var (
	HighAccuracy = Options{HighAccuracy: true, Timeout: 10 * time.Second, MaxAge: 0}
	Relaxed      = Options{HighAccuracy: false, Timeout: 20 * time.Second, MaxAge: 5 * time.Minute}
)

// Query descreve o lugar a localizar.
type Query struct {
	Address string
	Sector  string
	City    string
}

type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	At        time.Time `json:"at"`
}

type Locator interface {
	Locate(ctx context.Context, q Query, opts Options) (Position, error)
}

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionPrompt  Permission = "prompt"
	PermissionDenied  Permission = "denied"
)

// PermissionChecker é a consulta prévia de permissão, quando existe.
type PermissionChecker interface {
	Permission(ctx context.Context) (Permission, error)
}

// StaticPermission é o estado informado pelo navegador junto com o pedido.
type StaticPermission Permission

func (p StaticPermission) Permission(context.Context) (Permission, error) {
	if p == "" {
		return PermissionPrompt, nil
	}
	return Permission(p), nil
}
