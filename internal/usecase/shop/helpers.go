package shop

import (
	"math"
	"strconv"
	"strings"

	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/models"
)

// Actor é quem executa a operação, vindo do JWT.
type Actor struct {
	UserID uint
	Roles  domain.RoleSet
}

func (a Actor) userIDPtr() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// canManage: admin mexe em tudo; dono só no próprio shop; shop sem dono é de quem chegar.
func (a Actor) canManage(shop *models.Barbershop) bool {
	if a.Roles.Has(domain.RoleAdmin) {
		return true
	}
	return shop.OwnerID == nil || *shop.OwnerID == a.UserID
}

// uintIDs converte ids do wire; code é o erro de negócio para id inválido.
func uintIDs(ids []domain.ID, code string) ([]uint, error) {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		v, ok := id.Uint()
		if !ok {
			return nil, httperr.ErrBusiness(code)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

func validCoordinate(raw string, limit float64) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v) <= limit
}
