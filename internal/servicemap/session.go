package servicemap

import (
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

// Session guarda as edições ainda não salvas de um owner num shop.
// Só barbeiros tocados aparecem em Edits.
type Session struct {
	OwnerID barbershop.ID                     `json:"owner_id"`
	ShopID  barbershop.ID                     `json:"shop_id"`
	Edits   map[barbershop.ID][]barbershop.ID `json:"edits"`
}

func NewSession(owner, shop barbershop.ID) *Session {
	return &Session{
		OwnerID: owner,
		ShopID:  shop,
		Edits:   map[barbershop.ID][]barbershop.ID{},
	}
}

// Touched indica se o barbeiro já tem conjunto próprio na sessão.
func (s *Session) Touched(barber barbershop.ID) bool {
	_, ok := s.Edits[barber]
	return ok
}

// Toggle liga/desliga o serviço para o barbeiro. No primeiro toque copia o
// conjunto salvo; os outros barbeiros não mudam.
func (s *Session) Toggle(barber, service barbershop.ID, committed []barbershop.ID) {
	if s.Edits == nil {
		s.Edits = map[barbershop.ID][]barbershop.ID{}
	}

	set, ok := s.Edits[barber]
	if !ok {
		set = append([]barbershop.ID{}, committed...)
	}

	out := make([]barbershop.ID, 0, len(set)+1)
	found := false
	for _, id := range set {
		if barbershop.EqualID(id, service) {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, service)
	}
	s.Edits[barber] = out
}

// Selected devolve o conjunto em vigor: edição se houver, senão o salvo.
func (s *Session) Selected(barber barbershop.ID, committed []barbershop.ID) []barbershop.ID {
	if set, ok := s.Edits[barber]; ok {
		return append([]barbershop.ID{}, set...)
	}
	return append([]barbershop.ID{}, committed...)
}
